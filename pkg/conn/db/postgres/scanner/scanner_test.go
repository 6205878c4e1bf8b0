package scanner_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/opst/skein/pkg/conn/db/postgres/scanner"
	"github.com/opst/skein/pkg/utils/cmp"
)

// fakeRows replays canned rows as pgx.Rows.
type fakeRows struct {
	fields []pgproto3.FieldDescription
	rows   [][]interface{}
	cursor int
}

var _ pgx.Rows = &fakeRows{}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgproto3.FieldDescription {
	return r.fields
}
func (r *fakeRows) Next() bool {
	if r.cursor < len(r.rows) {
		r.cursor += 1
		return true
	}
	return false
}
func (r *fakeRows) Scan(dest ...interface{}) error {
	row := r.rows[r.cursor-1]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for nth, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[nth]))
	}
	return nil
}
func (r *fakeRows) Values() ([]interface{}, error) {
	return r.rows[r.cursor-1], nil
}
func (r *fakeRows) RawValues() [][]byte { return nil }

func TestScanner_StructRows(t *testing.T) {
	type record struct {
		Guid    string
		Version int64  `sql:"resource_version"`
		Value   []byte `sql:"value"`
	}

	t.Run("it maps columns by tag and name", func(t *testing.T) {
		rows := &fakeRows{
			fields: []pgproto3.FieldDescription{
				{Name: []byte("guid"), DataTypeOID: pgtype.VarcharOID},
				{Name: []byte("resource_version"), DataTypeOID: pgtype.Int8OID},
				{Name: []byte("value"), DataTypeOID: pgtype.ByteaOID},
			},
			rows: [][]interface{}{
				{"3e8475cb-c33e-4f67-9c17-32aa6be0bb14", int64(1), []byte(`{"a":1}`)},
				{"8231a2df-1b42-4d52-bd0b-d36b2f2874f5", int64(2), []byte(`{"a":2}`)},
			},
		}

		actual, err := scanner.New[record]().ScanAll(rows)
		if err != nil {
			t.Fatal(err)
		}

		expected := []record{
			{Guid: "3e8475cb-c33e-4f67-9c17-32aa6be0bb14", Version: 1, Value: []byte(`{"a":1}`)},
			{Guid: "8231a2df-1b42-4d52-bd0b-d36b2f2874f5", Version: 2, Value: []byte(`{"a":2}`)},
		}
		if !cmp.SliceEqWith(actual, expected, func(a, e record) bool {
			return a.Guid == e.Guid && a.Version == e.Version && string(a.Value) == string(e.Value)
		}) {
			t.Errorf("unexpected records: %+v", actual)
		}
	})

	t.Run("when a column has no matching field, it returns error", func(t *testing.T) {
		rows := &fakeRows{
			fields: []pgproto3.FieldDescription{
				{Name: []byte("no_such_column"), DataTypeOID: pgtype.TextOID},
			},
			rows: [][]interface{}{{"x"}},
		}

		if _, err := scanner.New[record]().ScanAll(rows); err == nil {
			t.Error("no error is returned")
		}
	})

	t.Run("when there are no rows, it returns empty slice", func(t *testing.T) {
		rows := &fakeRows{
			fields: []pgproto3.FieldDescription{
				{Name: []byte("guid"), DataTypeOID: pgtype.VarcharOID},
				{Name: []byte("resource_version"), DataTypeOID: pgtype.Int8OID},
				{Name: []byte("value"), DataTypeOID: pgtype.ByteaOID},
			},
		}

		actual, err := scanner.New[record]().ScanAll(rows)
		if err != nil {
			t.Fatal(err)
		}
		if len(actual) != 0 {
			t.Errorf("unexpected records: %+v", actual)
		}
	})
}

func TestScanner_SingleColumn(t *testing.T) {
	t.Run("it scans single int8 column into int64", func(t *testing.T) {
		rows := &fakeRows{
			fields: []pgproto3.FieldDescription{
				{Name: []byte("resource_version"), DataTypeOID: pgtype.Int8OID},
			},
			rows: [][]interface{}{{int64(3)}, {int64(2)}, {int64(1)}},
		}

		actual, err := scanner.New[int64]().ScanAll(rows)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.SliceEq(actual, []int64{3, 2, 1}) {
			t.Errorf("unexpected values: %v", actual)
		}
	})

	t.Run("when rows have more than one column, it returns error", func(t *testing.T) {
		rows := &fakeRows{
			fields: []pgproto3.FieldDescription{
				{Name: []byte("a"), DataTypeOID: pgtype.TextOID},
				{Name: []byte("b"), DataTypeOID: pgtype.TextOID},
			},
			rows: [][]interface{}{{"x", "y"}},
		}

		if _, err := scanner.New[string]().ScanAll(rows); err == nil {
			t.Error("no error is returned")
		}
	})
}
