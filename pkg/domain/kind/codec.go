package kind

import (
	"encoding/json"
	"fmt"

	domerr "github.com/opst/skein/pkg/domain/errors"
)

// Codec translates between stored payload bytes and decoded objects.
//
// Each schema version of a kind has its own Codec. What Decode returns (and
// what Encode accepts) is up to the codec. RawCodec works on *Raw, JSONCodec
// on a typed struct.
type Codec interface {
	// Encode renders an object as a payload carrying its apiVersion
	// envelope field.
	Encode(obj Object) ([]byte, error)

	// Decode parses a payload.
	//
	// Return
	//
	// - Object
	//
	// - error: wraps domerr.ErrDecode when the payload cannot be parsed
	// or belongs to another schema version.
	Decode(value []byte) (Object, error)
}

// DecodeError tells why a payload cannot be decoded.
type DecodeError struct {
	// Reason tells what is wrong with the payload.
	Reason string

	// Cause is the underlying parse error, if any.
	Cause error
}

var _ error = (*DecodeError)(nil)

func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("cannot decode: %s", e.Reason)
	}
	return fmt.Sprintf("cannot decode: %s: %v", e.Reason, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return domerr.ErrDecode
}

// Raw is a payload kept in its stored form, with envelope fields read out.
type Raw struct {
	// APIVersion from the envelope, like "sheets.skein.dev/v2".
	APIVersion string

	// Value is the payload, byte for byte as stored.
	Value []byte
}

type rawCodec struct {
	group   string
	version string
}

// RawCodec returns the envelope-preserving codec for one schema version.
//
// Decode verifies the envelope and hands the payload back untouched as *Raw.
// Encode emits Raw.Value byte for byte. Servers use this codec to store and
// serve payloads they have no Go types for.
func RawCodec(group, version string) Codec {
	return rawCodec{group: group, version: version}
}

func (c rawCodec) apiVersion() string {
	return c.group + "/" + c.version
}

func (c rawCodec) Encode(obj Object) ([]byte, error) {
	raw, ok := obj.(*Raw)
	if !ok {
		return nil, fmt.Errorf("codec for %s cannot encode %T", c.apiVersion(), obj)
	}
	if raw.APIVersion != c.apiVersion() {
		return nil, fmt.Errorf(
			"codec for %s cannot encode a payload of %s",
			c.apiVersion(), raw.APIVersion,
		)
	}
	apiVersion, err := PeekAPIVersion(raw.Value)
	if err != nil {
		return nil, err
	}
	if apiVersion != c.apiVersion() {
		return nil, fmt.Errorf(
			"codec for %s cannot encode a payload enveloped as %s",
			c.apiVersion(), apiVersion,
		)
	}
	return raw.Value, nil
}

func (c rawCodec) Decode(value []byte) (Object, error) {
	apiVersion, err := PeekAPIVersion(value)
	if err != nil {
		return nil, err
	}
	if apiVersion != c.apiVersion() {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("payload is %s, not %s", apiVersion, c.apiVersion()),
		}
	}
	return &Raw{
		APIVersion: apiVersion,
		Value:      append([]byte(nil), value...),
	}, nil
}

type jsonCodec[T any] struct {
	group   string
	version string
}

// JSONCodec returns a codec decoding payloads of one schema version into *T.
//
// Encode marshals the object and writes the apiVersion envelope field over
// whatever the object rendered there. For embedding applications and tests.
// Servers storing payloads opaquely use RawCodec instead.
func JSONCodec[T any](group, version string) Codec {
	return jsonCodec[T]{group: group, version: version}
}

func (c jsonCodec[T]) apiVersion() string {
	return c.group + "/" + c.version
}

func (c jsonCodec[T]) Encode(obj Object) ([]byte, error) {
	t, ok := obj.(*T)
	if !ok {
		return nil, fmt.Errorf("codec for %s cannot encode %T", c.apiVersion(), obj)
	}

	body, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf(
			"codec for %s needs an object rendering as a JSON object: %w",
			c.apiVersion(), err,
		)
	}
	apiVersion, err := json.Marshal(c.apiVersion())
	if err != nil {
		return nil, err
	}
	fields["apiVersion"] = apiVersion

	return json.Marshal(fields)
}

func (c jsonCodec[T]) Decode(value []byte) (Object, error) {
	apiVersion, err := PeekAPIVersion(value)
	if err != nil {
		return nil, err
	}
	if apiVersion != c.apiVersion() {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("payload is %s, not %s", apiVersion, c.apiVersion()),
		}
	}

	obj := new(T)
	if err := json.Unmarshal(value, obj); err != nil {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("payload does not fit %s", c.apiVersion()),
			Cause:  err,
		}
	}
	return obj, nil
}
