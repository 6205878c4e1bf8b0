package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/skein/pkg/conn/db/postgres/pool"
	"github.com/opst/skein/pkg/domain"
	domerr "github.com/opst/skein/pkg/domain/errors"
	kpgerr "github.com/opst/skein/pkg/domain/errors/dberrors/postgres"
)

type historyPG struct { // implements khistory.HistoryInterface

	// connection pool for PostgreSQL
	pool kpool.Pool

	newGuid func() string
}

type Option func(*historyPG) *historyPG

// WithGuidFactory overrides how guids of new revisions are generated.
func WithGuidFactory(factory func() string) Option {
	return func(h *historyPG) *historyPG {
		h.newGuid = factory
		return h
	}
}

// args:
//   - pool: connection pool used to query/exec SQL
func New(pool kpool.Pool, option ...Option) *historyPG {
	h := &historyPG{
		pool:    pool,
		newGuid: uuid.NewString,
	}
	for _, opt := range option {
		h = opt(h)
	}
	return h
}

func (h *historyPG) Append(ctx context.Context, spec domain.RevisionSpec) (domain.Revision, error) {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return domain.Revision{}, err
	}
	defer tx.Rollback(ctx)

	if err := lockHead(ctx, tx, spec.ResourceRef); err != nil {
		return domain.Revision{}, err
	}

	guid := h.newGuid()
	rev := domain.Revision{
		ResourceRef: spec.ResourceRef,
		Guid:        guid,
		Folder:      spec.Folder,
		Value:       spec.Value,
	}

	if err := tx.QueryRow(
		ctx,
		`
		with "head" as (
			select coalesce(max("resource_version"), 0) as "version"
			from "resource_history"
			where
				"namespace" = $1 and "group" = $2
				and "resource" = $3 and "name" = $4
		)
		insert into "resource_history"
			("guid", "namespace", "group", "resource", "name", "resource_version", "folder", "value")
		select
			$5, $1, $2, $3, $4, "version" + 1, $6, $7
		from "head"
		where "version" = $8
		returning "resource_version"
		`,
		spec.Namespace, spec.Group, spec.Resource, spec.Name,
		guid, spec.Folder, spec.Value, spec.PreviousVersion,
	).Scan(&rev.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// the head has moved away from PreviousVersion. the transaction
			// is still alive, so ask it for the actual head.
			head, herr := currentVersion(ctx, tx, spec.ResourceRef)
			if herr != nil {
				return domain.Revision{}, herr
			}
			return domain.Revision{}, domerr.Conflict{
				Expected: spec.PreviousVersion, Head: head,
			}
		}
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) &&
			pgerr.Code == pgerrcode.UniqueViolation {
			// lost a race against a concurrent append. the transaction is
			// aborted now, so read the head over a fresh connection.
			conn, cerr := h.pool.Acquire(ctx)
			if cerr != nil {
				return domain.Revision{}, cerr
			}
			defer conn.Release()
			head, herr := currentVersion(ctx, conn, spec.ResourceRef)
			if herr != nil {
				return domain.Revision{}, herr
			}
			return domain.Revision{}, domerr.Conflict{
				Expected: spec.PreviousVersion, Head: head,
			}
		}
		return domain.Revision{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Revision{}, err
	}

	return rev, nil
}

// lockHead takes a row lock on the newest revision of the resource, so that
// appends to the same resource run one by one. For a resource with no history
// there is nothing to lock, and the unique constraint on
// (namespace, group, resource, name, resource_version) settles the race.
func lockHead(ctx context.Context, conn kpool.Queryer, ref domain.ResourceRef) error {
	rows, err := conn.Query(
		ctx,
		`
		select "guid" from "resource_history"
		where
			"namespace" = $1 and "group" = $2
			and "resource" = $3 and "name" = $4
		order by "resource_version" desc
		limit 1
		for update
		`,
		ref.Namespace, ref.Group, ref.Resource, ref.Name,
	)
	if err != nil {
		return err
	}
	rows.Close()

	return nil
}

func currentVersion(ctx context.Context, conn kpool.Queryer, ref domain.ResourceRef) (int64, error) {
	var version int64
	if err := conn.QueryRow(
		ctx,
		`
		select coalesce(max("resource_version"), 0)
		from "resource_history"
		where
			"namespace" = $1 and "group" = $2
			and "resource" = $3 and "name" = $4
		`,
		ref.Namespace, ref.Group, ref.Resource, ref.Name,
	).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (h *historyPG) GetLatest(ctx context.Context, ref domain.ResourceRef) (domain.Revision, error) {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return domain.Revision{}, err
	}
	defer conn.Release()

	rev := domain.Revision{ResourceRef: ref}
	if err := conn.QueryRow(
		ctx,
		`
		select "guid", "resource_version", "folder", "value"
		from "resource_history"
		where
			"namespace" = $1 and "group" = $2
			and "resource" = $3 and "name" = $4
		order by "resource_version" desc
		limit 1
		`,
		ref.Namespace, ref.Group, ref.Resource, ref.Name,
	).Scan(&rev.Guid, &rev.Version, &rev.Folder, &rev.Value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Revision{}, kpgerr.Missing{
				Table: "resource_history", Identity: fmt.Sprintf("resource='%s'", ref),
			}
		}
		return domain.Revision{}, err
	}

	return rev, nil
}

func (h *historyPG) GetAtVersion(ctx context.Context, ref domain.ResourceRef, version int64) (domain.Revision, error) {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return domain.Revision{}, err
	}
	defer conn.Release()

	rev := domain.Revision{ResourceRef: ref, Version: version}
	if err := conn.QueryRow(
		ctx,
		`
		select "guid", "folder", "value"
		from "resource_history"
		where
			"namespace" = $1 and "group" = $2
			and "resource" = $3 and "name" = $4
			and "resource_version" = $5
		`,
		ref.Namespace, ref.Group, ref.Resource, ref.Name, version,
	).Scan(&rev.Guid, &rev.Folder, &rev.Value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Revision{}, kpgerr.Missing{
				Table:    "resource_history",
				Identity: fmt.Sprintf("resource='%s', version=%d", ref, version),
			}
		}
		return domain.Revision{}, err
	}

	return rev, nil
}

func (h *historyPG) List(ctx context.Context, ref domain.ResourceRef, page domain.HistoryPage) ([]domain.Revision, error) {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var limit *int
	if 0 < page.Limit {
		l := page.Limit
		limit = &l
	}

	rows, err := conn.Query(
		ctx,
		`
		select "guid", "resource_version", "folder", "value"
		from "resource_history"
		where
			"namespace" = $1 and "group" = $2
			and "resource" = $3 and "name" = $4
			and ($5::bigint <= 0 or "resource_version" < $5::bigint)
		order by "resource_version" desc
		limit $6
		`,
		ref.Namespace, ref.Group, ref.Resource, ref.Name, page.Before, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revisions := []domain.Revision{}
	for rows.Next() {
		rev := domain.Revision{ResourceRef: ref}
		if err := rows.Scan(&rev.Guid, &rev.Version, &rev.Folder, &rev.Value); err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return revisions, nil
}
