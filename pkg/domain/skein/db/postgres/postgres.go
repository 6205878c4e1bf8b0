package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/opst/skein/pkg/conn/db/postgres/pool"
	khistory "github.com/opst/skein/pkg/domain/history/db"
	kpghistory "github.com/opst/skein/pkg/domain/history/db/postgres"
	kschema "github.com/opst/skein/pkg/domain/schema/db"
	kpgschema "github.com/opst/skein/pkg/domain/schema/db/postgres"
	dbInterface "github.com/opst/skein/pkg/domain/skein/db"
	xe "github.com/opst/skein/pkg/errors"
)

type skeinDBPostgres struct {
	pool    *pgxpool.Pool
	history khistory.HistoryInterface
	schema  kschema.SchemaInterface
}

type Config struct {
	SchemaRepository string
}

func DefaultConfig() Config {
	return Config{}
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.SkeinDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := DefaultConfig()
	for _, option := range options {
		c = *option(&c)
	}

	p := kpool.Wrap(pool)
	var schema kschema.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &skeinDBPostgres{
		pool:    pool,
		history: kpghistory.New(p),
		schema:  schema,
	}, nil
}

func (s *skeinDBPostgres) History() khistory.HistoryInterface {
	return s.history
}

func (s *skeinDBPostgres) Schema() kschema.SchemaInterface {
	return s.schema
}

func (s *skeinDBPostgres) Close() error {
	s.pool.Close()
	return nil
}
