package skein

import (
	"context"

	sconf "github.com/opst/skein/pkg/configs/server"
	"github.com/opst/skein/pkg/domain/history"
	"github.com/opst/skein/pkg/domain/kind"
	"github.com/opst/skein/pkg/domain/resolve"
	"github.com/opst/skein/pkg/domain/schema"
	"github.com/opst/skein/pkg/domain/skein/db"
	"github.com/opst/skein/pkg/domain/skein/db/postgres"
)

type Skein interface {
	Config() *sconf.ServerConfig
	Database() db.SkeinDatabase

	History() history.Interface
	Schema() schema.Interface

	Kinds() *kind.Registry
	Resolver() *resolve.Manager
}

type skein struct {
	config   *sconf.ServerConfig
	database db.SkeinDatabase

	history history.Interface
	schema  schema.Interface

	kinds    *kind.Registry
	resolver *resolve.Manager
}

// Default builds a Skein with the kind registry declared in the config's
// kind manifest.
func Default(
	ctx context.Context,
	config *sconf.ServerConfig,
	options ...Option,
) (Skein, error) {
	registry, err := kind.New(config.Kinds()...)
	if err != nil {
		return nil, err
	}
	return New(ctx, config, registry, options...)
}

func New(
	ctx context.Context,
	config *sconf.ServerConfig,
	registry *kind.Registry,
	options ...Option,
) (Skein, error) {
	opt := &_options{}
	for _, o := range options {
		o(opt)
	}

	pg, err := postgres.New(ctx, config.Database(), opt.pg...)
	if err != nil {
		return nil, err
	}

	resolver := resolve.New(
		registry,
		resolve.NewStoreTransport(registry, pg.History()),
		resolve.WithRawCacheTTL(config.RawCacheTTL()),
	)

	return &skein{
		config:   config,
		database: pg,

		history: history.New(pg.History()),
		schema:  schema.New(pg.Schema()),

		kinds:    registry,
		resolver: resolver,
	}, nil
}

type Option func(*_options)

type _options struct {
	pg []postgres.Option
}

func WithSchemaRepository(repository string) Option {
	return func(o *_options) {
		o.pg = append(o.pg, postgres.WithSchemaRepository(repository))
	}
}

func (s *skein) Config() *sconf.ServerConfig {
	return s.config
}

func (s *skein) Database() db.SkeinDatabase {
	return s.database
}

func (s *skein) History() history.Interface {
	return s.history
}

func (s *skein) Schema() schema.Interface {
	return s.schema
}

func (s *skein) Kinds() *kind.Registry {
	return s.kinds
}

func (s *skein) Resolver() *resolve.Manager {
	return s.resolver
}
