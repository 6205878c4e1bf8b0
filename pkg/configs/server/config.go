package server

import (
	"time"

	"github.com/opst/skein/pkg/domain/kind"
)

type ServerConfig struct {
	port        string
	database    string
	rawCacheTTL time.Duration
	kinds       []kind.Kind
}

// Port to listen on. default = "8080"
func (c *ServerConfig) Port() string {
	return c.port
}

// Connection string for database.
func (c *ServerConfig) Database() string {
	return c.database
}

// How long a raw fetch response may be served from cache. default = 500ms
func (c *ServerConfig) RawCacheTTL() time.Duration {
	return c.rawCacheTTL
}

// Kind declarations from the manifest, ready to be registered.
func (c *ServerConfig) Kinds() []kind.Kind {
	return append([]kind.Kind(nil), c.kinds...)
}
