package server

import (
	"fmt"
	"time"

	kconf "github.com/opst/skein/pkg/configs/kinds"
	"github.com/opst/skein/pkg/domain/resolve"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/server.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type ServerConfigMarshall struct {
	Port        string                      `yaml:"port,omitempty"`
	Database    string                      `yaml:"database"`
	RawCacheTTL string                      `yaml:"rawCacheTTL,omitempty"`
	Kinds       []*kconf.KindConfigMarshall `yaml:"kinds"`
}

var _ Marshalled[*ServerConfig] = &ServerConfigMarshall{}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	port := s.Port
	if port == "" {
		port = "8080"
	}

	ttl := resolve.DefaultRawCacheTTL
	if s.RawCacheTTL != "" {
		d, err := time.ParseDuration(s.RawCacheTTL)
		if err != nil {
			panic(fmt.Errorf("%s.rawCacheTTL can not be parsed: %w", path, err))
		}
		ttl = d
	}

	return &ServerConfig{
		port:        port,
		database:    required(s.Database, path+".database"),
		rawCacheTTL: ttl,
		kinds:       kconf.TrySealAll(path+".kinds", s.Kinds),
	}
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
