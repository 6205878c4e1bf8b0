package rest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/opst/skein/pkg/domain"
	"github.com/opst/skein/pkg/domain/kind"
	"github.com/opst/skein/pkg/domain/resolve"
	"github.com/opst/skein/pkg/utils/slices"
	kstrings "github.com/opst/skein/pkg/utils/strings"
)

// SkeinClient talks to a skeind server over its Web API.
//
// It is a resolve.Transport, so a resolve.Manager backed by a remote skeind
// behaves the same as one backed by the store in-process.
type SkeinClient interface {
	resolve.Transport

	// ListHistory reads a page of the revision history of a resource,
	// newest first.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.ResourceRef: resource whose history is to be read.
	//
	// - domain.HistoryPage: page to be read.
	//
	// Returns
	//
	// - []domain.Revision: revisions in the page. Empty when the resource
	// has no history.
	//
	// - error
	ListHistory(ctx context.Context, ref domain.ResourceRef, page domain.HistoryPage) ([]domain.Revision, error)
}

type Config struct {
	// HttpClient sends the requests. Left nil, a fresh http.Client is used.
	HttpClient *http.Client

	// CACerts are extra CA certificates to be trusted, each one a
	// base64-encoded PEM. Set them when skeind serves TLS with a
	// self-signed certificate.
	CACerts []string
}

type Option func(*Config) *Config

func WithHttpClient(hc *http.Client) Option {
	return func(c *Config) *Config {
		c.HttpClient = hc
		return c
	}
}

func WithCACert(cacerts ...string) Option {
	return func(c *Config) *Config {
		c.CACerts = append(c.CACerts, cacerts...)
		return c
	}
}

type client struct {
	httpclient *http.Client
	api        string
	registry   *kind.Registry
}

var _ SkeinClient = &client{}

// create a new client for a skeind server.
//
// # Args
//
// - apiRoot: root URL of the API, like "http://localhost:8080/api"
//
// - registry: kinds this client knows. Requested schema versions are
// resolved against it, like the server side store does.
//
// - options
//
// # Return
//
// - SkeinClient: created client
//
// - error
func NewClient(apiRoot string, registry *kind.Registry, options ...Option) (SkeinClient, error) {
	conf := &Config{}
	for _, option := range options {
		conf = option(conf)
	}

	httpclient := conf.HttpClient
	if httpclient == nil {
		httpclient = new(http.Client)
	}

	if 0 < len(conf.CACerts) {
		hc, err := trustCa(httpclient, conf.CACerts)
		if err != nil {
			return nil, err
		}
		httpclient = hc
	}

	c := &client{
		httpclient: httpclient,
		api:        kstrings.TrimSuffixAll(apiRoot, "/"),
		registry:   registry,
	}

	return c, nil
}

// build URL with path
func (c *client) apipath(path ...string) string {
	path = slices.Map(path, func(p string) string {
		return kstrings.TrimPrefixAll(kstrings.TrimSuffixAll(p, "/"), "/")
	})

	return strings.Join(append([]string{c.api}, path...), "/")
}

// resourcepath builds the URL of a resource. Cluster-scoped resources (with
// empty namespace) take "-" as their namespace segment.
func (c *client) resourcepath(ref domain.ResourceRef) string {
	namespace := ref.Namespace
	if namespace == "" {
		namespace = "-"
	}
	return c.apipath("resources", namespace, ref.Group, ref.Resource, ref.Name)
}

func trustCa(hc *http.Client, cacerts []string) (*http.Client, error) {
	if len(cacerts) <= 0 {
		return hc, nil
	}

	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}

	tran, ok := hc.Transport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("failed to add ca cert")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}

	rootcas := tcc.RootCAs
	if rootcas == nil {
		rootcas = x509.NewCertPool()
		tcc.RootCAs = rootcas
	}
	for _, ca := range cacerts {
		bin, err := base64.StdEncoding.DecodeString(ca)
		if err != nil {
			return nil, err
		}

		if !rootcas.AppendCertsFromPEM(bin) {
			return nil, fmt.Errorf("failed to add cert")
		}
	}

	tran.TLSClientConfig = tcc
	hc.Transport = tran
	return hc, nil
}
