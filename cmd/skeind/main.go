package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	sconf "github.com/opst/skein/pkg/configs/server"
	"github.com/opst/skein/pkg/domain/schema/repository"
	"github.com/opst/skein/pkg/domain/skein"
	"github.com/opst/skein/pkg/echoutil"
	"github.com/opst/skein/pkg/utils/filewatch"

	"github.com/opst/skein/cmd/skeind/handlers"
)

func main() {

	configPath := flag.String("config-path", os.Getenv("SKEIN_CONFIG"), "server config path")
	schemaRepo := flag.String("schema-repo", os.Getenv("SKEIN_SCHEMA"), "schema repository path. Uses the embedded repository when empty.")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	// read configfile
	conf, err := sconf.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	{
		ctx_, cancel, err := filewatch.UntilModifyContext(ctx, *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		ctx = ctx_
	}

	schemaPath := *schemaRepo
	if schemaPath == "" {
		d, err := os.MkdirTemp("", "skein-schema-")
		if err != nil {
			log.Fatalf("can not export schema repository: %s", err)
		}
		defer os.RemoveAll(d)
		if err := repository.Export(d); err != nil {
			log.Fatalf("can not export schema repository: %s", err)
		}
		schemaPath = d
	}

	s, err := skein.Default(ctx, conf, skein.WithSchemaRepository(schemaPath))
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer s.Database().Close()

	{
		// do not serve records over an outdated schema
		ctx_, ccan := s.Database().Schema().Context(ctx)
		defer ccan()
		ctx = ctx_
	}

	// handlers
	{
		resource := "/api/resources/:namespace/:group/:resource/:name/"
		e.GET(resource, handlers.GetResourceHandler(s.Database().History()))
		e.PUT(resource, handlers.PutResourceHandler(s.Database().History(), s.Kinds()))
		e.GET(resource+"history/", handlers.ResourceHistoryHandler(s.Database().History()))
	}
	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		cert, key := *pcert, *pkey
		var err error
		if cert != "" && key != "" {
			err = e.StartTLS(":"+conf.Port(), cert, key)
		} else {
			err = e.Start(":" + conf.Port())
		}
		if err != nil && err != http.ErrServerClosed {
			ch <- err
		}
	}()

	exit := 0
	select {
	case <-ctx.Done(): // wait
		if err := ctx.Err(); err != nil {
			e.Logger.Infof("context has been done: %s, cause: %s", err, context.Cause(ctx))
			exit = 1
		}
	case err := <-ch:
		if err != nil {
			e.Logger.Error("server stops with error:", err)
			exit = 1
		}
	}

	{
		e.Logger.Info("shutting down...")
		qctx, qcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer qcancel()

		if err := e.Shutdown(qctx); err != nil {
			e.Logger.Fatalf("Shutdown with error. %+v", err)
		}
		os.Exit(exit)
	}
}
