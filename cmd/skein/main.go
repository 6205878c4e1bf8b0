package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/opst/skein/cmd/skein/subcommands/common"
	subget "github.com/opst/skein/cmd/skein/subcommands/get"
	subhistory "github.com/opst/skein/cmd/skein/subcommands/history"
	"github.com/opst/skein/cmd/skein/subcommands/logger"
	subput "github.com/opst/skein/cmd/skein/subcommands/put"
	subver "github.com/opst/skein/cmd/skein/subcommands/version"
	"github.com/opst/skein/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := common.Flags()
	get := try.To(subget.New()).OrFatal(logger)
	put := try.To(subput.New()).OrFatal(logger)
	history := try.To(subhistory.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	skein := try.To(
		flarc.NewCommandGroup(
			"Skein commandline interface",
			cf,
			flarc.WithSubcommand("get", get),
			flarc.WithSubcommand("put", put),
			flarc.WithSubcommand("history", history),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, skein, flarc.WithHelp(true)))
}
