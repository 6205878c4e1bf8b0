package get

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/opst/skein/cmd/skein/subcommands/common"
	bindres "github.com/opst/skein/pkg/api-types-binding/resources"
	krst "github.com/opst/skein/pkg/client/rest"
	"github.com/opst/skein/pkg/domain"
	"github.com/opst/skein/pkg/domain/resolve"
	"github.com/youta-t/flarc"
)

type Flag struct {
	As string `flag:"as" help:"schema version label to fetch the resource as. Default is the storage version."`
}

type Option struct {
	fetch func(
		ctx context.Context,
		client krst.SkeinClient,
		ref domain.ResourceRef,
		as string,
	) (domain.Revision, error)
}

func WithFetch(
	fetch func(
		ctx context.Context,
		client krst.SkeinClient,
		ref domain.ResourceRef,
		as string,
	) (domain.Revision, error),
) func(*Option) *Option {
	return func(cmd *Option) *Option {
		cmd.fetch = fetch
		return cmd
	}
}

const ARG_RESOURCE = "RESOURCE"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		fetch: RunFetchResource,
	}

	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Fetch the newest revision of a resource.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_RESOURCE, Required: true,
				Help: "Resource as NAMESPACE/GROUP/RESOURCE/NAME. Cluster-scoped resources take - as their namespace.",
			},
		},
		common.NewTask(Task(option.fetch)),
	)
}

func Task(
	fetch func(
		ctx context.Context,
		client krst.SkeinClient,
		ref domain.ResourceRef,
		as string,
	) (domain.Revision, error),
) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.SkeinClient,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		resource := cl.Args()[ARG_RESOURCE][0]
		ref, err := common.ParseResourceRef(resource)
		if err != nil {
			return err
		}

		rev, err := fetch(ctx, client, ref, cl.Flags().As)
		if err != nil {
			return fmt.Errorf("%w: resource %s", err, resource)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(bindres.ComposeDetail(rev)); err != nil {
			logger.Panicf("fail to dump the fetched revision")
		}

		return nil
	}
}

func RunFetchResource(
	ctx context.Context,
	client krst.SkeinClient,
	ref domain.ResourceRef,
	as string,
) (domain.Revision, error) {
	return client.FetchResource(ctx, ref, resolve.Params{Version: as})
}
