package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/opst/skein/cmd/skein/subcommands/common"
	bindres "github.com/opst/skein/pkg/api-types-binding/resources"
	krst "github.com/opst/skein/pkg/client/rest"
	"github.com/opst/skein/pkg/domain"
	"github.com/opst/skein/pkg/utils/slices"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Limit  int `flag:"limit" help:"cap the number of revisions. Non-positive means unlimited."`
	Before int `flag:"before" help:"list revisions older than this version only."`
}

type Option struct {
	list func(
		ctx context.Context,
		client krst.SkeinClient,
		ref domain.ResourceRef,
		page domain.HistoryPage,
	) ([]domain.Revision, error)
}

func WithList(
	list func(
		ctx context.Context,
		client krst.SkeinClient,
		ref domain.ResourceRef,
		page domain.HistoryPage,
	) ([]domain.Revision, error),
) func(*Option) *Option {
	return func(cmd *Option) *Option {
		cmd.list = list
		return cmd
	}
}

const ARG_RESOURCE = "RESOURCE"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		list: RunListHistory,
	}

	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"List the revision history of a resource, newest first.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_RESOURCE, Required: true,
				Help: "Resource as NAMESPACE/GROUP/RESOURCE/NAME. Cluster-scoped resources take - as their namespace.",
			},
		},
		common.NewTask(Task(option.list)),
	)
}

func Task(
	list func(
		ctx context.Context,
		client krst.SkeinClient,
		ref domain.ResourceRef,
		page domain.HistoryPage,
	) ([]domain.Revision, error),
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

		flags := cl.Flags()
		revisions, err := list(ctx, client, ref, domain.HistoryPage{
			Limit:  flags.Limit,
			Before: int64(flags.Before),
		})
		if err != nil {
			return fmt.Errorf("%w: resource %s", err, resource)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(slices.Map(revisions, bindres.ComposeDetail)); err != nil {
			logger.Panicf("fail to dump the history")
		}

		return nil
	}
}

func RunListHistory(
	ctx context.Context,
	client krst.SkeinClient,
	ref domain.ResourceRef,
	page domain.HistoryPage,
) ([]domain.Revision, error) {
	return client.ListHistory(ctx, ref, page)
}
