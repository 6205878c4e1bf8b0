package put

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/opst/skein/cmd/skein/subcommands/common"
	bindres "github.com/opst/skein/pkg/api-types-binding/resources"
	krst "github.com/opst/skein/pkg/client/rest"
	"github.com/opst/skein/pkg/domain"
	"github.com/opst/skein/pkg/utils/pointer"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Folder string `flag:"folder" help:"file the resource under this folder."`
	Base   int    `flag:"base" help:"version this write is based on. 0 claims the resource does not exist yet."`
}

type Option struct {
	put func(
		ctx context.Context,
		client krst.SkeinClient,
		spec domain.RevisionSpec,
	) (domain.Revision, error)
}

func WithPut(
	put func(
		ctx context.Context,
		client krst.SkeinClient,
		spec domain.RevisionSpec,
	) (domain.Revision, error),
) func(*Option) *Option {
	return func(cmd *Option) *Option {
		cmd.put = put
		return cmd
	}
}

const (
	ARG_RESOURCE = "RESOURCE"
	ARG_FILE     = "FILE"
)

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		put: RunAppendRevision,
	}

	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Append a new revision of a resource.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_RESOURCE, Required: true,
				Help: "Resource as NAMESPACE/GROUP/RESOURCE/NAME. Cluster-scoped resources take - as their namespace.",
			},
			{
				Name: ARG_FILE, Required: false,
				Help: "File holding the value to be written. Read from stdin when omitted.",
			},
		},
		common.NewTask(Task(option.put)),
	)
}

func Task(
	put func(
		ctx context.Context,
		client krst.SkeinClient,
		spec domain.RevisionSpec,
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

		var value []byte
		if files := cl.Args()[ARG_FILE]; 0 < len(files) {
			value, err = os.ReadFile(files[0])
			if err != nil {
				return fmt.Errorf("%w: failed to read %s", err, files[0])
			}
		} else {
			value, err = io.ReadAll(cl.Stdin())
			if err != nil {
				return fmt.Errorf("%w: failed to read stdin", err)
			}
		}

		flags := cl.Flags()
		var folder *string
		if flags.Folder != "" {
			folder = pointer.Ref(flags.Folder)
		}

		rev, err := put(ctx, client, domain.RevisionSpec{
			ResourceRef:     ref,
			Folder:          folder,
			Value:           value,
			PreviousVersion: int64(flags.Base),
		})
		if err != nil {
			return fmt.Errorf("%w: resource %s", err, resource)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(bindres.ComposeDetail(rev)); err != nil {
			logger.Panicf("fail to dump the appended revision")
		}

		return nil
	}
}

func RunAppendRevision(
	ctx context.Context,
	client krst.SkeinClient,
	spec domain.RevisionSpec,
) (domain.Revision, error) {
	return client.AppendRevision(ctx, spec)
}
