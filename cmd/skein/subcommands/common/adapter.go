package common

import (
	"context"
	"errors"
	"fmt"
	"log"

	krest "github.com/opst/skein/pkg/client/rest"
	kconf "github.com/opst/skein/pkg/configs/kinds"
	"github.com/opst/skein/pkg/domain/kind"
	"github.com/youta-t/flarc"
)

type TaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTaskWithCommonFlag[T any](task TaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		return task(
			ctx,
			logger,
			commonFlag,
			cl,
			newpos,
		)
	}
}

type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	client krest.SkeinClient,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTask[T any](task Task[T]) flarc.Task[T] {

	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		if commonFlag.Manifest == "" {
			return fmt.Errorf(
				"%w: --manifest is required. Point it (or envvar SKEIN_MANIFEST) at the kind manifest skeind runs with",
				flarc.ErrUsage,
			)
		}
		kinds, err := kconf.LoadKindManifest(commonFlag.Manifest)
		if err != nil {
			return fmt.Errorf(
				"%w: failed to load kind manifest (%s)", err, commonFlag.Manifest,
			)
		}
		registry, err := kind.New(kinds...)
		if err != nil {
			return fmt.Errorf(
				"%w: kind manifest (%s) is broken", err, commonFlag.Manifest,
			)
		}

		client, err := krest.NewClient(commonFlag.Api, registry)
		if err != nil {
			return fmt.Errorf(
				"%w: failed to create skein client for %s", err, commonFlag.Api,
			)
		}
		return task(ctx, logger, client, cl, params)
	})
}
