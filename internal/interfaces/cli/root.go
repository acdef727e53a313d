package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/player-rating/internal/usecase"
)

// Services are the use cases the operator commands drive.
type Services struct {
	Ratings *usecase.RatingService
	Players *usecase.PlayerService
	Squads  *usecase.SquadCacheService
}

// OpenFunc builds Services. The returned close func releases storage.
type OpenFunc func(ctx context.Context) (Services, func(), error)

type runner struct {
	open OpenFunc
	out  io.Writer
}

func NewRootCommand(open OpenFunc, out io.Writer) *cobra.Command {
	r := &runner{open: open, out: out}

	root := &cobra.Command{
		Use:           "ratingctl",
		Short:         "Operate player ratings and squad caches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(r.recalculateCommand())
	root.AddCommand(r.ratingCommand())
	root.AddCommand(r.statsCommand())
	root.AddCommand(r.squadsCommand())
	return root
}

func (r *runner) withServices(cmd *cobra.Command, fn func(ctx context.Context, svc Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, closeFn, err := r.open(ctx)
	if err != nil {
		return fmt.Errorf("open services: %w", err)
	}
	defer closeFn()

	return fn(ctx, svc)
}
