package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/player-rating/internal/usecase"
)

func (r *runner) recalculateCommand() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Recompute the overall rating of every player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withServices(cmd, func(ctx context.Context, svc Services) error {
				result, err := svc.Ratings.RecalculateAll(ctx, usecase.RecalculateAllInput{MaxWorkers: workers})
				if err != nil {
					return fmt.Errorf("recalculate ratings: %w", err)
				}

				table := newTable(r.out)
				table.Header("PLAYER", "STATUS", "RATING", "MATCHES", "MESSAGE")
				for _, row := range result.Players {
					if err := table.Append(row.PlayerID, row.Status, row.OverallRating.StringFixed(2), strconv.Itoa(row.MatchesPlayed), row.Message); err != nil {
						return err
					}
				}
				if err := table.Render(); err != nil {
					return err
				}
				_, err = fmt.Fprintf(r.out, "\nUpdated %d of %d players (%d unchanged, %d failed)\n",
					result.Changed, result.Total, result.Unchanged, result.Failed)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (0 uses the configured default)")
	return cmd
}

func (r *runner) ratingCommand() *cobra.Command {
	var history int
	cmd := &cobra.Command{
		Use:   "rating <playerID>",
		Short: "Show a player's overall rating and recent history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withServices(cmd, func(ctx context.Context, svc Services) error {
				item, err := svc.Players.GetRating(ctx, args[0], history)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(r.out, "%s (%s): %s over %d matches\n\n",
					item.Player.Name, item.Player.Position, item.Player.OverallRating.StringFixed(2), item.Player.MatchesPlayed)
				if err != nil {
					return err
				}

				table := newTable(r.out)
				table.Header("RECORDED AT", "RATING")
				for _, entry := range item.History {
					if err := table.Append(entry.RecordedAt.UTC().Format("2006-01-02 15:04:05"), entry.Rating.StringFixed(2)); err != nil {
						return err
					}
				}
				return table.Render()
			})
		},
	}
	cmd.Flags().IntVar(&history, "history", usecase.DefaultHistoryLimit, "number of history entries")
	return cmd
}

func (r *runner) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <playerID>",
		Short: "Show summed match statistics of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withServices(cmd, func(ctx context.Context, svc Services) error {
				item, err := svc.Players.GetStatistics(ctx, args[0])
				if err != nil {
					return err
				}

				t := item.Totals
				table := newTable(r.out)
				table.Header("STAT", "VALUE")
				rows := [][2]string{
					{"matches", strconv.Itoa(t.MatchesPlayed)},
					{"minutes", strconv.Itoa(t.MinutesPlayed)},
					{"goals", strconv.Itoa(t.Goals)},
					{"assists", strconv.Itoa(t.Assists)},
					{"shots", strconv.Itoa(t.Shots)},
					{"shots on target", strconv.Itoa(t.ShotsOnTarget)},
					{"key passes", strconv.Itoa(t.KeyPasses)},
					{"saves", strconv.Itoa(t.Saves)},
					{"tackles", strconv.Itoa(t.Tackles)},
					{"interceptions", strconv.Itoa(t.Interceptions)},
					{"yellow cards", strconv.Itoa(t.YellowCards)},
					{"red cards", strconv.Itoa(t.RedCards)},
					{"average rating", t.AverageRating.StringFixed(2)},
					{"overall rating", item.Player.OverallRating.StringFixed(2)},
				}
				for _, row := range rows {
					if err := table.Append(row[0], row[1]); err != nil {
						return err
					}
				}
				return table.Render()
			})
		},
	}
}
