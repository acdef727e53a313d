package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
	"github.com/riskibarqy/player-rating/internal/usecase"
)

func (r *runner) squadsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "squads",
		Short: "Inspect and refresh cached team squads",
	}
	cmd.AddCommand(r.squadsListCommand(), r.squadsGetCommand(), r.squadsSyncCommand())
	return cmd
}

func (r *runner) squadsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withServices(cmd, func(_ context.Context, svc Services) error {
				table := newTable(r.out)
				table.Header("TEAM", "API TEAM ID")
				for _, team := range svc.Squads.ListTeams() {
					if err := table.Append(team.Name, strconv.FormatInt(team.ExternalTeamID, 10)); err != nil {
						return err
					}
				}
				return table.Render()
			})
		},
	}
}

func (r *runner) squadsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <team>",
		Short: "Show a team's squad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withServices(cmd, func(ctx context.Context, svc Services) error {
				result := svc.Squads.Get(ctx, args[0])
				if err := printSquadHeader(r.out, result); err != nil {
					return err
				}

				table := newTable(r.out)
				table.Header("#", "NAME", "POSITION", "AGE")
				for _, p := range result.Roster {
					if err := table.Append(optionalInt(p.Number), p.Name, p.Position, optionalInt(p.Age)); err != nil {
						return err
					}
				}
				return table.Render()
			})
		},
	}
}

func (r *runner) squadsSyncCommand() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Drop and refetch every team's squad",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withServices(cmd, func(ctx context.Context, svc Services) error {
				result := svc.Squads.SyncAll(ctx, usecase.SyncAllInput{MaxWorkers: workers})

				table := newTable(r.out)
				table.Header("TEAM", "PLAYERS", "SOURCE", "ERROR")
				for _, item := range result.Items {
					if err := table.Append(item.TeamName, strconv.Itoa(item.Players), string(item.Provenance), item.Error); err != nil {
						return err
					}
				}
				if err := table.Render(); err != nil {
					return err
				}
				_, err := fmt.Fprintf(r.out, "\nSynced %d teams, %d players (%s)\n", result.Teams, result.Players, provenanceSummary(result.ByProvenance))
				return err
			})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel fetches (0 uses the configured default)")
	return cmd
}

func printSquadHeader(w io.Writer, result usecase.SquadResult) error {
	fetched := "never"
	if result.FetchedAt != nil {
		fetched = result.FetchedAt.UTC().Format("2006-01-02 15:04:05")
	}
	line := fmt.Sprintf("%s | source: %s | fetched: %s", result.TeamName, result.Provenance, fetched)
	if result.Error != "" {
		line += " | " + result.Error
	}
	_, err := fmt.Fprintln(w, line+"\n")
	return err
}

func provenanceSummary(counts map[squadcache.Provenance]int) string {
	keys := make([]string, 0, len(counts))
	for provenance := range counts {
		keys = append(keys, string(provenance))
	}
	sort.Strings(keys)

	out := ""
	for i, key := range keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%d", key, counts[squadcache.Provenance(key)])
	}
	return out
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
	}))
}
