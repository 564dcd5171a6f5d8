package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/frogcrew/internal/app"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/snapshot"
)

func snapshotCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import the whole roster as JSON",
	}

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the current roster snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := snapshot.Marshal(a.store.Snapshot())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
				return err
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported roster to %s\n", out)
			return nil
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	var in string
	imp := &cobra.Command{
		Use:   "import",
		Short: "Replace the roster with a snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				raw []byte
				err error
			)
			if in == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(in)
			}
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}

			snap, err := snapshot.Unmarshal(raw)
			if err != nil {
				return err
			}
			if err := a.store.Replace(cmd.Context(), snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d users, %d games, %d schedules\n",
				len(snap.Users), len(snap.Games), len(snap.Schedules))
			return nil
		},
	}
	imp.Flags().StringVarP(&in, "in", "i", "", "snapshot file, or - for stdin")
	_ = imp.MarkFlagRequired("in")

	cmd.AddCommand(export, imp)
	return cmd
}

func seedCmd(a *cliApp) *cobra.Command {
	var (
		file  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo roster or a YAML seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.store.Snapshot().Empty() && !force {
				return fmt.Errorf("roster is not empty; pass --force to overwrite it")
			}
			if err := app.SeedStore(cmd.Context(), a.store, file); err != nil {
				return err
			}
			snap := a.store.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users and %d games\n", len(snap.Users), len(snap.Games))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (default built-in roster)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite a non-empty roster")
	return cmd
}

func gamesCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Inspect games",
	}

	var scheduleID int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List games with their crew fill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			games, err := a.services.Games.List(cmd.Context(), scheduleID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, g := range games {
				fmt.Fprintf(w, "%d\t%s %s\t%s\tvs %s\t%s\tcrew %d/%d\n",
					g.ID, g.GameDate, g.GameStart, g.Venue, g.Opponent, g.Status,
					len(g.CrewedMembers), len(g.RequiredPositions))
			}
			return nil
		},
	}
	list.Flags().Int64Var(&scheduleID, "schedule", 0, "only games of this schedule id")

	cmd.AddCommand(list)
	return cmd
}

func candidatesCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "candidates GAME_ID POSITION",
		Short: "List crew members who can fill a position on a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || gameID <= 0 {
				return fmt.Errorf("invalid game id %q", args[0])
			}

			members, err := a.services.Assignments.EligibleCandidates(cmd.Context(), gameID, args[1])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(members) == 0 {
				fmt.Fprintf(w, "no eligible crew for %s\n", strings.ToUpper(args[1]))
				return nil
			}
			for _, m := range members {
				fmt.Fprintf(w, "%d\t%s\t%s\n", m.UserID, m.FullName(), m.Email)
			}
			return nil
		},
	}
}
