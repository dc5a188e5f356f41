// Command loadreport prints load analytics from an offline snapshot of exported sessions.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/loadtrack/internal/chartsync"
	"github.com/2beens/loadtrack/internal/loadstats"
	"github.com/2beens/loadtrack/internal/logging"
	"github.com/2beens/loadtrack/internal/sessions"
	"github.com/2beens/loadtrack/internal/snapshot"
)

const defaultDBPath = "./loadtrack-snapshot.db"

type rootOptions struct {
	dbPath   string
	timezone string
	logLevel string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "loadreport",
		Short:         "Load analytics from an offline session snapshot",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log.SetLevel(logging.GetLevel(opts.logLevel))
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", defaultDBPath, "path of the SQLite snapshot")
	rootCmd.PersistentFlags().StringVar(&opts.timezone, "tz", "UTC", "timezone sessions are read in")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newAcwrCmd(opts))
	rootCmd.AddCommand(newWeeklyCmd(opts))
	rootCmd.AddCommand(newDashboardCmd(opts))
	rootCmd.AddCommand(newOverviewCmd(opts))
	rootCmd.AddCommand(newSessionCmd(opts))

	return rootCmd
}

// reporter loads sessions from the snapshot and renders them.
// The acute:chronic and weekly views read their offsets from the two channels of one mirrored pair.
type reporter struct {
	store   *snapshot.Store
	loc     *time.Location
	offsets *chartsync.Pair
	out     io.Writer
	now     func() time.Time
}

func openReporter(cmd *cobra.Command, opts *rootOptions) (*reporter, func(), error) {
	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone %q: %w", opts.timezone, err)
	}
	store, err := snapshot.Open(opts.dbPath, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot: %w", err)
	}

	offsets := chartsync.NewPair()
	unmirror := offsets.Mirror()

	r := &reporter{
		store:   store,
		loc:     loc,
		offsets: offsets,
		out:     cmd.OutOrStdout(),
		now:     time.Now,
	}
	closeFn := func() {
		unmirror()
		if err := store.Close(); err != nil {
			log.Errorf("close snapshot: %s", err)
		}
	}
	return r, closeFn, nil
}

func (r *reporter) sessions(ctx context.Context) ([]loadstats.Session, error) {
	games, err := r.store.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	return sessions.ToSessions(games, r.loc), nil
}

// scrollTo moves both views the given number of weeks into the past.
func (r *reporter) scrollTo(weeksBack int) {
	if weeksBack < 0 {
		weeksBack = 0
	}
	r.offsets.Set(chartsync.Primary, float64(weeksBack))
}

func (r *reporter) acuteChronic(ctx context.Context, playerID string, trainingOnly bool) error {
	all, err := r.sessions(ctx)
	if err != nil {
		return err
	}
	if trainingOnly {
		all = loadstats.TrainingOnly(all)
	}
	days := loadstats.SessionDays(all)
	if len(days) == 0 {
		fmt.Fprintln(r.out, "no sessions")
		return nil
	}

	weeksBack := int(r.offsets.Value(chartsync.Primary))
	end := loadstats.DayStart(days[len(days)-1].In(r.loc)).AddDate(0, 0, 1-7*weeksBack)
	window := loadstats.Window{Start: end.AddDate(0, 0, -28), End: end}

	visible := make([]time.Time, 0, len(days))
	for _, d := range days {
		if window.Contains(d) {
			visible = append(visible, d)
		}
	}

	fmt.Fprintln(r.out, title(fmt.Sprintf("Acute:chronic %s - %s", loadstats.FormatDay(window.Start), loadstats.FormatDay(end.AddDate(0, 0, -1)))))
	fmt.Fprintln(r.out, renderAcuteChronic(loadstats.AcuteChronic(all, visible, playerID)))
	return nil
}

func (r *reporter) weeklyEffort(ctx context.Context, playerID string) error {
	all, err := r.sessions(ctx)
	if err != nil {
		return err
	}
	weeksBack := int(r.offsets.Value(chartsync.Secondary))
	ref := r.now().In(r.loc).AddDate(0, 0, -7*weeksBack)

	fmt.Fprintln(r.out, title("Weekly effort"))
	fmt.Fprintln(r.out, renderWeeklyEffort(loadstats.WeeklyEffort(all, playerID, ref)))
	return nil
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an exported sessions JSON file into the snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open export: %w", err)
			}
			defer f.Close()

			games, err := snapshot.ReadExport(f)
			if err != nil {
				return err
			}

			r, closeFn, err := openReporter(cmd, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			saved, err := r.store.SaveGames(cmd.Context(), games)
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "imported %d of %d sessions\n", saved, len(games))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "exported sessions JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAcwrCmd(opts *rootOptions) *cobra.Command {
	var (
		player       string
		trainingOnly bool
		offset       int
	)
	cmd := &cobra.Command{
		Use:   "acwr",
		Short: "Acute:chronic workload ratio for the four weeks ending --offset weeks back",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, closeFn, err := openReporter(cmd, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			r.scrollTo(offset)
			return r.acuteChronic(cmd.Context(), player, trainingOnly)
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "player id (empty for team load)")
	cmd.Flags().BoolVar(&trainingOnly, "training-only", false, "only count trainings")
	cmd.Flags().IntVar(&offset, "offset", 0, "weeks back")
	return cmd
}

func newWeeklyCmd(opts *rootOptions) *cobra.Command {
	var (
		player string
		offset int
	)
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Weekly effort for the twelve weeks ending --offset weeks back",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, closeFn, err := openReporter(cmd, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			r.scrollTo(offset)
			return r.weeklyEffort(cmd.Context(), player)
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "player id (empty for team load)")
	cmd.Flags().IntVar(&offset, "offset", 0, "weeks back")
	return cmd
}

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var (
		player string
		offset int
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Acute:chronic and weekly effort side by side, scrolled together",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, closeFn, err := openReporter(cmd, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			r.scrollTo(offset)
			if err := r.acuteChronic(cmd.Context(), player, false); err != nil {
				return err
			}
			return r.weeklyEffort(cmd.Context(), player)
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "player id (empty for team load)")
	cmd.Flags().IntVar(&offset, "offset", 0, "weeks back")
	return cmd
}

func newOverviewCmd(opts *rootOptions) *cobra.Command {
	var (
		player string
		week   string
	)
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Twelve-week overview ending with --week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, closeFn, err := openReporter(cmd, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			ref := r.now().In(r.loc)
			if week != "" {
				ref, err = loadstats.ParseDay(week, r.loc)
				if err != nil {
					return err
				}
			}

			all, err := r.sessions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(r.out, title("Twelve-week overview"))
			fmt.Fprintln(r.out, renderOverview(loadstats.TwelveWeekOverview(all, ref, player)))
			return nil
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "player id (empty for team load)")
	cmd.Flags().StringVar(&week, "week", "", "any day of the last week, YYYY-MM-DD (default this week)")
	return cmd
}

func newSessionCmd(opts *rootOptions) *cobra.Command {
	var (
		id     string
		player string
	)
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Benchmark one session against comparable ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, closeFn, err := openReporter(cmd, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			game, err := r.store.GetGame(cmd.Context(), id)
			if err != nil {
				return err
			}
			ref, err := game.ToSession(r.loc)
			if err != nil {
				return err
			}
			all, err := r.sessions(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(r.out, title(fmt.Sprintf("%s %s", ref.Kind(), loadstats.FormatDay(ref.Base().Start.In(r.loc)))))
			fmt.Fprintln(r.out, renderPlayerStats(loadstats.BuildPlayerStats(all, ref, player)))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "session id")
	cmd.Flags().StringVar(&player, "player", "", "player id (empty for team load)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
