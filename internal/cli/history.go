package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adibhanna/pomodoro/internal/models"
	"github.com/adibhanna/pomodoro/internal/storage"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and export completed sessions",
	}
	cmd.AddCommand(
		newHistoryListCmd(a),
		newHistoryStatsCmd(a),
		newHistoryExportCmd(a),
	)
	return cmd
}

func newHistoryListCmd(a *app) *cobra.Command {
	var (
		date string
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List completed countdowns (today by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, _, closeStorage, err := a.openStorage()
			if err != nil {
				return err
			}
			defer closeStorage()

			var sessions []models.SessionRecord
			switch {
			case all:
				sessions, err = history.GetAllSessions()
			case date != "":
				if _, perr := time.Parse("2006-01-02", date); perr != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
				}
				sessions, err = history.GetSessionsByDate(date)
			default:
				sessions, err = history.GetTodaySessions()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "no sessions")
				return nil
			}
			for _, s := range sessions {
				fmt.Fprintf(out, "%s  %-12s %s - %s  %3d min\n",
					s.Date,
					s.Mode,
					s.StartTime.Local().Format("15:04"),
					s.EndTime.Local().Format("15:04"),
					s.Minutes(),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "list a specific day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&all, "all", false, "list the whole history")
	return cmd
}

func newHistoryStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print today's, this week's and this year's focus totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, _, closeStorage, err := a.openStorage()
			if err != nil {
				return err
			}
			defer closeStorage()

			now := time.Now()
			day, err := history.GetDayStats(now.Format("2006-01-02"))
			if err != nil {
				return err
			}
			year, week := now.ISOWeek()
			ws, err := history.GetWeekStats(year, week)
			if err != nil {
				return err
			}
			ys, err := history.GetYearStats(now.Year())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "today:     %d sessions, %s focus, %s break\n",
				day.SessionsCount, storage.FormatMinutes(day.TotalMinutes), storage.FormatMinutes(day.BreakMinutes))
			fmt.Fprintf(out, "week %-2d:   %d sessions, %s focus\n",
				ws.Week, ws.SessionsCount, storage.FormatMinutes(ws.TotalMinutes))
			fmt.Fprintf(out, "%d:      %d sessions, %s focus\n",
				ys.Year, ys.SessionsCount, storage.FormatMinutes(ys.TotalMinutes))
			return nil
		},
	}
}

func newHistoryExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a statistics report as text or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != storage.FormatText && format != storage.FormatPDF {
				return fmt.Errorf("unknown format %q (want txt or pdf)", format)
			}

			history, _, closeStorage, err := a.openStorage()
			if err != nil {
				return err
			}
			defer closeStorage()

			now := time.Now()
			report, err := history.BuildReport(now)
			if err != nil {
				return err
			}

			if output == "" {
				if format == storage.FormatText {
					_, err = fmt.Fprint(cmd.OutOrStdout(), report.Text())
					return err
				}
				output = fmt.Sprintf("pomodoro-stats-%s.pdf", now.Format("2006-01-02-150405"))
			}

			if err := report.WriteFile(output, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "txt", "report format: txt or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (txt defaults to stdout)")
	return cmd
}
