package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/adibhanna/pomodoro/internal/models"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the timer settings",
	}
	cmd.AddCommand(
		newSettingsShowCmd(a),
		newSettingsSetCmd(a),
		newSettingsResetCmd(a),
	)
	return cmd
}

func newSettingsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, closeStorage, err := a.openStorage()
			if err != nil {
				return err
			}
			defer closeStorage()

			printSettings(cmd.OutOrStdout(), store.Load())
			fmt.Fprintf(cmd.OutOrStdout(), "stored in:           %s\n", store.Location())
			return nil
		},
	}
}

func newSettingsSetCmd(a *app) *cobra.Command {
	var s models.UserSettings

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		Long: `Change one or more settings. Durations are in minutes.

Values below 1 take their default and values above a field's maximum are
clamped to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, closeStorage, err := a.openStorage()
			if err != nil {
				return err
			}
			defer closeStorage()

			current := store.Load()
			flags := cmd.Flags()
			if flags.Changed("focus") {
				current.FocusMinutes = s.FocusMinutes
			}
			if flags.Changed("short-break") {
				current.ShortBreakMinutes = s.ShortBreakMinutes
			}
			if flags.Changed("long-break") {
				current.LongBreakMinutes = s.LongBreakMinutes
			}
			if flags.Changed("interval") {
				current.LongBreakInterval = s.LongBreakInterval
			}
			if flags.Changed("auto-breaks") {
				current.AutoStartBreaks = s.AutoStartBreaks
			}
			if flags.Changed("auto-focus") {
				current.AutoStartFocus = s.AutoStartFocus
			}

			current = current.Clamp()
			if err := store.Save(current); err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), current)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&s.FocusMinutes, "focus", models.DefaultFocusMinutes, fmt.Sprintf("focus duration, 1-%d", models.MaxFocusMinutes))
	flags.IntVar(&s.ShortBreakMinutes, "short-break", models.DefaultShortBreakMinutes, fmt.Sprintf("short break duration, 1-%d", models.MaxShortBreakMinutes))
	flags.IntVar(&s.LongBreakMinutes, "long-break", models.DefaultLongBreakMinutes, fmt.Sprintf("long break duration, 1-%d", models.MaxLongBreakMinutes))
	flags.IntVar(&s.LongBreakInterval, "interval", models.DefaultLongBreakInterval, fmt.Sprintf("focus sessions per long break, 1-%d", models.MaxLongBreakInterval))
	flags.BoolVar(&s.AutoStartBreaks, "auto-breaks", false, "start breaks automatically")
	flags.BoolVar(&s.AutoStartFocus, "auto-focus", false, "start focus sessions automatically")
	return cmd
}

func newSettingsResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, closeStorage, err := a.openStorage()
			if err != nil {
				return err
			}
			defer closeStorage()

			defaults := models.DefaultSettings()
			if err := store.Save(defaults); err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), defaults)
			return nil
		},
	}
}

func printSettings(w io.Writer, s models.UserSettings) {
	fmt.Fprintf(w, "focus:               %d min\n", s.FocusMinutes)
	fmt.Fprintf(w, "short break:         %d min\n", s.ShortBreakMinutes)
	fmt.Fprintf(w, "long break:          %d min\n", s.LongBreakMinutes)
	fmt.Fprintf(w, "long break interval: %d\n", s.LongBreakInterval)
	fmt.Fprintf(w, "auto-start breaks:   %t\n", s.AutoStartBreaks)
	fmt.Fprintf(w, "auto-start focus:    %t\n", s.AutoStartFocus)
}
