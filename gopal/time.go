package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rackn/gopal/caltime"
	"github.com/rackn/gopal/report"
)

var nowUTC bool

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Work with calendar times",
	Long: `Reads, converts and does arithmetic on calendar times. Times are
accepted as ISO 8601 (2004-12-03T16:20:10+02:30, 20041203T162010Z,
2004-12-03) or CIM DATETIME (20041203162010.000000+150). Durations are
ISO 8601 (P1Y2M3DT4H5M6.5S, -PT30M).`,
}

var timeNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Show the current time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, err := cfg.System()
		if err != nil {
			return err
		}
		var now caltime.CalendarTime
		if nowUTC {
			now, err = caltime.CurrentUTC(sys)
		} else {
			now, err = caltime.CurrentLocal(sys)
		}
		if err != nil {
			return err
		}
		if err := now.SetDecimalCount(cfg.DecimalCount()); err != nil {
			return err
		}
		return report.Encode(cmd.OutOrStdout(), cfg.Output.Format, newTimeView(now))
	},
}

var timeParseCmd = &cobra.Command{
	Use:   "parse TIME",
	Short: "Show a time in every supported notation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseTime(args[0])
		if err != nil {
			return err
		}
		return report.Encode(cmd.OutOrStdout(), cfg.Output.Format, newTimeView(t))
	},
}

var timeAddCmd = &cobra.Command{
	Use:   "add TIME DURATION",
	Short: "Add an ISO 8601 duration to a time",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseTime(args[0])
		if err != nil {
			return err
		}
		d, err := caltime.ParseRelativeTime(args[1])
		if err != nil {
			return errors.Wrapf(err, "duration %q", args[1])
		}
		sum, err := t.Add(d)
		if err != nil {
			return err
		}
		return report.Encode(cmd.OutOrStdout(), cfg.Output.Format, newTimeView(sum))
	},
}

// diffView is the output of time diff.
type diffView struct {
	From       caltime.CalendarTime
	To         caltime.CalendarTime
	Difference caltime.RelativeTime
	Seconds    float64
}

var timeDiffCmd = &cobra.Command{
	Use:   "diff FROM TO",
	Short: "Show the time elapsed from FROM to TO",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseTime(args[0])
		if err != nil {
			return err
		}
		to, err := parseTime(args[1])
		if err != nil {
			return err
		}
		d := to.Sub(from)
		return report.Encode(cmd.OutOrStdout(), cfg.Output.Format, diffView{
			From:       from,
			To:         to,
			Difference: d,
			Seconds:    d.Seconds(),
		})
	},
}

func init() {
	timeNowCmd.Flags().BoolVar(&nowUTC, "utc", false, "show UTC instead of local time")
	timeCmd.AddCommand(timeNowCmd, timeParseCmd, timeAddCmd, timeDiffCmd)
	rootCmd.AddCommand(timeCmd)
}

// timeView is a time in every notation gopal writes.
type timeView struct {
	ISO8601   string
	Basic     string
	CIM       string
	Posix     int64
	Localized string
	Precision string
	Offset    caltime.RelativeTime
}

func newTimeView(t caltime.CalendarTime) timeView {
	return timeView{
		ISO8601:   t.ToExtendedISO8601(),
		Basic:     t.ToBasicISO8601(),
		CIM:       t.ToCIM(),
		Posix:     t.ToPosixTime(),
		Localized: t.ToLocalizedTime(),
		Precision: t.Precision().String(),
		Offset:    t.OffsetFromUTC(),
	}
}

// parseTime accepts CIM DATETIME, an ISO 8601 combined date and time,
// or an ISO 8601 calendar date.
func parseTime(s string) (caltime.CalendarTime, error) {
	s = strings.TrimSpace(s)
	var (
		t   caltime.CalendarTime
		err error
	)
	switch {
	case len(s) == 25 && s[14] == '.':
		t, err = caltime.FromCIM(s)
	case strings.ContainsRune(s, 'T'):
		t, err = caltime.FromISO8601(s)
	default:
		t, err = caltime.DateFromISO8601(s)
	}
	if err != nil {
		return t, errors.Wrapf(err, "time %q", s)
	}
	return t, nil
}
