package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	perr "impactlog/internal/platform/errors"
	"impactlog/internal/services/impact/domain"
)

type metricsFlags struct {
	start, end               string
	compareStart, compareEnd string
	bucket                   string
	rate                     float64
	toolCosts                map[string]string
}

func (a *app) metricsCmd() *cobra.Command {
	var f metricsFlags

	cmd := &cobra.Command{
		Use:   "metrics <project>",
		Short: "Compute the automation impact of one project",
		Long: `Compute coverage, time saved, returns and the growth trend of one project.

Dates are calendar days (2006-01-02) and the end day is excluded.
Without --start/--end the range is every bucket holding an event.`,
		Example: `  impact-report metrics acme --start 2025-01-06 --end 2025-02-03 --bucket week
  impact-report metrics acme --compare-start 2024-12-09 --compare-end 2025-01-06 -f json
  impact-report metrics acme --rate 72.5 --tool-cost Zapier=20 --tool-cost Jira=7.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input(args[0])
			if err != nil {
				return err
			}

			svc, done, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			res, err := svc.Metrics(cmd.Context(), in)
			if err != nil {
				return err
			}
			if a.format == "json" {
				return writeJSON(a.out, res)
			}
			return renderMetrics(a.out, res)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.start, "start", "", "first day of the range")
	fl.StringVar(&f.end, "end", "", "day after the range")
	fl.StringVar(&f.compareStart, "compare-start", "", "first day of the comparison range")
	fl.StringVar(&f.compareEnd, "compare-end", "", "day after the comparison range")
	fl.StringVar(&f.bucket, "bucket", "", "trend bucket (day, week), overrides CORE_IMPACT_BUCKET")
	fl.Float64Var(&f.rate, "rate", 0, "hourly rate in USD, overrides CORE_IMPACT_HOURLY_RATE")
	fl.StringToStringVar(&f.toolCosts, "tool-cost", nil, "monthly tool cost as app=usd, repeatable")
	cmd.MarkFlagsRequiredTogether("start", "end")
	cmd.MarkFlagsRequiredTogether("compare-start", "compare-end")
	return cmd
}

// input maps the flags onto the request the API accepts
func (f metricsFlags) input(project string) (domain.MetricsInput, error) {
	in := domain.MetricsInput{
		Project:    project,
		Bucket:     f.bucket,
		HourlyRate: f.rate,
	}
	if f.start != "" {
		in.Range = &domain.DateRange{Start: f.start, End: f.end}
	}
	if f.compareStart != "" {
		in.Compare = &domain.DateRange{Start: f.compareStart, End: f.compareEnd}
	}
	if len(f.toolCosts) > 0 {
		in.ToolCosts = make(map[string]float64, len(f.toolCosts))
	}
	for name, raw := range f.toolCosts {
		usd, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return in, perr.WithField(perr.InvalidArgf("tool cost for %s is not a number: %q", name, raw), "tool-cost")
		}
		in.ToolCosts[name] = usd
	}
	return in, nil
}
