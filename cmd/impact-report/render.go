package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"impactlog/internal/core/metrics"
	"impactlog/internal/core/source"
	"impactlog/internal/services/impact/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func flush(w io.Writer, t table.Writer) error {
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func usd(v float64) string   { return "$" + humanize.FormatFloat("#,###.##", v) }
func hours(v float64) string { return humanize.FormatFloat("#,###.##", v) + " h" }
func pct(v float64) string   { return humanize.FormatFloat("#.#", v) + "%" }
func count(n int) string     { return humanize.Comma(int64(n)) }

func window(w *metrics.Window) string {
	if w == nil {
		return "all events"
	}
	return w.Start.Format(time.DateOnly) + " .. " + w.End.Format(time.DateOnly)
}

func renderProjects(w io.Writer, res domain.ProjectsResponse) error {
	t := newTable("Projects")
	t.AppendHeader(table.Row{"Project"})
	for _, p := range res.Projects {
		t.AppendRow(table.Row{p})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(res.Projects))})
	return flush(w, t)
}

func renderMetrics(w io.Writer, m domain.MetricsResponse) error {
	right := []table.ColumnConfig{{Number: 2, Align: text.AlignRight}}

	sum := newTable("Impact of " + m.Project)
	sum.SetColumnConfigs(right)
	sum.AppendRows([]table.Row{
		{"Range", window(m.Range)},
		{"Bucket", m.Bucket},
		{"Events", count(m.Events)},
		{"Automation coverage", pct(m.AutomationCoveragePct)},
		{"Automations", count(m.TotalAutomations)},
		{"Automations in range", count(m.AutomationsInRange)},
		{"Time saved", hours(m.TimeSavedHours)},
		{"Cost saved at " + usd(m.HourlyRateUSD) + "/h", usd(m.CostSavedUSD)},
		{"Net returns", usd(m.TotalReturnsUSD)},
	})
	if m.Compare != nil {
		sum.AppendSeparator()
		sum.AppendRow(table.Row{"Compared with", window(m.Compare)})
		if m.PreviousCoveragePct != nil {
			sum.AppendRow(table.Row{"Previous coverage", pct(*m.PreviousCoveragePct)})
		}
		if m.CoverageDeltaPct != nil {
			sum.AppendRow(table.Row{"Coverage delta", pct(*m.CoverageDeltaPct)})
		}
	}
	sum.AppendFooter(table.Row{"Rules", m.RulesOrigin})
	if err := flush(w, sum); err != nil {
		return err
	}

	apps := newTable("By app")
	apps.AppendHeader(table.Row{"App", "Manual", "Automated", "Time saved", "Tool cost", "Net", "Rows", "Dropped", "Status"})
	apps.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})
	for _, a := range source.Apps() {
		split := m.ManualVsAutomated[a]
		ret := m.ReturnsByApp[a]
		ing := m.Ingest[a]

		cost := "-"
		if ret.ToolCostUSD != nil {
			cost = usd(*ret.ToolCostUSD)
		}
		status := "ok"
		if !ing.Available {
			status = ing.UnavailableReason
		}
		apps.AppendRow(table.Row{
			a, count(split.Manual), count(split.Automated), hours(m.TimeSavedHoursByApp[a]),
			cost, usd(ret.NetUSD), count(ing.Rows), count(ing.Dropped), status,
		})
	}
	if err := flush(w, apps); err != nil {
		return err
	}

	if len(m.GrowthTrend) == 0 {
		return nil
	}
	trend := newTable("Automations per " + m.Bucket)
	trend.AppendHeader(table.Row{"From", "Automated"})
	trend.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	for _, p := range m.GrowthTrend {
		trend.AppendRow(table.Row{p.BucketStart.Format(time.DateOnly), count(p.Automated)})
	}
	return flush(w, trend)
}
