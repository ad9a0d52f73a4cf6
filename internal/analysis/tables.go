package analysis

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Tables renders the numeric, categorical and missing-data sections as
// console tables.
func (r *Report) Tables() string {
	var b strings.Builder

	if len(r.Missing) > 0 {
		t := table.NewWriter()
		t.SetTitle("Missing data")
		t.AppendHeader(table.Row{"Column", "Missing", "Percent"})
		for _, m := range r.Missing {
			t.AppendRow(table.Row{m.Column, m.Count, fmt.Sprintf("%.1f%%", m.Percent)})
		}
		t.SetStyle(table.StyleLight)
		b.WriteString(t.Render())
		b.WriteString("\n\n")
	}

	if len(r.Numeric) > 0 {
		t := table.NewWriter()
		t.SetTitle("Numeric columns")
		t.AppendHeader(table.Row{"Column", "Count", "Mean", "Std", "Min", "Q1", "Median", "Q3", "Max"})
		for _, n := range r.Numeric {
			s := n.Summary
			t.AppendRow(table.Row{n.Column, s.Count, num(s.Mean), num(s.Std), num(s.Min), num(s.Q1), num(s.Q2), num(s.Q3), num(s.Max)})
		}
		t.SetStyle(table.StyleLight)
		b.WriteString(t.Render())
		b.WriteString("\n\n")
	}

	if len(r.Categorical) > 0 {
		t := table.NewWriter()
		t.SetTitle("Categorical columns")
		t.AppendHeader(table.Row{"Column", "Non-null", "Missing", "Unique", "Mode", "Mode %"})
		for _, c := range r.Categorical {
			t.AppendRow(table.Row{c.Column, c.NonNull, c.Missing, c.Unique, c.Mode, fmt.Sprintf("%.1f", c.ModeShare)})
		}
		t.SetStyle(table.StyleLight)
		b.WriteString(t.Render())
		b.WriteString("\n\n")
	}

	if len(r.StrongPairs) > 0 {
		t := table.NewWriter()
		t.SetTitle("Strong correlations")
		t.AppendHeader(table.Row{"A", "B", "r"})
		for _, p := range r.StrongPairs {
			t.AppendRow(table.Row{p.A, p.B, fmt.Sprintf("%.3f", p.R)})
		}
		t.SetStyle(table.StyleLight)
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	return b.String()
}
