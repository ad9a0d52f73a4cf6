package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Markdown renders a compact report suitable for a standalone document.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", r.Cols))

	b.WriteString("\n[MISSING DATA]\n")
	if len(r.Missing) == 0 {
		b.WriteString("- none\n")
	}
	for _, m := range r.Missing {
		b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeName(m.Column), m.Count, m.Percent))
	}

	if t := r.Target; t != nil {
		s := t.Summary
		b.WriteString(fmt.Sprintf("\n[TARGET: %s]\n", t.Column))
		b.WriteString(fmt.Sprintf("Count: %d of %d\n", s.Count, t.Total))
		b.WriteString(fmt.Sprintf("Mean %s, std %s, min %s, q1 %s, median %s, q3 %s, max %s\n",
			num(s.Mean), num(s.Std), num(s.Min), num(s.Q1), num(s.Q2), num(s.Q3), num(s.Max)))
		b.WriteString(fmt.Sprintf("Mode %s, skewness %s, kurtosis %s\n", num(t.Mode), num(t.Skew), num(t.Kurtosis)))
		pct := 0.0
		if s.Count > 0 {
			pct = 100 * float64(t.Outliers) / float64(s.Count)
		}
		b.WriteString(fmt.Sprintf("Outliers (IQR): %d (%.2f%%), bounds [%s, %s]\n", t.Outliers, pct, num(t.Lower), num(t.Upper)))
	}

	if len(r.Categorical) > 0 {
		b.WriteString("\n[CATEGORICAL]\n")
		for _, c := range r.Categorical {
			b.WriteString(fmt.Sprintf("- %s: non-null %d, missing %d, unique %d", safeName(c.Column), c.NonNull, c.Missing, c.Unique))
			if c.Mode != "" {
				b.WriteString(fmt.Sprintf("; mode %s (%.1f%%)", safeVal(c.Mode), c.ModeShare))
			}
			if len(c.Top) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.Top {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
			}
			b.WriteString("\n")
		}
	}

	if len(r.Numeric) > 0 {
		b.WriteString("\n[NUMERIC]\n")
		for _, n := range r.Numeric {
			s := n.Summary
			b.WriteString(fmt.Sprintf("- %s: count %d, missing %d; mean %s, std %s, min %s, median %s, max %s\n",
				safeName(n.Column), s.Count, n.Missing, num(s.Mean), num(s.Std), num(s.Min), num(s.Q2), num(s.Max)))
		}
	}

	if r.Corr != nil {
		b.WriteString("\n[CORRELATIONS]\n")
		if len(r.StrongPairs) == 0 {
			b.WriteString("- no pair above threshold\n")
		}
		for _, p := range r.StrongPairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}

	if len(r.TextLists) > 0 {
		b.WriteString("\n[TEXT LISTS]\n")
		for _, tl := range r.TextLists {
			b.WriteString(fmt.Sprintf("- %s: items %d, unique %d, per row %.1f, mean length %.1f",
				safeName(tl.Column), tl.Items, tl.Unique, tl.ItemsPerRow, tl.MeanLength))
			if len(tl.Top) > 0 {
				b.WriteString("; top: ")
				for i, kv := range tl.Top {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
			}
			b.WriteString("\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func num(f float64) string {
	if math.IsNaN(f) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", f)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
