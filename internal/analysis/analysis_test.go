package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
)

func fixture(t *testing.T) *dataset.Table {
	t.Helper()
	nums := func(fs ...float64) []dataset.Value {
		out := make([]dataset.Value, len(fs))
		for i, f := range fs {
			out[i] = dataset.Num(f)
		}
		return out
	}
	tb, err := dataset.FromColumns(
		dataset.NewColumn("HastaNo", dataset.RoleIdentifier, nums(1, 2, 3, 4, 5, 6)),
		dataset.NewColumn("Yas", dataset.RoleNumeric, nums(20, 30, 40, 50, 60, 70)),
		dataset.NewColumn("Doz", dataset.RoleNumeric, nums(2, 4, 6, 8, 10, 12)),
		dataset.NewColumn("TedaviSuresi", dataset.RoleTarget, nums(5, 5, 10, 15, 15, 100)),
		dataset.NewColumn("Cinsiyet", dataset.RoleCategorical, []dataset.Value{
			dataset.Str("Kadın"), dataset.Str("Erkek"), dataset.Str("Kadın"),
			dataset.Missing(), dataset.Str("Kadın"), dataset.Str("Erkek"),
		}),
		dataset.NewColumn("Alerji", dataset.RoleTextList, []dataset.Value{
			dataset.Str("Polen, Toz"), dataset.Str("Polen"), dataset.Missing(),
			dataset.Str("Toz,Polen"), dataset.Str("Yok"), dataset.Missing(),
		}),
	)
	require.NoError(t, err)
	return tb
}

func TestAnalyze(t *testing.T) {
	r := Analyze("hastalar.csv", fixture(t), DefaultOptions())

	assert.Equal(t, 6, r.Rows)
	assert.Equal(t, 6, r.Cols)

	require.Len(t, r.Missing, 2)
	assert.Equal(t, "Alerji", r.Missing[0].Column)
	assert.Equal(t, 2, r.Missing[0].Count)
	assert.Equal(t, "Cinsiyet", r.Missing[1].Column)

	require.NotNil(t, r.Target)
	assert.Equal(t, 6, r.Target.Summary.Count)
	assert.Equal(t, 5.0, r.Target.Mode)
	assert.Equal(t, 1, r.Target.Outliers)
	assert.Greater(t, r.Target.Skew, 0.0)

	require.Len(t, r.Categorical, 1)
	c := r.Categorical[0]
	assert.Equal(t, 5, c.NonNull)
	assert.Equal(t, 1, c.Missing)
	assert.Equal(t, 2, c.Unique)
	assert.Equal(t, "Kadın", c.Mode)
	assert.InDelta(t, 60.0, c.ModeShare, 1e-9)

	var names []string
	for _, n := range r.Numeric {
		names = append(names, n.Column)
	}
	assert.Equal(t, []string{"Yas", "Doz", "TedaviSuresi"}, names)

	require.NotNil(t, r.Corr)
	require.NotEmpty(t, r.StrongPairs)
	assert.Equal(t, "Yas", r.StrongPairs[0].A)
	assert.Equal(t, "Doz", r.StrongPairs[0].B)
	assert.InDelta(t, 1.0, r.StrongPairs[0].R, 1e-9)

	require.Len(t, r.TextLists, 1)
	tl := r.TextLists[0]
	assert.Equal(t, 6, tl.Items)
	assert.Equal(t, 3, tl.Unique)
	assert.InDelta(t, 1.5, tl.ItemsPerRow, 1e-9)
	assert.Equal(t, "Polen", tl.Top[0].Value)
	assert.Equal(t, 3, tl.Top[0].Count)
	assert.Empty(t, r.Warnings)
}

func TestAnalyzeMissingTarget(t *testing.T) {
	full := fixture(t)
	var keep []string
	for _, n := range full.Names() {
		if n != "TedaviSuresi" {
			keep = append(keep, n)
		}
	}
	tb, err := full.Select(keep...)
	require.NoError(t, err)
	r := Analyze("x", tb, DefaultOptions())
	assert.Nil(t, r.Target)
	require.NotEmpty(t, r.Warnings)
	assert.Contains(t, r.Warnings[0], "TedaviSuresi")
}

func TestMarkdownSections(t *testing.T) {
	md := Analyze("hastalar.csv", fixture(t), DefaultOptions()).Markdown()
	for _, h := range []string{"[DATASET SUMMARY]", "[MISSING DATA]", "[TARGET: TedaviSuresi]", "[CATEGORICAL]", "[NUMERIC]", "[CORRELATIONS]", "[TEXT LISTS]"} {
		assert.Contains(t, md, h)
	}
	assert.Contains(t, md, "- Yas ~ Doz: r=1.000")
	assert.Contains(t, md, "Polen(3)")
	assert.NotContains(t, md, "[NOTES]")
}

func TestTablesRender(t *testing.T) {
	out := Analyze("hastalar.csv", fixture(t), DefaultOptions()).Tables()
	assert.True(t, strings.Contains(out, "TedaviSuresi"))
	assert.Contains(t, out, "Cinsiyet")
}

func TestNumericModeTies(t *testing.T) {
	assert.Equal(t, 2.0, numericMode([]float64{3, 3, 2, 2, 9}))
}
