package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
)

func TestExtractNumber(t *testing.T) {
	cases := []struct {
		in   dataset.Value
		want dataset.Value
	}{
		{dataset.Num(4), dataset.Num(4)},
		{dataset.Missing(), dataset.Missing()},
		{dataset.Str("15 Seans"), dataset.Num(15)},
		{dataset.Str("seans 2.5 dk"), dataset.Num(2.5)},
		{dataset.Str("3-5 gün"), dataset.Num(3)},
		{dataset.Str("12."), dataset.Num(12)},
		{dataset.Str("belirsiz"), dataset.Missing()},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExtractNumber(c.in), "ExtractNumber(%v)", c.in.Text())
	}
}

func TestExtractColumnMedianFill(t *testing.T) {
	c := dataset.NewColumn("TedaviSuresi", dataset.RoleTarget, []dataset.Value{
		dataset.Str("5 seans"), dataset.Num(10), dataset.Missing(), dataset.Str("seans 7"),
	})
	out, res := ExtractColumn(c)
	assert.Equal(t, []float64{5, 10, 7, 7}, out.Numbers())
	assert.Equal(t, dataset.RoleTarget, out.Role)
	assert.Equal(t, 1, res.Unparsed)
	assert.True(t, res.UsedMedian)
	assert.True(t, c.Values[0].IsString(), "input column untouched")
}

func TestExtractColumnZeroFill(t *testing.T) {
	c := dataset.NewColumn("UygulamaSuresi", dataset.RoleNumeric, []dataset.Value{
		dataset.Str("yok"), dataset.Missing(),
	})
	out, res := ExtractColumn(c)
	assert.Equal(t, []float64{0, 0}, out.Numbers())
	assert.False(t, res.UsedMedian)
}

func TestRun(t *testing.T) {
	tb, err := dataset.FromColumns(
		dataset.NewColumn("TedaviSuresi", dataset.RoleTarget, []dataset.Value{dataset.Str("5 Seans"), dataset.Missing(), dataset.Num(15)}),
		dataset.NewColumn("Cinsiyet", dataset.RoleCategorical, []dataset.Value{dataset.Str("Kadın"), dataset.Missing(), dataset.Str("Erkek")}),
		dataset.NewColumn("KanGrubu", dataset.RoleCategorical, []dataset.Value{dataset.Num(0), dataset.Str("A Rh+"), dataset.Missing()}),
		dataset.NewColumn("Alerji", dataset.RoleTextList, []dataset.Value{dataset.Str(" Polen, Toz ,"), dataset.Missing(), dataset.Str("Yok")}),
	)
	require.NoError(t, err)

	out, rep := Run(tb, DefaultOptions(), logging.Discard())

	target, _ := out.Column("TedaviSuresi")
	assert.Equal(t, []float64{5, 10, 15}, target.Numbers())

	cins, _ := out.Column("Cinsiyet")
	assert.Equal(t, []string{"Kadın", UnknownCategory, "Erkek"}, cins.Strings())
	kan, _ := out.Column("KanGrubu")
	assert.True(t, kan.Values[0].IsString(), "categorical cells become text")

	alerji, _ := out.Column("Alerji")
	assert.Equal(t, []string{"Polen, Toz ,", "Yok", "Yok"}, alerji.Strings())
	counts, ok := out.Column("Alerji_Count")
	require.True(t, ok)
	assert.Equal(t, []float64{2, 0, 0}, counts.Numbers())
	assert.Equal(t, dataset.RoleNumeric, counts.Role)

	assert.Contains(t, rep.Skipped, "UygulamaSuresi")
	assert.Len(t, rep.Numeric, 1)
	assert.Len(t, rep.TextList, 1)

	orig, _ := tb.Column("Cinsiyet")
	assert.True(t, orig.Values[1].IsMissing(), "input table untouched")
}

func TestCountItems(t *testing.T) {
	assert.Equal(t, 0, CountItems(" , "))
	assert.Equal(t, 3, CountItems("a,b , c"))
	assert.Equal(t, []string{"a", "b"}, SplitItems(" a,, b "))
}
