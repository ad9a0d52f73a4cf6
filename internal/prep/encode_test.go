package prep

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
)

func TestOneHotDropsReference(t *testing.T) {
	tb := mustTable(t, dataset.NewColumn("Bolum", dataset.RoleCategorical, strs("A", "B", "A", "C", "B")))
	out, enc := Encode(tb, DefaultOptions(), logging.Discard())

	require.Len(t, enc.Columns, 1)
	assert.Equal(t, StrategyOneHot, enc.Columns[0].Strategy)
	assert.Equal(t, []string{"Bolum", "Bolum_B", "Bolum_C"}, out.Names())
	b := col(t, out, "Bolum_B").Numbers()
	c := col(t, out, "Bolum_C").Numbers()
	assert.Equal(t, []float64{0, 1, 0, 0, 1}, b)
	assert.Equal(t, []float64{0, 0, 0, 1, 0}, c)
	for i := range b {
		assert.LessOrEqual(t, b[i]+c[i], 1.0)
	}
	assert.Equal(t, dataset.RoleIndicator, col(t, out, "Bolum_B").Role)
}

func TestOneHotUsesDeclaredLevelOrder(t *testing.T) {
	c := dataset.NewColumn("Yas_Grubu", dataset.RoleCategorical, strs("Yaşlı", "Çocuk", "Yetişkin"))
	c.Levels = ageBins.labels
	out, _ := Encode(mustTable(t, c), DefaultOptions(), logging.Discard())
	assert.Equal(t, []string{"Yas_Grubu", "Yas_Grubu_Yetişkin", "Yas_Grubu_Yaşlı"}, out.Names())
}

func TestBinaryEncoding(t *testing.T) {
	tb := mustTable(t, dataset.NewColumn("Cinsiyet", dataset.RoleCategorical, strs("Kadın", "Erkek", "Kadın")))
	out, enc := Encode(tb, DefaultOptions(), logging.Discard())
	assert.Equal(t, []float64{1, 0, 1}, col(t, out, "Cinsiyet_encoded").Numbers())

	fresh := mustTable(t, dataset.NewColumn("Cinsiyet", dataset.RoleCategorical, []dataset.Value{
		dataset.Str("Erkek"), dataset.Str("Bilinmiyor"), dataset.Missing(),
	}))
	got := enc.Apply(fresh, logging.Discard())
	assert.Equal(t, []float64{0, -1, -1}, col(t, got, "Cinsiyet_encoded").Numbers())
}

func TestBinaryEncodingIsBijective(t *testing.T) {
	tb := mustTable(t, dataset.NewColumn("x", dataset.RoleCategorical, strs("q", "p", "q", "p")))
	out, _ := Encode(tb, DefaultOptions(), logging.Discard())
	codes := map[string]float64{}
	src := col(t, out, "x").Strings()
	for i, f := range col(t, out, "x_encoded").Numbers() {
		if prev, ok := codes[src[i]]; ok {
			assert.Equal(t, prev, f)
		}
		codes[src[i]] = f
	}
	assert.Len(t, codes, 2)
	assert.NotEqual(t, codes["p"], codes["q"])
}

func TestFrequencyTopEncoding(t *testing.T) {
	var vals []string
	// v00 occurs 12 times, v01 11 times, ... v11 once
	for i := 0; i < 12; i++ {
		for j := 0; j < 12-i; j++ {
			vals = append(vals, fmt.Sprintf("v%02d", i))
		}
	}
	tb := mustTable(t, dataset.NewColumn("TedaviAdi", dataset.RoleCategorical, strs(vals...)))
	out, enc := Encode(tb, DefaultOptions(), logging.Discard())

	e := enc.Columns[0]
	assert.Equal(t, StrategyFrequencyTop, e.Strategy)
	assert.Len(t, e.Top, 10)
	assert.Equal(t, "v00", e.Top[0])

	freq := col(t, out, "TedaviAdi_frequency").Numbers()
	assert.Equal(t, 12.0, freq[0])
	last := len(vals) - 1
	assert.Equal(t, 1.0, freq[last])
	assert.Equal(t, 0.0, col(t, out, "TedaviAdi_is_top").Numbers()[last])
	assert.Equal(t, OtherCategory, col(t, out, "TedaviAdi_top_category").Strings()[last])

	// 11 reduced levels (10 top plus Other), first dropped
	assert.Len(t, e.TopLevels, 11)
	assert.Equal(t, OtherCategory, e.TopLevels[0])
	for _, l := range e.TopLevels[1:] {
		assert.True(t, out.Has("TedaviAdi_top_"+l), l)
	}
	assert.False(t, out.Has("TedaviAdi_top_Other"))
}

func TestEncodeTextListsToggle(t *testing.T) {
	tb := mustTable(t, dataset.NewColumn("Alerji", dataset.RoleTextList, strs("Polen", "Yok")))
	opt := DefaultOptions()
	opt.EncodeTextLists = false
	_, enc := Encode(tb, opt, logging.Discard())
	assert.Empty(t, enc.Columns)

	opt.EncodeTextLists = true
	out, _ := Encode(tb, opt, logging.Discard())
	assert.True(t, out.Has("Alerji_encoded"))
}

func TestOneHotKeepsEngineeredColumn(t *testing.T) {
	tb := mustTable(t, dataset.NewColumn("Alerji", dataset.RoleTextList, strs("Polen", "Var", "Toz", "Yok", "Polen")))
	opt := DefaultOptions()
	opt.HealthColumns = []string{"Alerji"}
	opt.EncodeTextLists = true

	feat, _ := EngineerFeatures(tb, opt, logging.Discard())
	require.Equal(t, []float64{1, 1, 1, 0, 1}, col(t, feat, "Alerji_Var").Numbers())

	out, enc := Encode(feat, opt, logging.Discard())
	require.Len(t, enc.Columns, 1)
	assert.Equal(t, StrategyOneHot, enc.Columns[0].Strategy)
	assert.Equal(t, []string{"Alerji_Toz", "Alerji_Var_dummy", "Alerji_Yok"}, enc.Columns[0].OutputColumns())

	kept := col(t, out, "Alerji_Var")
	assert.Equal(t, []float64{1, 1, 1, 0, 1}, kept.Numbers())
	assert.Equal(t, dataset.RoleNumeric, kept.Role)

	dummy := col(t, out, "Alerji_Var_dummy")
	assert.Equal(t, []float64{0, 1, 0, 0, 0}, dummy.Numbers())
	assert.Equal(t, dataset.RoleIndicator, dummy.Role)

	// reapplying the fitted encoder writes the same names
	again := enc.Apply(feat, logging.Discard())
	assert.Equal(t, out.Names(), again.Names())
}
