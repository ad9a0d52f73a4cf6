package prep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
)

func TestAgeFeatures(t *testing.T) {
	tb := mustTable(t, dataset.NewColumn("Yas", dataset.RoleNumeric, num(10, 70, 40)))
	out, added := EngineerFeatures(tb, DefaultOptions(), logging.Discard())

	assert.Equal(t, []string{"Çocuk", "Yaşlı", "Yetişkin"}, col(t, out, ColAgeGroup).Strings())
	assert.Equal(t, []float64{0, 1, 0}, col(t, out, ColIsElderly).Numbers())
	assert.Equal(t, []float64{1, 0, 0}, col(t, out, ColIsChild).Numbers())
	assert.Equal(t, []float64{0, 1, 0}, col(t, out, ColHighRisk).Numbers())
	assert.Equal(t, []string{ColAgeGroup, ColIsElderly, ColIsChild, ColHighRisk}, added)
	assert.Equal(t, dataset.RoleCategorical, col(t, out, ColAgeGroup).Role)
	assert.Equal(t, ageBins.labels, col(t, out, ColAgeGroup).Levels)
}

func TestAgeBinEdges(t *testing.T) {
	ages := []dataset.Value{dataset.Num(0), dataset.Num(18), dataset.Num(100), dataset.Num(101), dataset.Num(-1), dataset.Missing()}
	tb := mustTable(t, dataset.NewColumn("Yas", dataset.RoleNumeric, ages))
	out, _ := EngineerFeatures(tb, DefaultOptions(), logging.Discard())

	g := col(t, out, ColAgeGroup).Values
	assert.Equal(t, "Çocuk", g[0].Text())
	assert.Equal(t, "Genç_Yetişkin", g[1].Text())
	assert.Equal(t, "İleri_Yaş", g[2].Text())
	assert.True(t, g[3].IsMissing())
	assert.True(t, g[4].IsMissing())
	assert.True(t, g[5].IsMissing())
	assert.Equal(t, []float64{0, 0, 1, 1, 0, 0}, col(t, out, ColIsElderly).Numbers(), "missing age is not elderly")
}

func TestTreatmentFeatures(t *testing.T) {
	tb := mustTable(t, dataset.NewColumn("TedaviSuresi", dataset.RoleTarget, num(1, 3, 10, 15, 45)))
	out, _ := EngineerFeatures(tb, DefaultOptions(), logging.Discard())

	assert.Equal(t, []string{"Çok_Kısa", "Kısa", "Orta", "Uzun", "Çok_Uzun"}, col(t, out, ColTreatmentBand).Strings())
	assert.Equal(t, []float64{0, 0, 0, 1, 1}, col(t, out, ColLongTreatment).Numbers())
}

func TestHealthFeatures(t *testing.T) {
	tb := mustTable(t,
		dataset.NewColumn("KronikHastalik", dataset.RoleTextList, []dataset.Value{
			dataset.Str("Diyabet, Astım"), dataset.Str("Yok"), dataset.Missing(), dataset.Str(" NONE "),
		}),
		dataset.NewColumn("Alerji", dataset.RoleTextList, strs("Polen", "Toz,,Polen", "yok", "")),
	)
	out, _ := EngineerFeatures(tb, DefaultOptions(), logging.Discard())

	assert.Equal(t, []float64{1, 0, 0, 0}, col(t, out, "KronikHastalik_Var").Numbers())
	assert.Equal(t, []float64{2, 0, 0, 0}, col(t, out, "KronikHastalik_Sayisi").Numbers())
	assert.Equal(t, []float64{14, 3, 0, 6}, col(t, out, "KronikHastalik_Uzunluk").Numbers())
	assert.Equal(t, []float64{1, 1, 0, 0}, col(t, out, "Alerji_Var").Numbers())
	assert.Equal(t, []float64{1, 2, 0, 0}, col(t, out, "Alerji_Sayisi").Numbers())
	assert.Equal(t, []float64{3, 2, 0, 0}, col(t, out, ColHealthTotal).Numbers())
	assert.Equal(t, []float64{1, 0, 0, 0}, col(t, out, ColHighRisk).Numbers())
	assert.False(t, out.Has("Tanilar_Var"))
}
