package prep

import (
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
)

// Engineered column names.
const (
	ColAgeGroup      = "Yas_Grubu"
	ColIsElderly     = "Yasli_Mi"
	ColIsChild       = "Cocuk_Mu"
	ColTreatmentBand = "Tedavi_Kategori"
	ColLongTreatment = "Uzun_Tedavi"
	ColHealthTotal   = "Toplam_Saglik_Sorunu"
	ColHighRisk      = "Yuksek_Riskli"

	SuffixPresent = "_Var"
	SuffixCount   = "_Sayisi"
	SuffixLength  = "_Uzunluk"
)

// bins is a set of half-open intervals [edges[i], edges[i+1]). When
// closeLast is set the final interval also contains its upper edge.
type bins struct {
	edges     []float64
	labels    []string
	closeLast bool
}

var (
	ageBins = bins{
		edges:     []float64{0, 18, 30, 45, 60, 75, 100},
		labels:    []string{"Çocuk", "Genç_Yetişkin", "Yetişkin", "Orta_Yaş", "Yaşlı", "İleri_Yaş"},
		closeLast: true,
	}
	treatmentBins = bins{
		edges:  []float64{0, 3, 7, 15, 30, math.Inf(1)},
		labels: []string{"Çok_Kısa", "Kısa", "Orta", "Uzun", "Çok_Uzun"},
	}
)

func (b bins) label(v dataset.Value) dataset.Value {
	f, ok := v.Float()
	if !ok {
		return dataset.Missing()
	}
	last := len(b.edges) - 1
	for i := 0; i < last; i++ {
		if f >= b.edges[i] && (f < b.edges[i+1] || (b.closeLast && i == last-1 && f == b.edges[i+1])) {
			return dataset.Str(b.labels[i])
		}
	}
	return dataset.Missing()
}

func (b bins) column(name string, src *dataset.Column) *dataset.Column {
	vals := make([]dataset.Value, len(src.Values))
	for i, v := range src.Values {
		vals[i] = b.label(v)
	}
	c := dataset.NewColumn(name, dataset.RoleCategorical, vals)
	c.Levels = append([]string(nil), b.labels...)
	return c
}

func flagColumn(name string, src *dataset.Column, pred func(float64) bool) *dataset.Column {
	vals := make([]dataset.Value, len(src.Values))
	for i, v := range src.Values {
		f, ok := v.Float()
		vals[i] = dataset.Bool(ok && pred(f))
	}
	return dataset.NewColumn(name, dataset.RoleNumeric, vals)
}

var negativeSentinels = map[string]struct{}{"none": {}, "yok": {}, "nan": {}}

// isNegative reports whether a health cell says "nothing": missing, blank,
// or one of none/yok/nan in any case.
func isNegative(v dataset.Value) bool {
	if v.IsMissing() {
		return true
	}
	s := strings.ToLower(strings.TrimSpace(v.Text()))
	if s == "" {
		return true
	}
	_, ok := negativeSentinels[s]
	return ok
}

func healthFeatures(c *dataset.Column) (present, count, length *dataset.Column) {
	n := len(c.Values)
	pv := make([]dataset.Value, n)
	cv := make([]dataset.Value, n)
	lv := make([]dataset.Value, n)
	for i, v := range c.Values {
		neg := isNegative(v)
		pv[i] = dataset.Bool(!neg && v.IsString())
		items := 0
		if !neg {
			for _, part := range strings.Split(v.Text(), ",") {
				if strings.TrimSpace(part) != "" {
					items++
				}
			}
		}
		cv[i] = dataset.Num(float64(items))
		lv[i] = dataset.Num(float64(utf8.RuneCountInString(v.Text())))
	}
	return dataset.NewColumn(c.Name+SuffixPresent, dataset.RoleNumeric, pv),
		dataset.NewColumn(c.Name+SuffixCount, dataset.RoleNumeric, cv),
		dataset.NewColumn(c.Name+SuffixLength, dataset.RoleNumeric, lv)
}

// EngineerFeatures derives the age, treatment-length, health and risk
// features. Every feature depends only on its own row. Missing source
// columns are logged and skipped. It returns the new table and the names of
// the columns it added.
func EngineerFeatures(t *dataset.Table, opt Options, log *slog.Logger) (*dataset.Table, []string) {
	log = logging.OrDefault(log)
	out := t.Clone()
	var added []string
	add := func(c *dataset.Column) {
		out.MustSet(c)
		added = append(added, c.Name)
	}

	if age, ok := out.Column(opt.AgeColumn); ok {
		add(ageBins.column(ColAgeGroup, age))
		add(flagColumn(ColIsElderly, age, func(f float64) bool { return f >= 65 }))
		add(flagColumn(ColIsChild, age, func(f float64) bool { return f < 18 }))
	} else {
		log.Warn("age features skipped", "error", &MissingColumnError{Column: opt.AgeColumn})
	}

	if target, ok := out.Column(opt.Target); ok {
		add(treatmentBins.column(ColTreatmentBand, target))
		add(flagColumn(ColLongTreatment, target, func(f float64) bool { return f >= 15 }))
	} else {
		log.Warn("treatment features skipped", "error", &MissingColumnError{Column: opt.Target})
	}

	for _, name := range opt.HealthColumns {
		c, ok := out.Column(name)
		if !ok {
			log.Warn("health features skipped", "error", &MissingColumnError{Column: name})
			continue
		}
		p, n, l := healthFeatures(c)
		add(p)
		add(n)
		add(l)
	}

	var counts []*dataset.Column
	for _, c := range out.Columns() {
		if strings.HasSuffix(c.Name, SuffixCount) {
			counts = append(counts, c)
		}
	}
	if len(counts) > 0 {
		vals := make([]dataset.Value, out.Rows())
		for i := range vals {
			var sum float64
			for _, c := range counts {
				if f, ok := c.Values[i].Float(); ok {
					sum += f
				}
			}
			vals[i] = dataset.Num(sum)
		}
		add(dataset.NewColumn(ColHealthTotal, dataset.RoleNumeric, vals))
	}

	var risk []*dataset.Column
	for _, name := range []string{ColIsElderly, "KronikHastalik" + SuffixPresent} {
		if c, ok := out.Column(name); ok {
			risk = append(risk, c)
		}
	}
	if len(risk) > 0 {
		vals := make([]dataset.Value, out.Rows())
		for i := range vals {
			var sum float64
			for _, c := range risk {
				if f, ok := c.Values[i].Float(); ok {
					sum += f
				}
			}
			vals[i] = dataset.Bool(sum >= 1)
		}
		add(dataset.NewColumn(ColHighRisk, dataset.RoleNumeric, vals))
	}

	log.Info("features engineered", "added", len(added))
	return out, added
}
