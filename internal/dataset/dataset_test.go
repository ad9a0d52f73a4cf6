package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCell(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
		text string
	}{
		{"", KindMissing, ""},
		{"NaN", KindMissing, ""},
		{" null ", KindMissing, ""},
		{"12", KindNumber, "12"},
		{"3.50", KindNumber, "3.5"},
		{"5 seans", KindString, "5 seans"},
		{"inf", KindString, "inf"},
		{"Yok", KindString, "Yok"},
	}
	for _, c := range cases {
		v := ParseCell(c.in)
		assert.Equal(t, c.kind, v.Kind(), "ParseCell(%q)", c.in)
		assert.Equal(t, c.text, v.Text(), "ParseCell(%q)", c.in)
	}
}

func TestTableSetSelectClone(t *testing.T) {
	tb := New(2)
	require.NoError(t, tb.Set(NewColumn("a", RoleNumeric, []Value{Num(1), Num(2)})))
	require.NoError(t, tb.Set(NewColumn("b", RoleCategorical, []Value{Str("x"), Missing()})))
	require.ErrorIs(t, tb.Set(NewColumn("c", RoleNumeric, []Value{Num(1)})), ErrLengthMismatch)

	cp := tb.Clone()
	col, _ := cp.Column("a")
	col.Values[0] = Num(99)
	orig, _ := tb.Column("a")
	f, _ := orig.Values[0].Float()
	assert.Equal(t, 1.0, f, "clone must not share cells")

	require.NoError(t, tb.Set(NewColumn("a", RoleNumeric, []Value{Num(5), Num(6)})))
	assert.Equal(t, []string{"a", "b"}, tb.Names(), "replace keeps position")

	sel, err := tb.Select("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, sel.Names())
	assert.False(t, sel.Has("a"))
	c, ok := sel.Column("b")
	require.True(t, ok)
	assert.Equal(t, 1, c.MissingCount())
}

func TestTake(t *testing.T) {
	tb, err := FromColumns(NewColumn("n", RoleNumeric, []Value{Num(10), Num(20), Num(30)}))
	require.NoError(t, err)
	sub := tb.Take([]int{2, 0})
	c, _ := sub.Column("n")
	assert.Equal(t, []float64{30, 10}, c.Numbers())
	assert.Equal(t, RoleNumeric, c.Role)
}

func TestTakeCopiesLevels(t *testing.T) {
	src := NewColumn("Yas_Grubu", RoleCategorical, []Value{Str("Genç"), Str("Yaşlı")})
	src.Levels = []string{"Genç", "Yaşlı"}
	tb, err := FromColumns(src)
	require.NoError(t, err)

	sub := tb.Take([]int{1})
	c, _ := sub.Column("Yas_Grubu")
	require.Equal(t, []string{"Genç", "Yaşlı"}, c.Levels)
	c.Levels[0] = "Çocuk"
	assert.Equal(t, []string{"Genç", "Yaşlı"}, src.Levels)
}

func TestSchemaAssign(t *testing.T) {
	tb, err := FromColumns(
		NewColumn("HastaNo", 0, []Value{Num(1), Num(2)}),
		NewColumn("TedaviSuresi", 0, []Value{Str("5 seans"), Num(3)}),
		NewColumn("Yas", 0, []Value{Num(40), Missing()}),
		NewColumn("Cinsiyet", 0, []Value{Str("Kadın"), Missing()}),
		NewColumn("Alerji", 0, []Value{Str("Polen"), Missing()}),
		NewColumn("Not", 0, []Value{Str("a"), Num(1)}),
		NewColumn("Bos", 0, []Value{Missing(), Missing()}),
	)
	require.NoError(t, err)
	DefaultSchema().Assign(tb)

	want := map[string]Role{
		"HastaNo":      RoleIdentifier,
		"TedaviSuresi": RoleTarget,
		"Yas":          RoleNumeric,
		"Cinsiyet":     RoleCategorical,
		"Alerji":       RoleTextList,
		"Not":          RoleCategorical,
		"Bos":          RoleNumeric,
	}
	for name, role := range want {
		c, _ := tb.Column(name)
		assert.Equal(t, role, c.Role, name)
	}
}

func TestLoadCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.csv")
	body := "HastaNo,Yas,Cinsiyet,,TedaviSuresi\n1,40,Kadın,x,5 seans\n2,,NA,y,10\n3,70\n"
	require.NoError(t, os.WriteFile(src, []byte(body), 0o644))

	tb, err := LoadFile(src, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, tb.Rows())
	assert.Equal(t, []string{"HastaNo", "Yas", "Cinsiyet", "Unnamed: 3", "TedaviSuresi"}, tb.Names())

	yas, _ := tb.Column("Yas")
	assert.Equal(t, 1, yas.MissingCount())
	cins, _ := tb.Column("Cinsiyet")
	assert.Equal(t, 2, cins.MissingCount(), "NA token and short row load as missing")
	target, _ := tb.Column("TedaviSuresi")
	assert.Equal(t, RoleTarget, target.Role)

	out := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteCSV(out, tb))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "HastaNo,Yas,Cinsiyet,Unnamed: 3,TedaviSuresi", lines[0])
	assert.Equal(t, "2,,,y,10", lines[2])
}

func TestLoadTSV(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.tsv")
	require.NoError(t, os.WriteFile(src, []byte("a\tb\n1\tx\n"), 0o644))
	tb, err := LoadFile(src, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tb.Names())
}

func TestLoadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "Hastalar")
	_, err := f.NewSheet("Diger")
	require.NoError(t, err)
	rows := [][]any{
		{"HastaNo", "Yas", "Bolum"},
		{1, 35, "Ortopedi"},
		{2, nil, "Nöroloji"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Hastalar", cell, &r))
	}
	require.NoError(t, f.SetCellValue("Diger", "A1", "x"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tb, err := LoadFile(path, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, tb.Rows())
	assert.Equal(t, []string{"HastaNo", "Yas", "Bolum"}, tb.Names())
	yas, _ := tb.Column("Yas")
	assert.Equal(t, []float64{35}, yas.Numbers())

	opt := DefaultLoadOptions()
	opt.SheetName = "Diger"
	tb, err = LoadFile(path, opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, tb.Names())

	opt = DefaultLoadOptions()
	opt.SheetIndex = 3
	_, err = LoadFile(path, opt)
	assert.Error(t, err)
}

func TestLoadUnsupported(t *testing.T) {
	_, err := LoadFile("notes.docx", DefaultLoadOptions())
	assert.Error(t, err)
}
