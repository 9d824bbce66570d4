package generator

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/nutrition-scraper/internal/entity"
)

func TestGenerate_Count(t *testing.T) {
	g := NewSeeded(1, 2027)

	assert.Empty(t, g.Generate(0))
	assert.Empty(t, g.Generate(-3))
	assert.Len(t, g.Generate(25), 25)
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	a := NewSeeded(42, 2027).Generate(50)
	b := NewSeeded(42, 2027).Generate(50)
	c := NewSeeded(43, 2027).Generate(50)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerate_IdentifiersFollowRunningIndex(t *testing.T) {
	g := NewSeeded(7, 2027)
	first := g.Generate(3)
	second := g.Generate(2)

	var ids []string
	for _, r := range append(first, second...) {
		ids = append(ids, r.Get("id_produit"))
	}
	assert.Equal(t, []string{"1000", "1001", "1002", "1003", "1004"}, ids)
}

func TestGenerate_RecordsAreSchemaConformant(t *testing.T) {
	nutrientPattern := map[string]*regexp.Regexp{
		" kcal": regexp.MustCompile(`^\d+\.\d kcal$`),
		" kJ":   regexp.MustCompile(`^\d+\.\d kJ$`),
		"g":     regexp.MustCompile(`^\d+\.\dg$`),
		"mg":    regexp.MustCompile(`^\d+\.\dmg$`),
		"µg":    regexp.MustCompile(`^\d+\.\dµg$`),
	}
	barcode := regexp.MustCompile(`^[1-9]\d{12}$`)
	expiry := regexp.MustCompile(`^\d{1,2}/\d{1,2}/2027$`)

	records := NewSeeded(99, 2027).Generate(300)
	present := 0
	total := 0

	for _, rec := range records {
		require.Len(t, rec.Map(), entity.ColumnCount)

		category := rec.Get("categorie")
		assert.Contains(t, categories, category)
		pool, ok := subcategories[category]
		if !ok {
			pool = defaultSubcategories
		}
		assert.Contains(t, pool, rec.Get("sous_categorie"))
		assert.Contains(t, brands, rec.Get("marque"))
		assert.Contains(t, packagingTypes, rec.Get("type_emballage"))
		assert.Contains(t, countries, rec.Get("pays_origine"))
		assert.Regexp(t, barcode, rec.Get("code_barres"))
		assert.Regexp(t, expiry, rec.Get("date_expiration"))
		assert.True(t, strings.HasPrefix(rec.Get("site_internet_marque"), "www."))

		if rec.Get("poids_net") != "" {
			assert.Empty(t, rec.Get("volume"), "volume only when there is no weight")
		}

		for _, a := range splitList(rec.Get("additifs")) {
			assert.Contains(t, additives, a)
		}
		assert.LessOrEqual(t, len(splitList(rec.Get("allergenes"))), 3)
		assert.LessOrEqual(t, len(splitList(rec.Get("certifications"))), 2)

		for _, n := range nutrientRanges {
			total++
			v := rec.Get(n.column)
			if v == "" {
				continue
			}
			present++
			assert.Regexp(t, nutrientPattern[n.unit], v, n.column)
			num, err := strconv.ParseFloat(strings.TrimSuffix(v, n.unit), 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, num, n.min)
			assert.LessOrEqual(t, num, n.max)
		}
	}

	ratio := float64(present) / float64(total)
	assert.InDelta(t, nutrientPresence, ratio, 0.03)
}

func TestNutrientRangesCoverSchemaColumns(t *testing.T) {
	for _, n := range nutrientRanges {
		_, ok := entity.ColumnIndex(n.column)
		assert.True(t, ok, n.column)
	}
	for cat := range subcategories {
		assert.True(t, slices.Contains(categories, cat), cat)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ", ")
}
