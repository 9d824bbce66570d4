// Package generator produces schema-conformant synthetic product records,
// used to top up a dataset when the remote source runs dry.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/user/nutrition-scraper/internal/entity"
)

const (
	firstProductID       = 1000
	nutrientPresence     = 0.8
	weightPresence       = 0.7
	volumePresence       = 0.3
	minBarcode     int64 = 1_000_000_000_000
	maxBarcode     int64 = 9_999_999_999_999
)

// Generator is not safe for concurrent use.
type Generator struct {
	rng        *rand.Rand
	nextID     int
	expiryYear int
}

// New returns a Generator drawing from rng. Expiration dates fall in expiryYear.
func New(rng *rand.Rand, expiryYear int) *Generator {
	return &Generator{rng: rng, nextID: firstProductID, expiryYear: expiryYear}
}

// NewSeeded returns a Generator whose output is fully determined by seed.
func NewSeeded(seed uint64, expiryYear int) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), expiryYear)
}

// Generate returns count synthetic records. Product ids keep increasing
// across calls on the same Generator.
func (g *Generator) Generate(count int) []entity.NormalizedRecord {
	if count <= 0 {
		return nil
	}
	out := make([]entity.NormalizedRecord, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, g.record())
	}
	return out
}

func (g *Generator) record() entity.NormalizedRecord {
	id := strconv.Itoa(g.nextID)
	g.nextID++

	category := g.pick(categories)
	subPool, ok := subcategories[category]
	if !ok {
		subPool = defaultSubcategories
	}
	subcategory := g.pick(subPool)
	brand := g.pick(brands)
	lowerSub := strings.ToLower(subcategory)

	names := []string{
		fmt.Sprintf("%s %s", brand, lowerSub),
		fmt.Sprintf("%s %s premium", brand, lowerSub),
		fmt.Sprintf("%s %s tradition", subcategory, brand),
		fmt.Sprintf("%s - %s spécial", brand, subcategory),
		fmt.Sprintf("Le %s %s", lowerSub, brand),
	}

	hasWeight := g.rng.Float64() > 1-weightPresence
	hasVolume := g.rng.Float64() > 1-volumePresence
	weight, volume := "", ""
	if hasWeight {
		weight = fmt.Sprintf("%dg", g.between(50, 2000))
	} else if hasVolume {
		volume = fmt.Sprintf("%d.%dL", g.between(1, 5), g.between(0, 9))
	}

	slug := strings.ToLower(strings.ReplaceAll(brand, " ", ""))

	var rec entity.NormalizedRecord
	set := func(column, value string) { rec = rec.With(column, value) }

	set("id_produit", id)
	set("nom_produit", g.pick(names))
	set("marque", brand)
	set("categorie", category)
	set("sous_categorie", subcategory)
	set("type_emballage", g.pick(packagingTypes))
	set("poids_net", weight)
	set("volume", volume)
	set("ingredients", g.ingredients())
	set("additifs", g.sample(additives, g.between(0, 5)))
	set("allergenes", g.sample(allergens, g.between(0, 3)))
	set("certifications", g.sample(certifications, g.between(0, 2)))
	set("pays_origine", g.pick(countries))
	set("lieu_fabrication", g.pick(countries))
	set("instructions_conservation", g.pick(conservationInstructions))
	set("mode_preparation", g.pick(preparationInstructions))
	set("date_expiration", fmt.Sprintf("%d/%d/%d", g.between(1, 30), g.between(1, 12), g.expiryYear))
	set("code_barres", strconv.FormatInt(minBarcode+g.rng.Int64N(maxBarcode-minBarcode+1), 10))
	set("site_internet_marque", "www."+slug+".com")
	set("service_client_contact", "contact@"+slug+".com")

	for _, n := range nutrientRanges {
		if g.rng.Float64() > 1-nutrientPresence {
			set(n.column, formatTenths(g.uniform(n.min, n.max))+n.unit)
		}
	}
	return rec
}

func (g *Generator) ingredients() string {
	n := g.between(3, 15)
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pct := formatTenths(g.uniform(1, 50))
		parts = append(parts, fmt.Sprintf("Ingrédient%d (%s%%)", g.between(1, 50), pct))
	}
	return strings.Join(parts, ", ")
}

// sample draws n items with replacement.
func (g *Generator) sample(pool []string, n int) string {
	if n == 0 {
		return ""
	}
	picked := make([]string, 0, n)
	for i := 0; i < n; i++ {
		picked = append(picked, g.pick(pool))
	}
	return strings.Join(picked, ", ")
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.IntN(len(pool))]
}

// between returns an int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func formatTenths(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}
