// Package extractor maps raw search results onto the fixed output schema.
package extractor

import (
	"github.com/user/nutrition-scraper/internal/entity"
)

// Rules holds one rule per schema column, in column order.
var Rules = []Rule{
	Scalar("id_produit", "_id"),
	Scalar("nom_produit", "product_name"),
	Joined("marque", "brands_tags"),
	Joined("categorie", "categories_tags"),
	Tail("sous_categorie", "categories_tags"),
	Joined("type_emballage", "packaging_tags"),
	Scalar("poids_net", "quantity"),
	Volume("volume", "quantity"),
	Nutrient("energie_kcal", "energy-kcal", " kcal"),
	Nutrient("energie_kj", "energy-kj", " kJ"),
	Nutrient("lipides", "fat", "g"),
	Nutrient("acides_gras_satures", "saturated-fat", "g"),
	Nutrient("acides_gras_mono_insatures", "monounsaturated-fat", "g"),
	Nutrient("acides_gras_poly_insatures", "polyunsaturated-fat", "g"),
	Nutrient("cholesterol", "cholesterol", "mg"),
	Nutrient("glucides", "carbohydrates", "g"),
	Nutrient("sucres", "sugars", "g"),
	Nutrient("amidon", "starch", "g"),
	Nutrient("fibres_alimentaires", "fiber", "g"),
	Nutrient("proteines", "proteins", "g"),
	Nutrient("sel", "salt", "g"),
	Nutrient("sodium", "sodium", "mg"),
	Nutrient("calcium", "calcium", "mg"),
	Nutrient("fer", "iron", "mg"),
	Nutrient("magnesium", "magnesium", "mg"),
	Nutrient("zinc", "zinc", "mg"),
	Nutrient("vitamine_a", "vitamin-a", "µg"),
	Nutrient("vitamine_c", "vitamin-c", "mg"),
	Nutrient("vitamine_d", "vitamin-d", "µg"),
	Nutrient("vitamine_b1", "vitamin-b1", "mg"),
	Nutrient("vitamine_b2", "vitamin-b2", "mg"),
	Nutrient("vitamine_b3", "vitamin-pp", "mg"), // B3 is published as PP
	Nutrient("vitamine_b6", "vitamin-b6", "mg"),
	Nutrient("vitamine_b12", "vitamin-b12", "µg"),
	Nutrient("vitamine_e", "vitamin-e", "mg"),
	Nutrient("vitamine_k", "vitamin-k", "µg"),
	Nutrient("omega_3", "omega-3-fat", "g"),
	Nutrient("omega_6", "omega-6-fat", "g"),
	Scalar("ingredients", "ingredients_text"),
	Joined("additifs", "additives_tags"),
	Joined("allergenes", "allergens_tags"),
	Joined("certifications", "labels_tags"),
	Joined("pays_origine", "countries_tags"),
	Scalar("lieu_fabrication", "manufacturing_places"),
	Scalar("instructions_conservation", "conservation_conditions"),
	Scalar("mode_preparation", "preparation"),
	Empty("date_expiration"),
	Scalar("code_barres", "code"),
	Scalar("site_internet_marque", "official_website"),
	Scalar("service_client_contact", "contact"),
}

// Extract builds a NormalizedRecord from a raw product. A rule that fails
// leaves its own column empty and does not affect the others.
func Extract(raw entity.RawProduct) entity.NormalizedRecord {
	var rec entity.NormalizedRecord
	for _, rule := range Rules {
		i, ok := entity.ColumnIndex(rule.Column)
		if !ok {
			continue
		}
		rec[i] = apply(rule, raw)
	}
	return rec
}

func apply(rule Rule, raw entity.RawProduct) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()
	return rule.Extract(raw)
}

// SourceFields lists the top-level keys read by Rules, in first-use order.
// It is sent to the search API as the fields allowlist.
func SourceFields() []string {
	seen := make(map[string]struct{}, len(Rules))
	var fields []string
	for _, rule := range Rules {
		if rule.Source == "" {
			continue
		}
		if _, ok := seen[rule.Source]; ok {
			continue
		}
		seen[rule.Source] = struct{}{}
		fields = append(fields, rule.Source)
	}
	return fields
}
