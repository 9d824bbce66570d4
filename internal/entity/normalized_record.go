package entity

// Columns is the fixed output schema, in CSV order.
var Columns = [ColumnCount]string{
	"id_produit", "nom_produit", "marque", "categorie", "sous_categorie",
	"type_emballage", "poids_net", "volume", "energie_kcal", "energie_kj",
	"lipides", "acides_gras_satures", "acides_gras_mono_insatures",
	"acides_gras_poly_insatures", "cholesterol", "glucides", "sucres",
	"amidon", "fibres_alimentaires", "proteines", "sel", "sodium",
	"calcium", "fer", "magnesium", "zinc", "vitamine_a", "vitamine_c",
	"vitamine_d", "vitamine_b1", "vitamine_b2", "vitamine_b3", "vitamine_b6",
	"vitamine_b12", "vitamine_e", "vitamine_k", "omega_3", "omega_6",
	"ingredients", "additifs", "allergenes", "certifications", "pays_origine",
	"lieu_fabrication", "instructions_conservation", "mode_preparation",
	"date_expiration", "code_barres", "site_internet_marque", "service_client_contact",
}

// ColumnCount is the number of columns in every NormalizedRecord.
const ColumnCount = 50

var columnIndex = func() map[string]int {
	idx := make(map[string]int, ColumnCount)
	for i, c := range Columns {
		idx[c] = i
	}
	return idx
}()

// ColumnIndex returns the position of a column in the schema.
func ColumnIndex(column string) (int, bool) {
	i, ok := columnIndex[column]
	return i, ok
}

// NormalizedRecord is one flat output row. Being an array, every column is
// always present; missing data is the empty string.
type NormalizedRecord [ColumnCount]string

// Get returns the value of a named column, or "" for an unknown column.
func (r NormalizedRecord) Get(column string) string {
	if i, ok := columnIndex[column]; ok {
		return r[i]
	}
	return ""
}

// With returns a copy of the record with column set to value.
func (r NormalizedRecord) With(column, value string) NormalizedRecord {
	if i, ok := columnIndex[column]; ok {
		r[i] = value
	}
	return r
}

// Values returns the column values in schema order.
func (r NormalizedRecord) Values() []string {
	out := make([]string, ColumnCount)
	copy(out, r[:])
	return out
}

// Map returns the record keyed by column name.
func (r NormalizedRecord) Map() map[string]string {
	m := make(map[string]string, ColumnCount)
	for i, c := range Columns {
		m[c] = r[i]
	}
	return m
}
