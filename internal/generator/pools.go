package generator

var categories = []string{
	"Produits laitiers", "Viandes", "Poissons", "Fruits", "Légumes",
	"Céréales", "Boissons", "Snacks", "Conserves", "Surgelés",
	"Pâtisseries", "Confiseries", "Pâtes", "Riz", "Huiles",
	"Sauces", "Épices", "Soupes", "Charcuterie", "Fromages",
}

var brands = []string{
	"Danone", "Nestlé", "Carrefour", "Lidl", "Auchan",
	"Bonduelle", "Président", "Barilla", "Fleury Michon", "Bonne Maman",
	"Kellogg's", "Knorr", "Lu", "Maggi", "Panzani",
	"Heinz", "Coca-Cola", "Pepsi", "Evian", "Cristaline",
}

// Categories without an entry draw from defaultSubcategories.
var subcategories = map[string][]string{
	"Produits laitiers": {"Yaourt", "Fromage", "Crème", "Beurre", "Lait"},
	"Viandes":           {"Boeuf", "Poulet", "Porc", "Agneau", "Charcuterie"},
	"Poissons":          {"Saumon", "Thon", "Sardine", "Truite", "Fruits de mer"},
	"Fruits":            {"Pomme", "Banane", "Orange", "Fraise", "Raisin"},
	"Légumes":           {"Carotte", "Tomate", "Pomme de terre", "Salade", "Oignon"},
	"Céréales":          {"Blé", "Avoine", "Maïs", "Riz", "Quinoa"},
	"Boissons":          {"Eau", "Jus", "Soda", "Thé", "Café"},
	"Snacks":            {"Chips", "Biscuits", "Crackers", "Barres", "Noix"},
	"Conserves":         {"Légumes", "Fruits", "Poisson", "Viande", "Soupe"},
	"Surgelés":          {"Pizza", "Légumes", "Plats préparés", "Glaces", "Viandes"},
}

var defaultSubcategories = []string{"Standard"}

var packagingTypes = []string{
	"Bouteille plastique", "Bouteille verre", "Boîte carton",
	"Sachet plastique", "Barquette", "Pot en verre", "Conserve",
	"Boîte métallique", "Film plastique", "Barquette sous vide",
}

// nutrientRange bounds the synthetic value of one nutrient column.
type nutrientRange struct {
	column   string
	min, max float64
	unit     string
}

var nutrientRanges = []nutrientRange{
	{"energie_kcal", 50, 600, " kcal"},
	{"energie_kj", 200, 2500, " kJ"},
	{"lipides", 0, 40, "g"},
	{"acides_gras_satures", 0, 20, "g"},
	{"acides_gras_mono_insatures", 0, 15, "g"},
	{"acides_gras_poly_insatures", 0, 10, "g"},
	{"cholesterol", 0, 100, "mg"},
	{"glucides", 0, 80, "g"},
	{"sucres", 0, 40, "g"},
	{"amidon", 0, 30, "g"},
	{"fibres_alimentaires", 0, 15, "g"},
	{"proteines", 0, 30, "g"},
	{"sel", 0, 5, "g"},
	{"sodium", 0, 1000, "mg"},
	{"calcium", 0, 500, "mg"},
	{"fer", 0, 15, "mg"},
	{"magnesium", 0, 100, "mg"},
	{"zinc", 0, 5, "mg"},
	{"vitamine_a", 0, 1000, "µg"},
	{"vitamine_c", 0, 100, "mg"},
	{"vitamine_d", 0, 15, "µg"},
	{"vitamine_b1", 0, 2, "mg"},
	{"vitamine_b2", 0, 2, "mg"},
	{"vitamine_b3", 0, 20, "mg"},
	{"vitamine_b6", 0, 2, "mg"},
	{"vitamine_b12", 0, 5, "µg"},
	{"vitamine_e", 0, 15, "mg"},
	{"vitamine_k", 0, 80, "µg"},
	{"omega_3", 0, 3, "g"},
	{"omega_6", 0, 10, "g"},
}

var allergens = []string{
	"Gluten", "Lait", "Œufs", "Fruits à coque", "Soja", "Sésame",
	"Crustacés", "Poisson", "Arachide", "Moutarde", "Céleri", "Lupin",
}

var certifications = []string{
	"Bio", "Label Rouge", "AOP", "IGP", "Commerce équitable",
	"Sans gluten", "Végan", "Halal", "Kasher", "AB",
}

var conservationInstructions = []string{
	"À conserver au réfrigérateur entre 0°C et 4°C",
	"À conserver dans un endroit frais et sec",
	"À conserver à température ambiante",
	"À conserver à l'abri de la lumière et de l'humidité",
	"À conserver au congélateur à -18°C",
}

var preparationInstructions = []string{
	"Prêt à consommer",
	"À réchauffer 3 minutes au micro-ondes",
	"À cuire 10 minutes à la poêle",
	"À cuire 20 minutes au four à 180°C",
	"À décongeler avant consommation",
	"À diluer dans de l'eau",
	"Cuire à l'eau bouillante pendant 10 minutes",
}

var countries = []string{
	"France", "Italie", "Espagne", "Allemagne", "Belgique",
	"Pays-Bas", "Suisse", "Royaume-Uni", "Portugal", "Grèce",
}

var additives = []string{
	"E100", "E101", "E102", "E104", "E110", "E120",
	"E150", "E160", "E200", "E202", "E211", "E300",
	"E306", "E330", "E415", "E440", "E471", "E500",
}
