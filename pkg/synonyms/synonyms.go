// Package synonyms holds the sector and subsector vocabulary used by the
// semantic scorer. Tables are plain data so coverage for a new subsector is
// an entry here, never a code change in scoring.
package synonyms

var sectors = map[string][]string{
	"commercial":  {"business", "retail", "service", "hospitality", "office", "building"},
	"industrial":  {"manufacturing", "production", "processing", "factory", "plant", "facility"},
	"municipal":   {"government", "public", "utility", "city", "sewage", "wastewater"},
	"residential": {"domestic", "home", "housing", "apartment", "family", "dwelling"},
}

var subsectors = map[string][]string{
	// Commercial
	"restaurant":      {"dining", "food service", "kitchen", "culinary", "catering", "cafe", "eatery"},
	"hotel":           {"hospitality", "lodging", "accommodation", "guest", "resort", "motel"},
	"shopping_mall":   {"retail", "mall", "shopping center", "commercial center"},
	"office_building": {"office", "commercial building", "corporate", "business center"},
	"food_service":    {"food", "beverage", "catering", "kitchen", "dining", "culinary"},

	// Industrial
	"food_processing":              {"food manufacturing", "food production", "food industry", "processing plant"},
	"beverage_bottling":            {"bottling", "drinks", "beverage production", "bottling plant"},
	"textile_manufacturing":        {"textile", "fabric", "garment", "dyeing", "textile industry"},
	"pharmaceutical_manufacturing": {"pharmaceutical", "pharma", "medicine", "drug production"},
	"chemical_processing":          {"chemical", "chemical manufacturing", "chemical production"},

	// Municipal
	"government_building": {"government", "public building", "municipal building"},
	"water_utility":       {"utility", "water treatment", "water supply", "municipal water"},

	// Residential
	"single_home":  {"home", "house", "single family", "residential", "domestic"},
	"multi_family": {"apartment", "multi-family", "residential complex", "housing"},
}

// Sector returns the synonym list for a sector key, or nil if unknown
func Sector(key string) []string {
	return sectors[key]
}

// Subsector returns the synonym list for a subsector key, or nil if unknown
func Subsector(key string) []string {
	return subsectors[key]
}

// RegisterSector adds or replaces a sector's synonym list
func RegisterSector(key string, terms []string) {
	sectors[key] = terms
}

// RegisterSubsector adds or replaces a subsector's synonym list
func RegisterSubsector(key string, terms []string) {
	subsectors[key] = terms
}
