package dataload

import "strings"

// countryAliases maps dataset spellings onto the canonical short name used
// throughout the model. Composite or historical entries are attributed to
// their present-day successor, matching the preprocessing of the source data.
var countryAliases = map[string]string{
	"China; Taiwan Province of": "Taiwan",
	"China, Taiwan Province of": "Taiwan",
	"China, mainland":           "China",
	"Serbia and Montenegro":     "Serbia",
	"Belgium-Luxembourg":        "Belgium",

	"Bolivia (Plurinational State of)":                     "Bolivia",
	"Iran (Islamic Republic of)":                           "Iran",
	"Venezuela (Bolivarian Republic of)":                   "Venezuela",
	"Viet Nam":                                             "Vietnam",
	"Republic of Korea":                                    "South Korea",
	"Democratic People's Republic of Korea":                "North Korea",
	"United States of America":                             "United States",
	"United Kingdom of Great Britain and Northern Ireland": "United Kingdom",
	"Russian Federation":                                   "Russia",
	"Syrian Arab Republic":                                 "Syria",
	"Lao People's Democratic Republic":                     "Laos",
	"United Republic of Tanzania":                          "Tanzania",
	"Republic of Moldova":                                  "Moldova",
	"Netherlands (Kingdom of the)":                         "Netherlands",
	"Türkiye":                                              "Turkey",
	"Brunei Darussalam":                                    "Brunei",
	"Cabo Verde":                                           "Cape Verde",
	"Democratic Republic of the Congo":                     "DR Congo",
	"Micronesia (Federated States of)":                     "Micronesia",
}

// aggregateEntries are dataset rows that group several countries by region or
// property. They must not enter the trade graph as nodes. "China" here is the
// aggregate including Taiwan; the mainland entry is renamed to China by the
// alias table above.
var aggregateEntries = map[string]struct{}{
	"World":                     {},
	"Africa":                    {},
	"South America":             {},
	"Oceania":                   {},
	"Western Africa":            {},
	"Central America":           {},
	"Eastern Africa":            {},
	"Northern Africa":           {},
	"Middle Africa":             {},
	"Southern Africa":           {},
	"Americas":                  {},
	"Northern America":          {},
	"Eastern Asia":              {},
	"Southern Asia":             {},
	"South-eastern Asia":        {},
	"Southern Europe":           {},
	"Australia and New Zealand": {},
	"Melanesia":                 {},
	"European Union (27)":       {},
	"Asia":                      {},
	"Central Asia":              {},
	"Western Asia":              {},
	"Europe":                    {},
	"Eastern Europe":            {},
	"Northern Europe":           {},
	"Western Europe":            {},
	"Caribbean":                 {},

	"Least Developed Countries":               {},
	"Land Locked Developing Countries":        {},
	"Small Island Developing States":          {},
	"Low Income Food Deficit Countries":       {},
	"Net Food Importing Developing Countries": {},

	"China": {},

	// tiny territories with no usable trade data
	"Midway Island": {},
	"Monaco":        {},
}

// cropRenames shortens verbose dataset item names for readability.
var cropRenames = map[string]string{
	"Maize (corn)":                         "Maize",
	"Rice, paddy (rice milled equivalent)": "Rice",
}

// NormalizeCountry returns the canonical short name for a dataset country
// entry and whether the entry represents an actual country. Aggregate rows
// report ok == false and must be dropped.
func NormalizeCountry(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if _, isAggregate := aggregateEntries[name]; isAggregate {
		return "", false
	}
	if canonical, found := countryAliases[name]; found {
		return canonical, true
	}
	return name, true
}

// CanonicalCrop maps verbose dataset item names onto the short crop name used
// in file names and reports.
func CanonicalCrop(item string) string {
	if renamed, found := cropRenames[strings.TrimSpace(item)]; found {
		return renamed
	}
	return strings.TrimSpace(item)
}
