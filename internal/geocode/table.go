// Package geocode provides the static mapping from Senegalese region and
// department names to the fixed numeric codes used in member and caisse codes.
// It is a pure lookup with no state; unknown names fall back to the default
// codes rather than erroring, matching the behavior of the legacy platform.
package geocode

import "strings"

const (
	// DefaultRegionCode is returned for region names absent from the table.
	DefaultRegionCode = "0"
	// DefaultDepartmentCode is returned for department names absent from the table.
	DefaultDepartmentCode = "000"
	// DefaultCommuneAbbrev is used when the commune name is absent.
	DefaultCommuneAbbrev = "XXX"
)

// regionCodes maps normalized region names to their numeric code.
var regionCodes = map[string]string{
	"DAKAR":       "1",
	"DIOURBEL":    "2",
	"FATICK":      "3",
	"KAFFRINE":    "4",
	"KAOLACK":     "5",
	"KEDOUGOU":    "6",
	"KOLDA":       "7",
	"LOUGA":       "8",
	"MATAM":       "9",
	"SAINT-LOUIS": "10",
	"SEDHIOU":     "11",
	"TAMBACOUNDA": "12",
	"THIES":       "13",
	"ZIGUINCHOR":  "14",
}

// departmentCodes maps normalized department names to their numeric code.
// The first digit(s) follow the region code, the remainder is the department
// ordinal within the region.
var departmentCodes = map[string]string{
	// Dakar
	"DAKAR":       "101",
	"GUEDIAWAYE":  "102",
	"KEUR MASSAR": "103",
	"PIKINE":      "104",
	"RUFISQUE":    "105",
	// Diourbel
	"BAMBEY":   "201",
	"DIOURBEL": "202",
	"MBACKE":   "203",
	// Fatick
	"FATICK":      "301",
	"FOUNDIOUGNE": "302",
	"GOSSAS":      "303",
	// Kaffrine
	"BIRKELANE":   "401",
	"KAFFRINE":    "402",
	"KOUNGHEUL":   "403",
	"MALEM-HODAR": "404",
	// Kaolack
	"GUINGUINEO":   "501",
	"KAOLACK":      "502",
	"NIORO DU RIP": "503",
	// Kedougou
	"KEDOUGOU": "601",
	"SALEMATA": "602",
	"SARAYA":   "603",
	// Kolda
	"KOLDA":              "701",
	"MEDINA YORO FOULAH": "702",
	"VELINGARA":          "703",
	// Louga
	"KEBEMER":  "801",
	"LINGUERE": "802",
	"LOUGA":    "803",
	// Matam
	"KANEL":   "901",
	"MATAM":   "902",
	"RANEROU": "903",
	// Saint-Louis
	"DAGANA":      "1001",
	"PODOR":       "1002",
	"SAINT-LOUIS": "1003",
	// Sedhiou
	"BOUNKILING": "1101",
	"GOUDOMP":    "1102",
	"SEDHIOU":    "1103",
	// Tambacounda
	"BAKEL":       "1201",
	"GOUDIRY":     "1202",
	"KOUMPENTOUM": "1203",
	"TAMBACOUNDA": "1204",
	// Thies
	"MBOUR":     "1301",
	"THIES":     "1302",
	"TIVAOUANE": "1303",
	// Ziguinchor
	"BIGNONA":    "1401",
	"OUSSOUYE":   "1402",
	"ZIGUINCHOR": "1403",
}

// normalize trims and upper-cases a name for table lookup.
func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// RegionCode returns the numeric code for a region name, or DefaultRegionCode
// when the name is not in the table. Lookup is case-insensitive.
func RegionCode(region string) string {
	if code, ok := regionCodes[normalize(region)]; ok {
		return code
	}
	return DefaultRegionCode
}

// DepartmentCode returns the numeric code for a department name, or
// DefaultDepartmentCode when the name is not in the table. Lookup is
// case-insensitive.
func DepartmentCode(department string) string {
	if code, ok := departmentCodes[normalize(department)]; ok {
		return code
	}
	return DefaultDepartmentCode
}

// CommuneAbbrev returns the first three runes of the commune name upper-cased,
// or DefaultCommuneAbbrev when the name is blank. Shorter names are returned
// as-is (upper-cased).
func CommuneAbbrev(commune string) string {
	name := normalize(commune)
	if name == "" {
		return DefaultCommuneAbbrev
	}
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
