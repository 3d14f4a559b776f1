package util

import (
	"fmt"
	"strings"
)

// Country normalization targets
const (
	CountryISO2 = "iso2"
	CountryISO3 = "iso3"
	CountryName = "name"
)

type country struct {
	name string
	iso2 string
	iso3 string
}

// ISO 3166-1 table. Names are the lookup keys; alternate spellings are added
// in countryAliases below.
var countryTable = []country{
	{"Afghanistan", "AF", "AFG"},
	{"Albania", "AL", "ALB"},
	{"Algeria", "DZ", "DZA"},
	{"Andorra", "AD", "AND"},
	{"Angola", "AO", "AGO"},
	{"Argentina", "AR", "ARG"},
	{"Armenia", "AM", "ARM"},
	{"Australia", "AU", "AUS"},
	{"Austria", "AT", "AUT"},
	{"Azerbaijan", "AZ", "AZE"},
	{"Bahamas", "BS", "BHS"},
	{"Bahrain", "BH", "BHR"},
	{"Bangladesh", "BD", "BGD"},
	{"Barbados", "BB", "BRB"},
	{"Belarus", "BY", "BLR"},
	{"Belgium", "BE", "BEL"},
	{"Belize", "BZ", "BLZ"},
	{"Benin", "BJ", "BEN"},
	{"Bhutan", "BT", "BTN"},
	{"Bolivia", "BO", "BOL"},
	{"Bosnia and Herzegovina", "BA", "BIH"},
	{"Botswana", "BW", "BWA"},
	{"Brazil", "BR", "BRA"},
	{"Brunei", "BN", "BRN"},
	{"Bulgaria", "BG", "BGR"},
	{"Burkina Faso", "BF", "BFA"},
	{"Burundi", "BI", "BDI"},
	{"Cambodia", "KH", "KHM"},
	{"Cameroon", "CM", "CMR"},
	{"Canada", "CA", "CAN"},
	{"Cape Verde", "CV", "CPV"},
	{"Central African Republic", "CF", "CAF"},
	{"Chad", "TD", "TCD"},
	{"Chile", "CL", "CHL"},
	{"China", "CN", "CHN"},
	{"Colombia", "CO", "COL"},
	{"Comoros", "KM", "COM"},
	{"Congo", "CG", "COG"},
	{"Costa Rica", "CR", "CRI"},
	{"Croatia", "HR", "HRV"},
	{"Cuba", "CU", "CUB"},
	{"Cyprus", "CY", "CYP"},
	{"Czech Republic", "CZ", "CZE"},
	{"Democratic Republic of the Congo", "CD", "COD"},
	{"Denmark", "DK", "DNK"},
	{"Djibouti", "DJ", "DJI"},
	{"Dominica", "DM", "DMA"},
	{"Dominican Republic", "DO", "DOM"},
	{"Ecuador", "EC", "ECU"},
	{"Egypt", "EG", "EGY"},
	{"El Salvador", "SV", "SLV"},
	{"Equatorial Guinea", "GQ", "GNQ"},
	{"Eritrea", "ER", "ERI"},
	{"Estonia", "EE", "EST"},
	{"Eswatini", "SZ", "SWZ"},
	{"Ethiopia", "ET", "ETH"},
	{"Fiji", "FJ", "FJI"},
	{"Finland", "FI", "FIN"},
	{"France", "FR", "FRA"},
	{"Gabon", "GA", "GAB"},
	{"Gambia", "GM", "GMB"},
	{"Georgia", "GE", "GEO"},
	{"Germany", "DE", "DEU"},
	{"Ghana", "GH", "GHA"},
	{"Greece", "GR", "GRC"},
	{"Greenland", "GL", "GRL"},
	{"Grenada", "GD", "GRD"},
	{"Guatemala", "GT", "GTM"},
	{"Guinea", "GN", "GIN"},
	{"Guinea-Bissau", "GW", "GNB"},
	{"Guyana", "GY", "GUY"},
	{"Haiti", "HT", "HTI"},
	{"Honduras", "HN", "HND"},
	{"Hungary", "HU", "HUN"},
	{"Iceland", "IS", "ISL"},
	{"India", "IN", "IND"},
	{"Indonesia", "ID", "IDN"},
	{"Iran", "IR", "IRN"},
	{"Iraq", "IQ", "IRQ"},
	{"Ireland", "IE", "IRL"},
	{"Israel", "IL", "ISR"},
	{"Italy", "IT", "ITA"},
	{"Ivory Coast", "CI", "CIV"},
	{"Jamaica", "JM", "JAM"},
	{"Japan", "JP", "JPN"},
	{"Jordan", "JO", "JOR"},
	{"Kazakhstan", "KZ", "KAZ"},
	{"Kenya", "KE", "KEN"},
	{"Kiribati", "KI", "KIR"},
	{"Kuwait", "KW", "KWT"},
	{"Kyrgyzstan", "KG", "KGZ"},
	{"Laos", "LA", "LAO"},
	{"Latvia", "LV", "LVA"},
	{"Lebanon", "LB", "LBN"},
	{"Lesotho", "LS", "LSO"},
	{"Liberia", "LR", "LBR"},
	{"Libya", "LY", "LBY"},
	{"Liechtenstein", "LI", "LIE"},
	{"Lithuania", "LT", "LTU"},
	{"Luxembourg", "LU", "LUX"},
	{"Madagascar", "MG", "MDG"},
	{"Malawi", "MW", "MWI"},
	{"Malaysia", "MY", "MYS"},
	{"Maldives", "MV", "MDV"},
	{"Mali", "ML", "MLI"},
	{"Malta", "MT", "MLT"},
	{"Marshall Islands", "MH", "MHL"},
	{"Mauritania", "MR", "MRT"},
	{"Mauritius", "MU", "MUS"},
	{"Mexico", "MX", "MEX"},
	{"Micronesia", "FM", "FSM"},
	{"Moldova", "MD", "MDA"},
	{"Monaco", "MC", "MCO"},
	{"Mongolia", "MN", "MNG"},
	{"Montenegro", "ME", "MNE"},
	{"Morocco", "MA", "MAR"},
	{"Mozambique", "MZ", "MOZ"},
	{"Myanmar", "MM", "MMR"},
	{"Namibia", "NA", "NAM"},
	{"Nauru", "NR", "NRU"},
	{"Nepal", "NP", "NPL"},
	{"Netherlands", "NL", "NLD"},
	{"New Zealand", "NZ", "NZL"},
	{"Nicaragua", "NI", "NIC"},
	{"Niger", "NE", "NER"},
	{"Nigeria", "NG", "NGA"},
	{"North Korea", "KP", "PRK"},
	{"North Macedonia", "MK", "MKD"},
	{"Norway", "NO", "NOR"},
	{"Oman", "OM", "OMN"},
	{"Pakistan", "PK", "PAK"},
	{"Palau", "PW", "PLW"},
	{"Palestine", "PS", "PSE"},
	{"Panama", "PA", "PAN"},
	{"Papua New Guinea", "PG", "PNG"},
	{"Paraguay", "PY", "PRY"},
	{"Peru", "PE", "PER"},
	{"Philippines", "PH", "PHL"},
	{"Poland", "PL", "POL"},
	{"Portugal", "PT", "PRT"},
	{"Puerto Rico", "PR", "PRI"},
	{"Qatar", "QA", "QAT"},
	{"Romania", "RO", "ROU"},
	{"Russia", "RU", "RUS"},
	{"Rwanda", "RW", "RWA"},
	{"Samoa", "WS", "WSM"},
	{"San Marino", "SM", "SMR"},
	{"Saudi Arabia", "SA", "SAU"},
	{"Senegal", "SN", "SEN"},
	{"Serbia", "RS", "SRB"},
	{"Seychelles", "SC", "SYC"},
	{"Sierra Leone", "SL", "SLE"},
	{"Singapore", "SG", "SGP"},
	{"Slovakia", "SK", "SVK"},
	{"Slovenia", "SI", "SVN"},
	{"Solomon Islands", "SB", "SLB"},
	{"Somalia", "SO", "SOM"},
	{"South Africa", "ZA", "ZAF"},
	{"South Korea", "KR", "KOR"},
	{"South Sudan", "SS", "SSD"},
	{"Spain", "ES", "ESP"},
	{"Sri Lanka", "LK", "LKA"},
	{"Sudan", "SD", "SDN"},
	{"Suriname", "SR", "SUR"},
	{"Sweden", "SE", "SWE"},
	{"Switzerland", "CH", "CHE"},
	{"Syria", "SY", "SYR"},
	{"Taiwan", "TW", "TWN"},
	{"Tajikistan", "TJ", "TJK"},
	{"Tanzania", "TZ", "TZA"},
	{"Thailand", "TH", "THA"},
	{"Timor-Leste", "TL", "TLS"},
	{"Togo", "TG", "TGO"},
	{"Tonga", "TO", "TON"},
	{"Trinidad and Tobago", "TT", "TTO"},
	{"Tunisia", "TN", "TUN"},
	{"Turkey", "TR", "TUR"},
	{"Turkmenistan", "TM", "TKM"},
	{"Tuvalu", "TV", "TUV"},
	{"Uganda", "UG", "UGA"},
	{"Ukraine", "UA", "UKR"},
	{"United Arab Emirates", "AE", "ARE"},
	{"United Kingdom", "GB", "GBR"},
	{"United States", "US", "USA"},
	{"Uruguay", "UY", "URY"},
	{"Uzbekistan", "UZ", "UZB"},
	{"Vanuatu", "VU", "VUT"},
	{"Vatican City", "VA", "VAT"},
	{"Venezuela", "VE", "VEN"},
	{"Vietnam", "VN", "VNM"},
	{"Yemen", "YE", "YEM"},
	{"Zambia", "ZM", "ZMB"},
	{"Zimbabwe", "ZW", "ZWE"},
}

// Alternate spellings mapped to canonical table names.
var countryAliases = map[string]string{
	"usa":                      "United States",
	"u.s.a.":                   "United States",
	"u.s.":                     "United States",
	"america":                  "United States",
	"united states of america": "United States",
	"uk":             "United Kingdom",
	"u.k.":           "United Kingdom",
	"great britain":  "United Kingdom",
	"britain":        "United Kingdom",
	"england":        "United Kingdom",
	"scotland":       "United Kingdom",
	"wales":          "United Kingdom",
	"holland":        "Netherlands",
	"the netherlands": "Netherlands",
	"south korea, republic of": "South Korea",
	"republic of korea":        "South Korea",
	"korea":                    "South Korea",
	"russian federation":       "Russia",
	"czechia":                  "Czech Republic",
	"burma":                    "Myanmar",
	"swaziland":                "Eswatini",
	"macedonia":                "North Macedonia",
	"east timor":               "Timor-Leste",
	"cote d'ivoire":            "Ivory Coast",
	"côte d'ivoire":            "Ivory Coast",
	"viet nam":                 "Vietnam",
	"cabo verde":               "Cape Verde",
	"drc":                      "Democratic Republic of the Congo",
}

var (
	countriesByISO2 = make(map[string]*country, len(countryTable))
	countriesByISO3 = make(map[string]*country, len(countryTable))
	countriesByName = make(map[string]*country, len(countryTable))
)

func init() {
	for i := range countryTable {
		c := &countryTable[i]
		countriesByISO2[c.iso2] = c
		countriesByISO3[c.iso3] = c
		countriesByName[strings.ToLower(c.name)] = c
	}
}

func countryByName(s string) *country {
	key := strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := countryAliases[key]; ok {
		key = strings.ToLower(canonical)
	}
	return countriesByName[key]
}

// NormalizeCountry returns a normalized name/code for the country in s. The
// input may be a name or 2/3 letter code; target selects the output form
// (CountryISO2, CountryISO3, or CountryName). CountryISO3, uppercase, is the
// canonical stored form.
func NormalizeCountry(s, target string) (string, error) {
	if s == "" {
		return "", nil
	}

	var c *country
	switch len(s) {
	case 2:
		c = countriesByISO2[strings.ToUpper(s)]
	case 3:
		c = countriesByISO3[strings.ToUpper(s)]
	}
	if c == nil {
		c = countryByName(s)
	}
	if c == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownCountry, s)
	}

	switch target {
	case CountryISO2:
		return c.iso2, nil
	case CountryName:
		return c.name, nil
	case CountryISO3, "":
		return c.iso3, nil
	default:
		return "", fmt.Errorf("unknown country target: %s", target)
	}
}
