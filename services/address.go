package services

import (
	"regexp"
	"strings"
)

// rewriteRule is one step of the address normalization cascade. The cascade
// is an explicit ordered list: later rules assume earlier ones already ran,
// and no rule may produce text an earlier rule would have rewritten.
type rewriteRule struct {
	name  string
	apply func(string) string
}

func regexRule(name, pattern, replacement string) rewriteRule {
	re := regexp.MustCompile(pattern)
	return rewriteRule{
		name: name,
		apply: func(s string) string {
			return re.ReplaceAllString(s, replacement)
		},
	}
}

// whitespace variants that show up glued to address markers, including
// full-width and zero-width spaces
const markerSpace = `\s\x{3000}\x{200b}\x{200c}\x{200d}\x{feff}`

var addressCascade = []rewriteRule{
	regexRule("strip country token", `台灣\s*`, ""),
	regexRule("ascii floor marker", `F`, "樓"),
	regexRule("canonical city glyph", `臺([北中南東])`, "台$1"),
	{
		// RE2 has no backreferences; the doubled token produced by the
		// glyph rewrite is collapsed literally.
		name: "collapse doubled city token",
		apply: func(s string) string {
			s = strings.ReplaceAll(s, "台中市台中市", "台中市")
			return strings.ReplaceAll(s, "台中台中", "台中")
		},
	},
	regexRule("unwrap quoted address", `^["“](.*)["”]$`, "$1"),
	regexRule("halfwidth parentheses", `（(.*?)）`, "($1)"),
	regexRule("glue after road markers", `(路|段|街)[`+markerSpace+`]+`, "$1"),
	regexRule("glue after lane marker", `(巷)[`+markerSpace+`]+`, "$1"),
	regexRule("glue after number and floor markers", `(號|樓)[`+markerSpace+`]+`, "$1"),
	// the digits ahead of a marker travel with it: "信義區 3樓" → "信義區3樓"
	regexRule("glue before lane, number and floor markers", `[`+markerSpace+`]+([0-9]*[巷號樓])`, "$1"),
	regexRule("truncate long sub-numbers", `(之)[0-9][0-9][0-9]+`, "$1"),
	regexRule("strip english city suffix",
		`,?\s?(Taipei|New Taipei|Kaohsiung|Taichung|Tainan|Chiayi|Keelung|Hsinchu)\s?City,?\s?Taiwan`, ""),
	regexRule("strip leading postal code", `^\d{3,6}\s*`, ""),
	regexRule("strip embedded postal code", `(縣|市)\d{3,6}`, "$1"),
	regexRule("fix mistranscribed venue", `Sherlock Board game store`, "夏洛克桌遊專賣店"),
	regexRule("drop filler phrases", `可\s*Google\s*地圖|請自行查詢|參考(?:大略)?位置|查地圖`, ""),
	regexRule("collapse terminators", `[；。.]+`, "。"),
	regexRule("drop commas", `,`, ""),
}

// NormalizeAddress runs the full rewrite cascade once, in order, and trims
// the result.
func NormalizeAddress(text string) string {
	for _, rule := range addressCascade {
		text = rule.apply(text)
	}
	return strings.TrimSpace(text)
}

// localityPattern takes the shortest 1-3 character prefix ending in a
// county/city suffix character.
var localityPattern = regexp.MustCompile(`^\p{Han}{1,3}?[縣市]`)

// ExtractLocality returns the county/city prefix of a normalized address, or
// "" when the address does not start with one. Absence is not an error.
func ExtractLocality(address string) string {
	return localityPattern.FindString(address)
}
