package service

import (
	"strings"
	"unicode"
)

// regionCodes lists the two-letter codes marketplaces put in lot locations:
// US states, DC and Canadian provinces and territories.
var regionCodes = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
	"DC": {},
	"AB": {}, "BC": {}, "MB": {}, "NB": {}, "NL": {}, "NS": {}, "NT": {}, "NU": {}, "ON": {}, "PE": {},
	"QC": {}, "SK": {}, "YT": {},
}

// ExtractRegion returns the region code of a free-form location. The code is
// looked for where marketplaces put it: in parentheses or as the last word
// ("La Vergne (TN)", "Dallas, TX"), then before the dash ("CA - SACRAMENTO").
// Only then is any known two-letter word accepted. Unknown locations yield "".
func ExtractRegion(location string) string {
	location = strings.TrimSpace(location)

	if open := strings.LastIndex(location, "("); open >= 0 {
		if end := strings.Index(location[open:], ")"); end > 0 {
			if code := regionCode(location[open+1 : open+end]); code != "" {
				return code
			}
		}
	}

	tokens := strings.FieldsFunc(location, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(tokens) > 0 {
		if code := regionCode(tokens[len(tokens)-1]); code != "" {
			return code
		}
	}

	if head, _, found := strings.Cut(location, " - "); found {
		if code := regionCode(head); code != "" {
			return code
		}
	}

	for _, token := range tokens {
		if code := regionCode(token); code != "" {
			return code
		}
	}
	return ""
}

func regionCode(s string) string {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 2 {
		return ""
	}
	if _, ok := regionCodes[code]; ok {
		return code
	}
	return ""
}
