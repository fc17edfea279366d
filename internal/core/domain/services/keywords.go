package services

import "strings"

// restrictedKeywords mark services no discount applies to: ironing, washing and textile dyeing.
var restrictedKeywords = []string{
	"прасув",
	"прання",
	"фарбув",
	"ironing",
	"washing",
	"laundry",
	"dyeing",
}

// leatherKeywords mark categories that need the 14-day processing minimum.
var leatherKeywords = []string{
	"шкір",
	"хутр",
	"замш",
	"дублянк",
	"leather",
	"fur",
	"suede",
	"sheepskin",
}

// matchesAny reports whether any of the lowercased texts contains any keyword.
func matchesAny(texts []string, keywords []string) bool {
	for _, text := range texts {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}
