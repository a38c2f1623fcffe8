package shorts

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// FindCompany resolves a user-supplied query against the company directory.
// Exact ticker, NIF and ISIN matches win; otherwise the company whose name is
// most similar to the query is returned, so long as the similarity is strong
// enough to rule out typos for a different company.
func FindCompany(companies []Company, query string) (Company, bool) {
	q := strings.TrimSpace(strings.ToUpper(query))
	if q == "" {
		return Company{}, false
	}

	for _, c := range companies {
		if strings.ToUpper(c.Ticker) == q || strings.ToUpper(c.NIF) == q || strings.ToUpper(c.ISIN) == q {
			return c, true
		}
	}

	var best Company
	var bestSimilarity float64
	for _, c := range companies {
		for _, name := range []string{c.Name, c.FullName} {
			if name == "" {
				continue
			}
			similarity := matchr.JaroWinkler(strings.ToUpper(name), q, false)
			if similarity > bestSimilarity {
				bestSimilarity = similarity
				best = c
			}
		}
	}

	if bestSimilarity < 0.85 {
		return Company{}, false
	}
	return best, true
}
