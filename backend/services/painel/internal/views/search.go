package views

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"painelans/backend/services/painel/internal/models"
)

const maxDistanceRatio = 0.4

// filterOperadoras keeps operators whose razão social or CNPJ matches query.
func filterOperadoras(list []models.Operadora, query string) []models.Operadora {
	query = strings.ToUpper(strings.TrimSpace(query))
	if query == "" {
		return list
	}
	out := make([]models.Operadora, 0, len(list))
	for _, o := range list {
		if matches(o, query) {
			out = append(out, o)
		}
	}
	return out
}

func matches(o models.Operadora, query string) bool {
	name := strings.ToUpper(o.RazaoSocial)
	if strings.Contains(name, query) || strings.Contains(o.CNPJ, query) {
		return true
	}
	if closeEnough(name, query) {
		return true
	}
	for _, word := range strings.Fields(name) {
		if closeEnough(word, query) {
			return true
		}
	}
	return false
}

func closeEnough(a, b string) bool {
	maxlen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxlen {
		maxlen = n
	}
	if maxlen == 0 {
		return false
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(dist)/float64(maxlen) < maxDistanceRatio
}
