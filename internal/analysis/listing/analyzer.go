package listing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/MIGUELNINOSILVA/makers/internal/model/chat"
)

// The agent writes product listings as markdown-ish prose. These patterns
// are a best-effort grammar over that convention, not a parser: text that
// drifts from the convention degrades to partial or empty fields.
var (
	productPattern  = regexp.MustCompile(`(?i)(\d+)\.\s\*\*(.*?)\*\*\s*-\s\*\*Descripción\*\*:\s*(.*?)\.\s*-\s\*\*Precio\*\*:\s*\$([\d,]+\.?\d*)\s*-\s\*\*Stock\*\*:\s*(\d+)\s*unidades?\s*disponibles?`)
	categoryPattern = regexp.MustCompile(`###\s*(.*?):`)
	outroPattern    = regexp.MustCompile(`(?s)¿.*?😊`)
	emphasisMarks   = strings.NewReplacer("#", "", "*", "")
)

// IsListing reports whether raw carries the three field markers that make
// a reply eligible for structured extraction.
func IsListing(raw string) bool {
	return strings.Contains(raw, "**Descripción**") &&
		strings.Contains(raw, "**Precio**") &&
		strings.Contains(raw, "**Stock**")
}

// Extract parses a list-shaped agent reply into its structured form.
// The second return value is false when raw is not list-shaped; the caller
// should then relay the text untouched. Extract never fails on malformed
// input and performs no I/O.
func Extract(raw string) (chat.FormattedReply, bool) {
	if !IsListing(raw) {
		return chat.FormattedReply{}, false
	}

	return chat.FormattedReply{
		Type:       "formatted_response",
		Intro:      extractIntro(raw),
		Categories: extractCategories(raw),
		Products:   extractProducts(raw),
		Outro:      outroPattern.FindString(raw),
		RawMessage: raw,
	}, true
}

func extractProducts(raw string) []chat.ProductExtract {
	matches := productPattern.FindAllStringSubmatch(raw, -1)
	products := make([]chat.ProductExtract, 0, len(matches))
	for _, m := range matches {
		ordinal, _ := strconv.Atoi(m[1])
		stock, _ := strconv.Atoi(m[5])
		price, _ := strconv.ParseFloat(strings.ReplaceAll(m[4], ",", ""), 64)
		products = append(products, chat.ProductExtract{
			ID:          ordinal,
			Name:        m[2],
			Description: m[3],
			Price:       price,
			Stock:       stock,
		})
	}
	return products
}

func extractCategories(raw string) []string {
	matches := categoryPattern.FindAllStringSubmatch(raw, -1)
	categories := make([]string, 0, len(matches))
	for _, m := range matches {
		categories = append(categories, m[1])
	}
	return categories
}

func extractIntro(raw string) string {
	intro := raw
	if idx := strings.Index(raw, "###"); idx >= 0 {
		intro = raw[:idx]
	}
	return emphasisMarks.Replace(strings.TrimSpace(intro))
}
