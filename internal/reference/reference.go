// Package reference extracts informal sub-recipe reference labels from
// ingredient text. A reference is the remainder of a field after the
// case-insensitive whole-word marker token (e.g. "10 PTN Pickled Red Onion"
// yields "Pickled Red Onion" for marker "PTN").
package reference

import (
	"regexp"
	"strings"

	"github.com/starford/larder/internal/models"
)

// DefaultMarker is the conventional portion marker used in ingredient text.
const DefaultMarker = "PTN"

// Extractor recognises reference labels for one marker token.
type Extractor struct {
	re *regexp.Regexp
}

// New compiles an Extractor for the given marker. An empty marker falls back
// to DefaultMarker.
func New(marker string) *Extractor {
	if marker == "" {
		marker = DefaultMarker
	}
	// Whole-word, case-insensitive marker followed by whitespace and a
	// non-empty remainder.
	re := regexp.MustCompile(`(?i)(?:^|[^0-9A-Za-z])` + regexp.QuoteMeta(marker) + `\s+(\S.*)`)
	return &Extractor{re: re}
}

// FromField extracts the reference label from one ingredient field.
// It returns false when the field carries no marker or nothing follows it.
func (e *Extractor) FromField(s string) (string, bool) {
	m := e.re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	label := strings.TrimSpace(m[1])
	if label == "" {
		return "", false
	}
	return label, true
}

// Labels returns the deduplicated reference labels of a recipe, scanning the
// item and text fields of every ingredient line. First-seen order is kept.
func (e *Extractor) Labels(r models.Recipe) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(field string) {
		label, ok := e.FromField(field)
		if !ok {
			return
		}
		if _, dup := seen[label]; dup {
			return
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	for _, ing := range r.Ingredients {
		add(ing.Item)
		add(ing.Text)
	}
	return out
}
