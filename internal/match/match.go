// Package match scores reference labels against recipe titles.
//
// The scoring function is pure and shared by two consumers with different
// confidence thresholds: the relation graph builder (edge creation at
// ScoreEdge) and the read-only navigation resolver (ScoreDirect for
// clickable links, ScoreWeak for tentative references).
package match

import (
	"strings"

	"github.com/starford/larder/internal/models"
)

// Confidence thresholds.
const (
	// ScoreEdge is the minimum best-match score that produces a relation
	// graph edge.
	ScoreEdge = 72
	// ScoreDirect is the minimum score for a navigation result safe to
	// expose as a direct link.
	ScoreDirect = 72
	// ScoreWeak is the minimum score for a "found but not confident"
	// navigation result. Below it the label is unresolved.
	ScoreWeak = 60
)

// Normalize lowercases s, collapses every run of non-alphanumeric characters
// to a single space, and trims the result.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Score rates how well label resolves to title. Tiers, first match wins:
//
//	120  exact normalized equality
//	110  title starts with label
//	 95  label starts with title
//	 85  title contains label
//	 78/72/68  token-overlap ratio >= 0.9 / 0.75 / 0.6
//	  0  otherwise, or either side empty after normalization
func Score(label, title string) int {
	l := Normalize(label)
	t := Normalize(title)
	if l == "" || t == "" {
		return 0
	}
	switch {
	case l == t:
		return 120
	case strings.HasPrefix(t, l):
		return 110
	case strings.HasPrefix(l, t):
		return 95
	case strings.Contains(t, l):
		return 85
	}

	labelTokens := strings.Fields(l)
	titleTokens := strings.Fields(t)
	matched := 0
	for _, lt := range labelTokens {
		for _, tt := range titleTokens {
			if strings.HasPrefix(lt, tt) || strings.HasPrefix(tt, lt) {
				matched++
				break
			}
		}
	}
	ratio := float64(matched) / float64(len(labelTokens))
	switch {
	case ratio >= 0.9:
		return 78
	case ratio >= 0.75:
		return 72
	case ratio >= 0.6:
		return 68
	}
	return 0
}

// Result is the outcome of matching one label against a corpus.
type Result struct {
	ID    string
	Title string
	Score int
}

// Best returns the highest-scoring recipe title for label. Ties keep the
// first-seen maximum, so the result is deterministic for a stable corpus
// order. A zero-score Result (empty ID) means nothing matched at all.
func Best(label string, recipes []models.Recipe) Result {
	var best Result
	for _, r := range recipes {
		s := Score(label, r.Title)
		if s > best.Score {
			best = Result{ID: r.ID, Title: r.Title, Score: s}
		}
	}
	return best
}
