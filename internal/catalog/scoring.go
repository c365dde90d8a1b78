package catalog

import (
	"math"
	"strings"
	"unicode"

	"github.com/kdbplan/kdbplan/internal/domain"
)

const (
	// Scoring weights
	ScoreExactCode      = 200.0
	ScoreCodePrefix     = 100.0
	ScoreExactName      = 100.0
	ScoreNamePrefix     = 75.0
	ScoreSubstringMatch = 50.0
	ScoreWordMatch      = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Short names get a small boost, like short hostnames did
	ScoreLengthBonus = 5.0
)

// Query is a normalized keyword search
type Query struct {
	Raw   string
	Text  string   // lowercased, whitespace collapsed
	Words []string // Text split on whitespace
}

// ParseQuery normalizes a raw keyword
func ParseQuery(raw string) *Query {
	words := strings.FieldsFunc(strings.ToLower(raw), unicode.IsSpace)
	return &Query{
		Raw:   raw,
		Text:  strings.Join(words, " "),
		Words: words,
	}
}

// Empty reports whether the query matches everything
func (q *Query) Empty() bool {
	return q == nil || len(q.Words) == 0
}

// Score calculates how well a course matches a query. Zero means no match.
func Score(q *Query, c *domain.Course) float64 {
	if q.Empty() || c == nil {
		return 0.0
	}

	code := strings.ToLower(c.Code)
	name := strings.ToLower(c.Name)

	// Course numbers are typed verbatim; a code hit outranks any name hit.
	if len(q.Words) == 1 {
		switch {
		case q.Text == code:
			return ScoreExactCode
		case strings.HasPrefix(code, q.Text):
			return ScoreCodePrefix + lengthRatioBonus(q.Text, code)
		}
	}

	if q.Text == name {
		return ScoreExactName + ScoreLengthBonus
	}

	var total float64
	if strings.HasPrefix(name, q.Text) {
		total = ScoreNamePrefix + calculatePositionBonus(0)
	} else if i := strings.Index(name, q.Text); i >= 0 {
		// Earlier substring matches get higher score
		total = ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(i)/float64(len(name)))
	}

	if total == 0 && len(q.Words) > 1 {
		total = scoreWords(q.Words, name)
	}

	if total > 0 && len([]rune(c.Name)) < 10 {
		total += ScoreLengthBonus
	}
	return total
}

// scoreWords requires every word to occur in the name
func scoreWords(words []string, name string) float64 {
	var total float64
	for i, w := range words {
		if !strings.Contains(name, w) {
			return 0.0
		}
		total += ScoreWordMatch/float64(len(words)) + calculatePositionBonus(i)/float64(len(words))
	}
	return total
}

// calculatePositionBonus gives bonus for earlier positions
func calculatePositionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// lengthRatioBonus favours prefixes that cover more of the code
func lengthRatioBonus(prefix, full string) float64 {
	if len(full) == 0 {
		return 0
	}
	return ScorePositionBonus * float64(len(prefix)) / float64(len(full))
}
