package candidate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NormalizeScores picks one canonical score record out of the two storage
// shapes. A composite with a positive overall wins verbatim. Otherwise the
// discrete columns are parsed, provided at least overall or jobmatch carries
// something; a record with neither keeps whatever the composite holds.
//
// Values are coerced, never corrected: 150 and -10 pass through unchanged
// and anything unparsable becomes 0.
func NormalizeScores(composite []byte, discrete DiscreteScores) Scores {
	comp, hasComposite := decodeComposite(composite)
	if hasComposite && comp.Overall > 0 {
		return comp
	}

	if strings.TrimSpace(discrete.Overall) != "" || strings.TrimSpace(discrete.JobMatch) != "" {
		return Scores{
			JobMatch:     parseNumber(discrete.JobMatch),
			Experience:   parseNumber(discrete.Experience),
			Skills:       parseNumber(discrete.Skills),
			Culture:      parseNumber(discrete.Culture),
			Education:    parseNumber(discrete.Education),
			Achievements: parseNumber(discrete.Achievements),
			Overall:      parseNumber(discrete.Overall),
		}
	}

	return comp
}

func decodeComposite(raw []byte) (Scores, bool) {
	if len(raw) == 0 {
		return Scores{}, false
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return Scores{}, false
	}

	return Scores{
		JobMatch:     toNumber(m["jobMatch"]),
		Experience:   toNumber(m["experience"]),
		Skills:       toNumber(m["skills"]),
		Culture:      toNumber(m["culture"]),
		Education:    toNumber(m["education"]),
		Achievements: toNumber(m["achievements"]),
		Overall:      toNumber(m["overall"]),
	}, true
}

func toNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return finite(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	case string:
		return parseNumber(x)
	default:
		return 0
	}
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

// NaN and Inf would poison sorting and averages.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// SubScores returns the six criterion scores, without overall.
func (s Scores) SubScores() [6]float64 {
	return [6]float64{s.JobMatch, s.Experience, s.Skills, s.Culture, s.Education, s.Achievements}
}
