package candidate

import (
	"cmp"
	"slices"
	"strings"
)

// Rank orders candidates by overall score, highest first. Ties keep their
// fetch order, so identical input always renders identically.
func Rank(views []View) []View {
	out := slices.Clone(views)
	slices.SortStableFunc(out, func(a, b View) int {
		return cmp.Compare(b.Scores.Overall, a.Scores.Overall)
	})
	return out
}

func Top(views []View, n int) []View {
	ranked := Rank(views)
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Filter keeps candidates whose name or email contains query
// (case-insensitive) and, when status is set, whose status matches.
func Filter(views []View, query string, status Status) []View {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]View, 0, len(views))
	for _, v := range views {
		if status != "" && v.Status != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(v.Name), q) &&
			!strings.Contains(strings.ToLower(v.Email), q) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// AverageOverall averages the overall score of scored candidates only;
// a zero overall means scoring has not run.
func AverageOverall(views []View) float64 {
	var sum float64
	var n int
	for _, v := range views {
		if v.Scores.Overall <= 0 {
			continue
		}
		sum += v.Scores.Overall
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func CountByStatus(views []View) map[Status]int {
	out := make(map[Status]int, 5)
	for _, st := range Statuses() {
		out[st] = 0
	}
	for _, v := range views {
		out[v.Status]++
	}
	return out
}
