package candidate

import (
	"math"
	"strconv"
)

const MaskedEmail = "•••••@••••••.com"

// Mask returns the bias-free projection of v. Only Name and Email change;
// the input is never modified, so toggling the flag off restores the
// original by simply not masking.
func Mask(v View, enabled bool) View {
	if !enabled {
		return v
	}
	v.Name = MaskedName(v.ID)
	v.Email = MaskedEmail
	v.Masked = true
	return v
}

func MaskedName(id string) string {
	return "Candidate " + id
}

func MaskAll(views []View, enabled bool) []View {
	out := make([]View, len(views))
	for i, v := range views {
		out[i] = Mask(v, enabled)
	}
	return out
}

type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
)

func ScoreColor(score float64) Color {
	switch {
	case score >= 80:
		return ColorGreen
	case score >= 60:
		return ColorYellow
	default:
		return ColorRed
	}
}

// FormatScore renders a score as a whole percentage, rounding halves up.
func FormatScore(score float64) string {
	return strconv.FormatFloat(math.Floor(score+0.5), 'f', 0, 64) + "%"
}
