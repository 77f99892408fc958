package candidate

// Gaps flags optional candidate data that is absent. HasZeroScores is not a
// profile gap: it means scoring has not run yet, never that the candidate
// scored badly.
type Gaps struct {
	Phone         bool `json:"phone"`
	Strengths     bool `json:"strengths"`
	Gaps          bool `json:"gaps"`
	ResumeContent bool `json:"resumeContent"`
	CoverLetter   bool `json:"coverLetter"`
	HasZeroScores bool `json:"hasZeroScores"`
}

func DetectGaps(v View) Gaps {
	return Gaps{
		Phone:         v.Phone == "",
		Strengths:     len(v.Strengths) == 0,
		Gaps:          len(v.Gaps) == 0,
		ResumeContent: v.ResumeContent == "",
		CoverLetter:   v.CoverLetterContent == "",
		HasZeroScores: allZero(v.Scores),
	}
}

func allZero(s Scores) bool {
	for _, x := range s.SubScores() {
		if x != 0 {
			return false
		}
	}
	return true
}

// Any reports whether a warning list should be shown at all.
func (g Gaps) Any() bool {
	return g.Phone || g.Strengths || g.Gaps || g.ResumeContent || g.CoverLetter || g.HasZeroScores
}

// Labels lists the present gaps in a fixed order, for warning banners and
// exports.
func (g Gaps) Labels() []string {
	out := make([]string, 0, 6)
	if g.HasZeroScores {
		out = append(out, "Scoring not yet completed")
	}
	if g.Phone {
		out = append(out, "Phone not provided")
	}
	if g.Strengths {
		out = append(out, "Strengths not provided")
	}
	if g.Gaps {
		out = append(out, "Gaps not provided")
	}
	if g.ResumeContent {
		out = append(out, "Resume text not provided")
	}
	if g.CoverLetter {
		out = append(out, "Cover letter not provided")
	}
	return out
}
