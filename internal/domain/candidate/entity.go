package candidate

import (
	"time"
)

// Record is an applicant row as stored by the intake workflow. Score data
// may live in the composite JSON object, in the discrete text columns, or
// in neither, depending on how far the external pipeline has progressed.
type Record struct {
	ID       string
	JobID    string
	Name     string
	Email    string
	Phone    string
	Location string

	ResumeURL          string
	CoverLetterURL     string
	ResumeContent      string
	CoverLetterContent string

	Composite []byte
	Discrete  DiscreteScores

	Strengths    []byte
	Gaps         []byte
	SkillsDetail []byte

	Status Status

	InterviewTime      *time.Time
	InterviewLink      string
	ShortlistEmailSent bool
	InterviewBooked    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type DiscreteScores struct {
	JobMatch     string
	Experience   string
	Skills       string
	Culture      string
	Education    string
	Achievements string
	Overall      string
}

type Scores struct {
	JobMatch     float64 `json:"jobMatch"`
	Experience   float64 `json:"experience"`
	Skills       float64 `json:"skills"`
	Culture      float64 `json:"culture"`
	Education    float64 `json:"education"`
	Achievements float64 `json:"achievements"`
	Overall      float64 `json:"overall"`
}

// View is the canonical, display-ready candidate shape every read path
// produces. It is derived from a Record and never written back.
type View struct {
	ID       string `json:"id"`
	JobID    string `json:"job_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`

	ResumeURL          string `json:"resume_url"`
	CoverLetterURL     string `json:"cover_letter_url"`
	ResumeContent      string `json:"resume_content"`
	CoverLetterContent string `json:"cover_letter_content"`

	Scores       Scores                `json:"scores"`
	Strengths    []string              `json:"strengths"`
	Gaps         []string              `json:"gaps"`
	SkillsDetail map[string]SkillLevel `json:"skills_detail"`

	Status Status `json:"status"`

	InterviewTime      *time.Time `json:"interview_time,omitempty"`
	InterviewLink      string     `json:"interview_link"`
	ShortlistEmailSent bool       `json:"shortlist_email_sent"`
	InterviewBooked    bool       `json:"interview_booked"`

	DataGaps   Gaps   `json:"data_gaps"`
	ScoreColor Color  `json:"score_color"`
	ScoreLabel string `json:"score_label"`
	Masked     bool   `json:"masked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromRecord runs the full read-boundary reconciliation: score
// normalization, lenient decoding of list/map columns and gap detection.
func FromRecord(r Record) View {
	v := View{
		ID:                 r.ID,
		JobID:              r.JobID,
		Name:               r.Name,
		Email:              r.Email,
		Phone:              r.Phone,
		Location:           r.Location,
		ResumeURL:          r.ResumeURL,
		CoverLetterURL:     r.CoverLetterURL,
		ResumeContent:      r.ResumeContent,
		CoverLetterContent: r.CoverLetterContent,
		Scores:             NormalizeScores(r.Composite, r.Discrete),
		Strengths:          DecodeList(r.Strengths),
		Gaps:               DecodeList(r.Gaps),
		SkillsDetail:       DecodeSkills(r.SkillsDetail),
		Status:             r.Status,
		InterviewTime:      r.InterviewTime,
		InterviewLink:      r.InterviewLink,
		ShortlistEmailSent: r.ShortlistEmailSent,
		InterviewBooked:    r.InterviewBooked,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if !v.Status.Valid() {
		v.Status = StatusApplied
	}

	v.DataGaps = DetectGaps(v)
	v.ScoreColor = ScoreColor(v.Scores.Overall)
	v.ScoreLabel = FormatScore(v.Scores.Overall)
	return v
}
