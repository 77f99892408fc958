package candidate

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func populatedView() View {
	return View{
		ID:                 "a1",
		Name:               "Ada Lovelace",
		Email:              "ada@example.com",
		Phone:              "+44 20 7946 0000",
		Strengths:          []string{"Analytical"},
		Gaps:               []string{"Kubernetes"},
		ResumeContent:      "resume",
		CoverLetterContent: "cover",
		Scores:             Scores{JobMatch: 80, Experience: 70, Skills: 75, Culture: 60, Education: 90, Achievements: 65, Overall: 74},
	}
}

func TestDetectGaps_PhoneAndStrengthsMissing(t *testing.T) {
	v := populatedView()
	v.Phone = ""
	v.Strengths = []string{}

	got := DetectGaps(v)
	want := Gaps{Phone: true, Strengths: true}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if !got.Any() {
		t.Fatalf("expected Any() true")
	}
}

func TestDetectGaps_AllZeroScores(t *testing.T) {
	v := populatedView()
	v.Scores = Scores{Overall: 12}

	got := DetectGaps(v)
	if !got.HasZeroScores {
		t.Fatalf("expected hasZeroScores true")
	}
	if got.Phone || got.Strengths || got.Gaps || got.ResumeContent || got.CoverLetter {
		t.Fatalf("expected only hasZeroScores, got %+v", got)
	}
}

func TestDetectGaps_Complete(t *testing.T) {
	got := DetectGaps(populatedView())
	if got.Any() {
		t.Fatalf("expected no gaps, got %+v", got)
	}
	if len(got.Labels()) != 0 {
		t.Fatalf("expected no labels, got %v", got.Labels())
	}
}

func TestFromRecord_DegradesMalformedColumns(t *testing.T) {
	v := FromRecord(Record{
		ID:           "x",
		Status:       Status("bogus"),
		Strengths:    []byte(`not json`),
		Gaps:         []byte(`null`),
		SkillsDetail: []byte(`"{\"Go\": 80, \"Rust\": \"Not found\"}"`),
	})

	if v.Status != StatusApplied {
		t.Fatalf("expected unknown status to degrade to applied, got %q", v.Status)
	}
	if v.Strengths == nil || len(v.Strengths) != 0 {
		t.Fatalf("expected empty strengths, got %#v", v.Strengths)
	}
	if !v.DataGaps.Strengths || !v.DataGaps.Gaps || !v.DataGaps.HasZeroScores {
		t.Fatalf("unexpected gaps: %+v", v.DataGaps)
	}
	if lvl := v.SkillsDetail["Go"]; !lvl.Found || lvl.Level != 80 {
		t.Fatalf("expected Go=80, got %+v", lvl)
	}
	if lvl := v.SkillsDetail["Rust"]; lvl.Found {
		t.Fatalf("expected Rust not found, got %+v", lvl)
	}
	if v.ScoreLabel != "0%" || v.ScoreColor != ColorRed {
		t.Fatalf("unexpected display values: %q %q", v.ScoreLabel, v.ScoreColor)
	}
}

func TestSkillLevel_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(map[string]SkillLevel{"Go": {Level: 85, Found: true}, "Elm": {}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(b) != `{"Elm":"Not found","Go":85}` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestRank_StableTies(t *testing.T) {
	in := []View{
		{ID: "A", Scores: Scores{Overall: 50}},
		{ID: "B", Scores: Scores{Overall: 90}},
		{ID: "C", Scores: Scores{Overall: 90}},
		{ID: "D", Scores: Scores{Overall: 10}},
	}

	got := Rank(in)
	ids := make([]string, 0, len(got))
	for _, v := range got {
		ids = append(ids, v.ID)
	}
	if !reflect.DeepEqual(ids, []string{"B", "C", "A", "D"}) {
		t.Fatalf("unexpected order: %v", ids)
	}
	if in[0].ID != "A" {
		t.Fatalf("expected input untouched")
	}
}

func TestTop(t *testing.T) {
	in := []View{
		{ID: "A", Scores: Scores{Overall: 10}},
		{ID: "B", Scores: Scores{Overall: 30}},
	}
	if got := Top(in, 3); len(got) != 2 || got[0].ID != "B" {
		t.Fatalf("unexpected top: %+v", got)
	}
	if got := Top(in, -1); len(got) != 0 {
		t.Fatalf("expected empty top, got %d", len(got))
	}
}

func TestMask(t *testing.T) {
	orig := populatedView()

	masked := Mask(orig, true)
	if masked.Name != "Candidate a1" {
		t.Fatalf("unexpected masked name %q", masked.Name)
	}
	if masked.Email != MaskedEmail {
		t.Fatalf("unexpected masked email %q", masked.Email)
	}
	if masked.Phone != orig.Phone || masked.Scores != orig.Scores {
		t.Fatalf("expected other fields untouched")
	}
	if orig.Name != "Ada Lovelace" || orig.Email != "ada@example.com" {
		t.Fatalf("expected original not mutated")
	}

	plain := Mask(orig, false)
	if plain.Name != orig.Name || plain.Email != orig.Email || plain.Masked {
		t.Fatalf("expected unmasked projection identical to original")
	}
}

func TestFilter(t *testing.T) {
	in := []View{
		{ID: "1", Name: "Grace Hopper", Email: "grace@navy.mil", Status: StatusApplied},
		{ID: "2", Name: "Alan Turing", Email: "alan@bletchley.uk", Status: StatusShortlisted},
		{ID: "3", Name: "Katherine Johnson", Email: "kj@NASA.gov", Status: StatusShortlisted},
	}

	if got := Filter(in, "nasa", ""); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("expected email match, got %+v", got)
	}
	if got := Filter(in, "", StatusShortlisted); len(got) != 2 {
		t.Fatalf("expected 2 shortlisted, got %d", len(got))
	}
	if got := Filter(in, "GRACE", StatusShortlisted); len(got) != 0 {
		t.Fatalf("expected no match, got %d", len(got))
	}
}

func TestAverageOverallSkipsUnscored(t *testing.T) {
	in := []View{
		{Scores: Scores{Overall: 80}},
		{Scores: Scores{Overall: 0}},
		{Scores: Scores{Overall: 60}},
	}
	if got := AverageOverall(in); got != 70 {
		t.Fatalf("expected 70, got %v", got)
	}
	if got := AverageOverall(nil); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestScoreColorAndFormat(t *testing.T) {
	cases := []struct {
		score float64
		color Color
		label string
	}{
		{score: 80, color: ColorGreen, label: "80%"},
		{score: 79.5, color: ColorYellow, label: "80%"},
		{score: 60, color: ColorYellow, label: "60%"},
		{score: 59.4, color: ColorRed, label: "59%"},
		{score: 150, color: ColorGreen, label: "150%"},
		{score: 82.5, color: ColorGreen, label: "83%"},
		{score: -10.5, color: ColorRed, label: "-10%"},
	}
	for _, tc := range cases {
		if got := ScoreColor(tc.score); got != tc.color {
			t.Fatalf("score %v: expected %s, got %s", tc.score, tc.color, got)
		}
		if got := FormatScore(tc.score); got != tc.label {
			t.Fatalf("score %v: expected %s, got %s", tc.score, tc.label, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Interview ")
	if err != nil || st != StatusInterview {
		t.Fatalf("expected interview, got %q err=%v", st, err)
	}
	if _, err := ParseStatus("hired"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestPermissivePipelineAllowsAnyMove(t *testing.T) {
	p := PermissivePipeline()
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			if err := p.Transition(from, to); err != nil {
				t.Fatalf("expected %s -> %s allowed, got %v", from, to, err)
			}
		}
	}
	if err := p.Transition(StatusApplied, Status("hired")); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestStrictPipeline(t *testing.T) {
	p := StrictPipeline()
	if err := p.Transition(StatusApplied, StatusOffer); !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected ErrTransitionNotAllowed, got %v", err)
	}
	if err := p.Transition(StatusRejected, StatusApplied); !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected rejected to be terminal, got %v", err)
	}
	if err := p.Transition(StatusInterview, StatusRejected); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestToggleShortlist(t *testing.T) {
	if got := ToggleShortlist(StatusApplied); got != StatusShortlisted {
		t.Fatalf("expected shortlisted, got %s", got)
	}
	if got := ToggleShortlist(StatusShortlisted); got != StatusApplied {
		t.Fatalf("expected applied, got %s", got)
	}

	got, err := PermissivePipeline().ToggleShortlist(StatusOffer)
	if err != nil || got != StatusShortlisted {
		t.Fatalf("expected unguarded toggle, got %s err=%v", got, err)
	}

	_, err = StrictPipeline().ToggleShortlist(StatusOffer)
	if !errors.Is(err, ErrToggleNotAllowed) {
		t.Fatalf("expected ErrToggleNotAllowed, got %v", err)
	}
}
