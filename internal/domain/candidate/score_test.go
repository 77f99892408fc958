package candidate

import "testing"

func TestNormalizeScores_ZeroCompositeFallsBackToDiscrete(t *testing.T) {
	got := NormalizeScores([]byte(`{"overall":0,"jobMatch":40}`), DiscreteScores{Overall: "75", JobMatch: "70"})
	if got.Overall != 75 {
		t.Fatalf("expected overall 75, got %v", got.Overall)
	}
	if got.JobMatch != 70 {
		t.Fatalf("expected jobMatch 70, got %v", got.JobMatch)
	}
}

func TestNormalizeScores_PositiveCompositeWins(t *testing.T) {
	composite := []byte(`{"jobMatch":90,"experience":80,"skills":85,"culture":70,"education":60,"achievements":75,"overall":82}`)
	got := NormalizeScores(composite, DiscreteScores{Overall: "10", JobMatch: "10", Skills: "10"})

	want := Scores{JobMatch: 90, Experience: 80, Skills: 85, Culture: 70, Education: 60, Achievements: 75, Overall: 82}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestNormalizeScores_NonNumericDiscreteIsZero(t *testing.T) {
	got := NormalizeScores(nil, DiscreteScores{Overall: "64", Skills: "abc", Culture: ""})
	if got.Skills != 0 {
		t.Fatalf("expected skills 0, got %v", got.Skills)
	}
	if got.Culture != 0 {
		t.Fatalf("expected culture 0, got %v", got.Culture)
	}
	if got.Overall != 64 {
		t.Fatalf("expected overall 64, got %v", got.Overall)
	}
}

func TestNormalizeScores_NoClamping(t *testing.T) {
	got := NormalizeScores(nil, DiscreteScores{Overall: "150", JobMatch: "-10"})
	if got.Overall != 150 || got.JobMatch != -10 {
		t.Fatalf("expected values passed through, got %+v", got)
	}

	got = NormalizeScores([]byte(`{"overall":"120","skills":"-5"}`), DiscreteScores{})
	if got.Overall != 120 || got.Skills != -5 {
		t.Fatalf("expected composite strings coerced, got %+v", got)
	}
}

func TestNormalizeScores_MissingEverythingIsZero(t *testing.T) {
	cases := []struct {
		name      string
		composite []byte
	}{
		{name: "nil", composite: nil},
		{name: "json null", composite: []byte(`null`)},
		{name: "malformed", composite: []byte(`{"overall":`)},
		{name: "not an object", composite: []byte(`[1,2,3]`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeScores(tc.composite, DiscreteScores{Skills: "80"})
			if got != (Scores{}) {
				t.Fatalf("expected zero scores, got %+v", got)
			}
		})
	}
}

func TestNormalizeScores_CompositeKeptWithoutDiscreteOverallOrJobMatch(t *testing.T) {
	got := NormalizeScores([]byte(`{"overall":0,"skills":55,"culture":true}`), DiscreteScores{Experience: "90"})
	if got.Skills != 55 {
		t.Fatalf("expected composite skills 55, got %v", got.Skills)
	}
	if got.Experience != 0 {
		t.Fatalf("expected discrete experience ignored, got %v", got.Experience)
	}
	if got.Culture != 0 {
		t.Fatalf("expected boolean coerced to 0, got %v", got.Culture)
	}
}

func TestNormalizeScores_Idempotent(t *testing.T) {
	composite := []byte(`{"overall":0}`)
	discrete := DiscreteScores{Overall: "71.5", JobMatch: "68"}

	a := NormalizeScores(composite, discrete)
	b := NormalizeScores(composite, discrete)
	if a != b {
		t.Fatalf("expected identical results, got %+v and %+v", a, b)
	}
	if a.Overall != 71.5 {
		t.Fatalf("expected no rounding, got %v", a.Overall)
	}
}
