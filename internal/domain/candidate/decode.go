package candidate

import (
	"encoding/json"
	"strconv"
	"strings"
)

const NotFoundLevel = "Not found"

// SkillLevel is either a numeric proficiency or the "Not found" sentinel.
type SkillLevel struct {
	Level float64
	Found bool
}

func (s SkillLevel) MarshalJSON() ([]byte, error) {
	if !s.Found {
		return json.Marshal(NotFoundLevel)
	}
	return json.Marshal(s.Level)
}

func (s *SkillLevel) UnmarshalJSON(b []byte) error {
	*s = parseSkillLevel(b)
	return nil
}

func parseSkillLevel(b []byte) SkillLevel {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return SkillLevel{Level: finite(f), Found: true}
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		str = strings.TrimSpace(str)
		if strings.EqualFold(str, NotFoundLevel) || str == "" {
			return SkillLevel{}
		}
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			return SkillLevel{Level: finite(v), Found: true}
		}
	}
	return SkillLevel{}
}

// DecodeList reads a JSON string array column. Null, malformed or non-array
// content yields an empty, non-nil slice.
func DecodeList(raw []byte) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// DecodeSkills reads the skills_detail column. The workflow sometimes stores
// it as a JSON-encoded string, so one level of string wrapping is unwrapped.
func DecodeSkills(raw []byte) map[string]SkillLevel {
	out := map[string]SkillLevel{}
	if len(raw) == 0 {
		return out
	}

	var wrapped string
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		raw = []byte(wrapped)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return out
	}
	for k, v := range m {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[k] = parseSkillLevel(v)
	}
	return out
}
