package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeShortlist          Type = "shortlist"
	TypeInterviewPack      Type = "interview-pack"
	TypeBiasFreeComparison Type = "bias-free-comparison"
)

var ErrUnknownType = errors.New("unknown report type")

func Types() []Type {
	return []Type{TypeShortlist, TypeInterviewPack, TypeBiasFreeComparison}
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeShortlist, TypeInterviewPack, TypeBiasFreeComparison:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Report is the metadata of a generated workbook. Content is only loaded
// on download.
type Report struct {
	ID        uuid.UUID `json:"id"`
	JobID     string    `json:"job_id"`
	Name      string    `json:"name"`
	JobTitle  string    `json:"job_title"`
	Type      Type      `json:"type"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url"`
}

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename is the attachment name offered on download.
func (r Report) Filename() string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = r.ID.String()
	}
	name = strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			return c
		case c == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
	return name + ".xlsx"
}
