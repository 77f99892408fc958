package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/domain/job"
	"recruit-dash/internal/domain/report"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Candidates"
)

// Input is everything a report workbook is rendered from. Candidates are
// expected ranked and, for bias-free reports, already masked.
type Input struct {
	Type        report.Type
	Job         job.Job
	Candidates  []candidate.View
	GeneratedBy string
	GeneratedAt time.Time
}

type column struct {
	header string
	width  float64
	value  func(rank int, v candidate.View) any
	score  bool
}

// Workbook renders the report as an XLSX document.
func Workbook(in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return nil, err
	}

	if err := writeSummary(f, in); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeCandidates(f, columnsFor(in.Type), in.Candidates); err != nil {
		return nil, fmt.Errorf("candidates sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Title is the human name of a report for a job.
func Title(t report.Type, jobTitle string) string {
	var kind string
	switch t {
	case report.TypeShortlist:
		kind = "Shortlist"
	case report.TypeInterviewPack:
		kind = "Interview Pack"
	case report.TypeBiasFreeComparison:
		kind = "Bias-Free Comparison"
	default:
		kind = "Report"
	}
	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" {
		return kind
	}
	return jobTitle + " " + kind
}

func writeSummary(f *excelize.File, in Input) error {
	sheet := SummarySheet
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 48); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, "A1", Title(in.Type, in.Job.Title)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", "B1"); err != nil {
		return err
	}

	generated := in.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}

	shortlisted := candidate.CountByStatus(in.Candidates)[candidate.StatusShortlisted]
	rows := [][2]any{
		{"Job Title:", in.Job.Title},
		{"Hiring Manager:", in.Job.HiringManager},
		{"Job Status:", string(in.Job.Status)},
		{"Report Type:", string(in.Type)},
		{"Generated:", generated.Format("2006-01-02 15:04:05")},
		{"Generated By:", in.GeneratedBy},
		{"Candidates:", len(in.Candidates)},
		{"Shortlisted:", shortlisted},
		{"Average Score:", candidate.FormatScore(candidate.AverageOverall(in.Candidates))},
	}
	if in.Type == report.TypeInterviewPack && in.Job.InterviewPackURL != "" {
		rows = append(rows, [2]any{"Interview Pack:", in.Job.InterviewPackURL})
	}

	for i, r := range rows {
		row := i + 3
		label := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(sheet, label, r[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, label, label, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeCandidates(f *excelize.File, cols []column, views []candidate.View) error {
	sheet := CandidatesSheet

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"305496"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return err
	}
	bands := map[candidate.Color]int{}
	for color, fill := range map[candidate.Color]string{
		candidate.ColorGreen:  "C6EFCE",
		candidate.ColorYellow: "FFEB9C",
		candidate.ColorRed:    "FFC7CE",
	} {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return err
		}
		bands[color] = id
	}

	for i, col := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return err
		}
		cell := name + "1"
		if err := f.SetCellValue(sheet, cell, col.header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, v := range views {
		row := r + 2
		for i, col := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, col.value(r+1, v)); err != nil {
				return err
			}
			if col.score {
				if err := f.SetCellStyle(sheet, cell, cell, bands[v.ScoreColor]); err != nil {
					return err
				}
			}
		}
	}

	if len(views) > 0 {
		return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}
	return nil
}

func columnsFor(t report.Type) []column {
	rank := column{header: "Rank", width: 8, value: func(rank int, _ candidate.View) any { return rank }}
	name := column{header: "Name", width: 28, value: func(_ int, v candidate.View) any { return v.Name }}
	email := column{header: "Email", width: 30, value: func(_ int, v candidate.View) any { return v.Email }}
	status := column{header: "Status", width: 14, value: func(_ int, v candidate.View) any { return string(v.Status) }}
	overall := column{header: "Overall", width: 10, score: true, value: func(_ int, v candidate.View) any { return v.ScoreLabel }}
	gaps := column{header: "Data Gaps", width: 36, value: func(_ int, v candidate.View) any {
		return strings.Join(v.DataGaps.Labels(), ", ")
	}}

	subs := []column{
		{header: "Job Match", width: 11, value: func(_ int, v candidate.View) any { return v.Scores.JobMatch }},
		{header: "Experience", width: 11, value: func(_ int, v candidate.View) any { return v.Scores.Experience }},
		{header: "Skills", width: 11, value: func(_ int, v candidate.View) any { return v.Scores.Skills }},
		{header: "Culture", width: 11, value: func(_ int, v candidate.View) any { return v.Scores.Culture }},
		{header: "Education", width: 11, value: func(_ int, v candidate.View) any { return v.Scores.Education }},
		{header: "Achievements", width: 13, value: func(_ int, v candidate.View) any { return v.Scores.Achievements }},
	}

	switch t {
	case report.TypeInterviewPack:
		return []column{
			name, email,
			{header: "Phone", width: 18, value: func(_ int, v candidate.View) any { return v.Phone }},
			status,
			{header: "Interview Time", width: 20, value: func(_ int, v candidate.View) any {
				if v.InterviewTime == nil {
					return ""
				}
				return v.InterviewTime.UTC().Format("2006-01-02 15:04 MST")
			}},
			{header: "Interview Link", width: 40, value: func(_ int, v candidate.View) any { return v.InterviewLink }},
			overall,
		}
	case report.TypeBiasFreeComparison:
		cols := []column{rank, {header: "Candidate", width: 24, value: func(_ int, v candidate.View) any { return v.Name }}, overall}
		cols = append(cols, subs...)
		return append(cols,
			column{header: "Strengths", width: 40, value: func(_ int, v candidate.View) any { return strings.Join(v.Strengths, "; ") }},
			column{header: "Gaps", width: 40, value: func(_ int, v candidate.View) any { return strings.Join(v.Gaps, "; ") }},
		)
	default:
		cols := []column{rank, name, email, status, overall}
		cols = append(cols, subs...)
		return append(cols, gaps)
	}
}
