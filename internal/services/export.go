package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

const (
	gradebookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	marksSheet    = "Marks"
	absencesSheet = "Absences"
)

var (
	marksHeader    = []interface{}{"Student code", "Last name", "First name", "Marks", "Average", "Absences", "Unexcused"}
	absencesHeader = []interface{}{"Student code", "Last name", "First name", "Date", "Motivated", "Description"}
)

// renderGradebook writes the roster as a two-sheet workbook.
func renderGradebook(roster *models.ClassRosterResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", marksSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(absencesSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, marksSheet, 1, marksHeader); err != nil {
		return nil, err
	}
	if err := writeRow(f, absencesSheet, 1, absencesHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(marksSheet, "A1", "G1", header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(absencesSheet, "A1", "F1", header); err != nil {
		return nil, err
	}

	absenceRow := 2
	for i, entry := range roster.Students {
		unexcused := 0
		for _, a := range entry.Absences {
			if !a.IsMotivated {
				unexcused++
			}
			row := []interface{}{entry.Code, entry.LastName, entry.FirstName, a.Date.Format(validator.DateLayout), yesNo(a.IsMotivated), deref(a.Description)}
			if err := writeRow(f, absencesSheet, absenceRow, row); err != nil {
				return nil, err
			}
			absenceRow++
		}

		var avg interface{} = ""
		if entry.Average != nil {
			avg = *entry.Average
		}
		row := []interface{}{entry.Code, entry.LastName, entry.FirstName, joinMarks(entry.Marks), avg, len(entry.Absences), unexcused}
		if err := writeRow(f, marksSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(marksSheet, "A", "C", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(marksSheet, "D", "D", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(absencesSheet, "A", "F", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func joinMarks(marks []*models.Mark) string {
	parts := make([]string, 0, len(marks))
	for _, m := range marks {
		parts = append(parts, strconv.FormatFloat(m.Value, 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}

func gradebookFileName(roster *models.ClassRosterResponse, now time.Time) string {
	name := strings.Join(strings.Fields(roster.ClassName+" "+roster.SubjectName), "_")
	if name == "" {
		name = roster.ClassID
	}
	return fmt.Sprintf("gradebook_%s_%s.xlsx", name, now.Format("20060102"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
