// ABOUTME: Decodes a previously-exported workbook back into collections.
// ABOUTME: Header-name column mapping; missing IDs regenerate, missing sheets fail.
package excel

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/harperreed/weighin/internal/models"
)

// FormatError reports an import file that does not match the expected
// workbook layout. Nothing is committed when it is returned.
type FormatError struct {
	msg string
}

func (e *FormatError) Error() string {
	return "import format: " + e.msg
}

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

// Result holds the decoded collections.
type Result struct {
	Profiles []models.Profile
	Weights  []models.WeightEntry
}

// Accepted besides our own ISO output: files written by the predecessor
// tool used locale date strings.
var importDateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
}

// Import parses the Profiles and Weight History sheets by exact name.
// Other sheets (Leaderboard included) are ignored. Rows without an ID
// get a fresh locally-issued one. A weight row referencing an unknown
// profile is kept as-is; orphan cleanup is not import's job.
func Import(data []byte) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, formatErrorf("not a readable workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{SheetProfiles, SheetWeights} {
		idx, err := f.GetSheetIndex(sheet)
		if err != nil {
			return nil, formatErrorf("lookup sheet %q: %v", sheet, err)
		}
		if idx == -1 {
			return nil, formatErrorf("required sheet %q not found", sheet)
		}
	}

	profiles, err := importProfiles(f)
	if err != nil {
		return nil, err
	}
	weights, err := importWeights(f)
	if err != nil {
		return nil, err
	}
	return &Result{Profiles: profiles, Weights: weights}, nil
}

func importProfiles(f *excelize.File) ([]models.Profile, error) {
	rows, err := f.GetRows(SheetProfiles)
	if err != nil {
		return nil, formatErrorf("read %s: %v", SheetProfiles, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols, err := headerIndex(SheetProfiles, rows[0], "Name", "Baseline Weight (kg)", "Goal Weight (kg)")
	if err != nil {
		return nil, err
	}

	var profiles []models.Profile
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNum := i + 2

		baseline, err := parseFloatCell(cell(row, cols["Baseline Weight (kg)"]))
		if err != nil {
			return nil, formatErrorf("%s row %d: baseline weight: %v", SheetProfiles, rowNum, err)
		}
		goal, err := parseFloatCell(cell(row, cols["Goal Weight (kg)"]))
		if err != nil {
			return nil, formatErrorf("%s row %d: goal weight: %v", SheetProfiles, rowNum, err)
		}
		created, err := parseDateCell(cell(row, cols["Created At"]))
		if err != nil {
			return nil, formatErrorf("%s row %d: created at: %v", SheetProfiles, rowNum, err)
		}

		id := cell(row, cols["ID"])
		if id == "" {
			id = models.NewLocalID()
		}

		profiles = append(profiles, models.Profile{
			ID:             id,
			Name:           strings.TrimSpace(cell(row, cols["Name"])),
			BaselineWeight: baseline,
			GoalWeight:     goal,
			CreatedAt:      created,
		})
	}
	return profiles, nil
}

func importWeights(f *excelize.File) ([]models.WeightEntry, error) {
	rows, err := f.GetRows(SheetWeights)
	if err != nil {
		return nil, formatErrorf("read %s: %v", SheetWeights, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols, err := headerIndex(SheetWeights, rows[0], "Profile ID", "Weight (kg)")
	if err != nil {
		return nil, err
	}

	var weights []models.WeightEntry
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNum := i + 2

		weight, err := parseFloatCell(cell(row, cols["Weight (kg)"]))
		if err != nil {
			return nil, formatErrorf("%s row %d: weight: %v", SheetWeights, rowNum, err)
		}
		recorded, err := parseDateCell(cell(row, cols["Recorded At"]))
		if err != nil {
			return nil, formatErrorf("%s row %d: recorded at: %v", SheetWeights, rowNum, err)
		}

		id := cell(row, cols["ID"])
		if id == "" {
			id = models.NewLocalID()
		}

		weights = append(weights, models.WeightEntry{
			ID:            id,
			ProfileID:     cell(row, cols["Profile ID"]),
			CurrentWeight: weight,
			RecordedAt:    recorded,
		})
	}
	return weights, nil
}

// headerIndex maps header names to column positions. Only the listed
// columns are required; the rest (ID, date columns) are optional and
// resolve to -1 when absent.
func headerIndex(sheet string, header []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int)
	for _, name := range []string{"ID", "Name", "Profile ID", "Profile Name", "Baseline Weight (kg)", "Goal Weight (kg)", "Weight (kg)", "Created At", "Recorded At"} {
		cols[name] = -1
	}
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, name := range required {
		if cols[name] == -1 {
			return nil, formatErrorf("%s: required column %q not found", sheet, name)
		}
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseFloatCell(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	// tolerate comma decimal separators
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

// parseDateCell re-parses a date display string. An empty cell falls
// back to now rather than failing, mirroring ID regeneration.
func parseDateCell(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}
