// ABOUTME: Multi-sheet xlsx export of profiles, weight history, leaderboard.
// ABOUTME: Sheet names and column headers are a stable interface; import depends on them.
package excel

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/harperreed/weighin/internal/models"
)

// Sheet names recognized by export and import.
const (
	SheetProfiles    = "Profiles"
	SheetWeights     = "Weight History"
	SheetLeaderboard = "Leaderboard"
)

// Dates are written ISO rather than locale-formatted so a round trip
// cannot be scrambled by day/month ambiguity.
const dateLayout = "2006-01-02"

var profileHeaders = []any{"ID", "Name", "Baseline Weight (kg)", "Goal Weight (kg)", "Created At"}
var weightHeaders = []any{"ID", "Profile ID", "Profile Name", "Weight (kg)", "Recorded At"}
var leaderboardHeaders = []any{"Name", "Starting Weight", "Goal Weight", "Current Weight", "Weight Lost", "Progress %", "Last Weigh-in"}

// Filename returns the download name for an export taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("weigh-in-data-%s.xlsx", t.Format(dateLayout))
}

// Export encodes the collections into a three-sheet workbook: the two
// raw collections plus a derived leaderboard sheet. Pure function of
// its arguments; the leaderboard sheet is export-only and ignored by
// import.
func Export(profiles []models.Profile, weights []models.WeightEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetProfiles); err != nil {
		return nil, fmt.Errorf("create %s sheet: %w", SheetProfiles, err)
	}
	if err := writeRows(f, SheetProfiles, profileHeaders, len(profiles), func(i int) []any {
		p := profiles[i]
		return []any{p.ID, p.Name, p.BaselineWeight, p.GoalWeight, p.CreatedAt.Format(dateLayout)}
	}); err != nil {
		return nil, err
	}

	nameByID := make(map[string]string, len(profiles))
	for _, p := range profiles {
		nameByID[p.ID] = p.Name
	}

	sorted := make([]models.WeightEntry, len(weights))
	copy(sorted, weights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.After(sorted[j].RecordedAt)
	})

	if _, err := f.NewSheet(SheetWeights); err != nil {
		return nil, fmt.Errorf("create %s sheet: %w", SheetWeights, err)
	}
	if err := writeRows(f, SheetWeights, weightHeaders, len(sorted), func(i int) []any {
		w := sorted[i]
		name := nameByID[w.ProfileID]
		if name == "" {
			name = "Unknown"
		}
		return []any{w.ID, w.ProfileID, name, w.CurrentWeight, w.RecordedAt.Format(dateLayout)}
	}); err != nil {
		return nil, err
	}

	board := models.DeriveLeaderboard(profiles, weights)
	if _, err := f.NewSheet(SheetLeaderboard); err != nil {
		return nil, fmt.Errorf("create %s sheet: %w", SheetLeaderboard, err)
	}
	if err := writeRows(f, SheetLeaderboard, leaderboardHeaders, len(board), func(i int) []any {
		e := board[i]
		return []any{
			e.Name, e.BaselineWeight, e.GoalWeight, e.CurrentWeight, e.WeightLost,
			fmt.Sprintf("%.2f%%", e.PercentageToGoal),
			e.LastRecorded.Format(dateLayout),
		}
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, headers []any, n int, row func(i int) []any) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("write %s headers: %w", sheet, err)
	}
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(i)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
