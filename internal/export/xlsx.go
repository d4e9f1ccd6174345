// Package export renders standings for offline use.
package export

import (
	"fmt"
	"io"

	"roundrobin-tracker/internal/domain"

	"github.com/xuri/excelize/v2"
)

const standingsSheet = "Standings"

var standingsHeader = []any{
	"Rank", "Player", "Series", "Series Wins", "Series Losses",
	"Wins", "Losses", "Win Rate %", "First Blood Wins", "Farm Wins",
	"K/D Balance", "Total Farm", "Avg Win Time",
}

// WriteStandings writes standings, already in rank order, as an xlsx
// workbook to w.
func WriteStandings(w io.Writer, standings []domain.Standing) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", standingsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(standingsSheet, "A1", &standingsHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(standingsHeader))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(standingsSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i := range standings {
		st := &standings[i]
		p := &st.Player
		row := []any{
			i + 1, p.Username, st.SeriesPlayed, st.SeriesWins, st.SeriesLosses(),
			p.Wins, p.Losses, fmt.Sprintf("%.1f", p.WinRate()), p.FirstBloodWins, p.FarmWins,
			p.KillDeathBalance(), p.TotalFarm, p.AverageWinTimeDisplay(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(standingsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(standingsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
