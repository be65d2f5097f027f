// Package export renders ranked postings into spreadsheet form for manual
// review outside the CLI.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jobcopilot/jobcopilot/internal/scoring"
)

const rankedSheet = "Ranked Jobs"

// ToExcel writes the ranked postings to an .xlsx workbook, best first,
// with the score breakdown and a clickable posting link per row.
func ToExcel(ranked []*scoring.ScoredJob, outputPath string) error {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", rankedSheet)

	if err := writeRankedSheet(f, ranked); err != nil {
		return fmt.Errorf("write ranked sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRankedSheet(f *excelize.File, ranked []*scoring.ScoredJob) error {
	widths := []struct {
		col   string
		width float64
	}{
		{"A", 6}, {"B", 40}, {"C", 24}, {"D", 24}, {"E", 10},
		{"F", 12}, {"G", 12}, {"H", 10}, {"I", 12}, {"J", 12}, {"K", 50},
	}
	for _, w := range widths {
		f.SetColWidth(rankedSheet, w.col, w.col, w.width)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	headers := []string{
		"Rank", "Title", "Company", "Location", "Score",
		"Skill Overlap", "Title Match", "Loc Boost", "Posted", "Source", "URL",
	}
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(rankedSheet, cell, header)
		f.SetCellStyle(rankedSheet, cell, cell, headerStyle)
	}

	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return err
	}

	for i, sj := range ranked {
		row := i + 2
		f.SetCellValue(rankedSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(rankedSheet, fmt.Sprintf("B%d", row), sj.Title)
		f.SetCellValue(rankedSheet, fmt.Sprintf("C%d", row), sj.Company)
		f.SetCellValue(rankedSheet, fmt.Sprintf("D%d", row), sj.Location)
		f.SetCellValue(rankedSheet, fmt.Sprintf("E%d", row), sj.Score)
		f.SetCellValue(rankedSheet, fmt.Sprintf("F%d", row), sj.SkillOverlap)
		f.SetCellValue(rankedSheet, fmt.Sprintf("G%d", row), sj.TitleSimilarity)
		f.SetCellValue(rankedSheet, fmt.Sprintf("H%d", row), sj.LocBoost)
		f.SetCellValue(rankedSheet, fmt.Sprintf("I%d", row), sj.PostedAt)
		f.SetCellValue(rankedSheet, fmt.Sprintf("J%d", row), sj.Source)

		urlCell := fmt.Sprintf("K%d", row)
		f.SetCellValue(rankedSheet, urlCell, sj.URL)
		if sj.URL != "" {
			f.SetCellHyperLink(rankedSheet, urlCell, sj.URL, "External")
			f.SetCellStyle(rankedSheet, urlCell, urlCell, linkStyle)
		}
	}

	if len(ranked) > 0 {
		f.AutoFilter(rankedSheet, fmt.Sprintf("A1:K%d", len(ranked)+1), []excelize.AutoFilterOptions{})
	}

	return f.SetPanes(rankedSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
