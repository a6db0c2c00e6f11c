package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/certtutor/pkg/models"
)

// ConceptSink receives imported catalog concepts
type ConceptSink interface {
	Upsert(concept *models.Concept) error
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath      string // Path to the Excel or CSV file
	IDColumn      string // Column with the concept id
	NameColumn    string // Column with the concept name
	SummaryColumn string // Column with the one-line summary
	PartColumn    string // Column with the syllabus part id
	LevelColumn   string // Column with the certification level
	SheetName     string // Name of the sheet to import
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		IDColumn:      "A",
		NameColumn:    "B",
		SummaryColumn: "C",
		PartColumn:    "D",
		LevelColumn:   "E",
		SheetName:     "Sheet1",
		StartRow:      2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportConcepts imports catalog concepts from an Excel or CSV file
func ImportConcepts(config ImportConfig, sink ConceptSink) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(config, sink)
	}
	return importFromExcel(config, sink)
}

// importFromExcel imports concepts from an Excel file
func importFromExcel(config ImportConfig, sink ConceptSink) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := processRow(row, config, sink, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

// importFromCSV imports concepts from a CSV file with the same column layout
func importFromCSV(config ImportConfig, sink ConceptSink) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	result := &ImportResult{Errors: make([]string, 0)}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++
		if err := processRow(row, config, sink, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

// processRow maps one row onto a concept and hands it to the sink
func processRow(row []string, config ImportConfig, sink ConceptSink, result *ImportResult) error {
	cell := func(column string) string {
		if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	concept := models.Concept{
		ID:      cell(config.IDColumn),
		Name:    cell(config.NameColumn),
		Summary: cell(config.SummaryColumn),
		PartID:  cell(config.PartColumn),
		Level:   cell(config.LevelColumn),
	}

	if concept.ID == "" || concept.Name == "" {
		result.Skipped++
		return fmt.Errorf("concept id and name are required")
	}
	if concept.PartID == "" {
		result.Skipped++
		return fmt.Errorf("syllabus part is required")
	}
	if concept.Level == "" {
		concept.Level = "foundation"
	}

	if err := sink.Upsert(&concept); err != nil {
		return fmt.Errorf("failed to store concept: %v", err)
	}
	result.Imported++
	return nil
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
