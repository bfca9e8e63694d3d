package services

import (
	"bytes"
	"fmt"

	"casedesk/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// BuildCasesWorkbook exports every case in the firm as an xlsx workbook
// with resolved client names, ordered newest first.
func BuildCasesWorkbook(db *gorm.DB, firmID string) (*bytes.Buffer, error) {
	var cases []models.Case
	if err := db.Preload("Client").Preload("AssignedTo").
		Where("firm_id = ?", firmID).
		Order("created_at DESC").
		Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cases for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cases"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Case Number", "Title", "Type", "Status", "Client", "Assigned To", "Filing Date", "Closed Date", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, c := range cases {
		clientName := UnknownClientName
		if c.Client != nil {
			clientName = c.Client.DisplayNameOr(UnknownClientName)
		}
		assignee := ""
		if c.AssignedTo != nil {
			assignee = c.AssignedTo.Name
		}
		filing := ""
		if c.FilingDate != nil {
			filing = c.FilingDate.Format("2006-01-02")
		}
		closed := ""
		if c.ClosedDate != nil {
			closed = c.ClosedDate.Format("2006-01-02")
		}

		values := []interface{}{
			c.CaseNumber, c.Title, c.CaseType, c.Status,
			clientName, assignee, filing, closed,
			c.CreatedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
