package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"directory-backend/internal/domains/listing/model"
)

// Export builds an Excel workbook of listings matching the filter,
// returned as the serialized file bytes.
func (s *listingService) Export(ctx context.Context, filter model.ListFilter) ([]byte, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	listings, _, err := s.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings for export: %w", err)
	}

	f, err := buildListingsExcelFile(listings)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func buildListingsExcelFile(listings []model.ListingResponse) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Listings"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{
		"ID",
		"Owner ID",
		"Name",
		"Slug",
		"Category",
		"Address",
		"City",
		"Phone",
		"Email",
		"Website",
		"Status",
		"Visible",
		"Cover URL",
		"Images",
		"Created At",
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "O1", headerStyle)
	}

	for i, l := range listings {
		rowNum := i + 2

		cell := func(col int) string {
			c, _ := excelize.CoordinatesToCellName(col, rowNum)
			return c
		}

		f.SetCellValue(sheetName, cell(1), l.ID)
		f.SetCellValue(sheetName, cell(2), l.OwnerID)
		f.SetCellValue(sheetName, cell(3), l.Name)
		f.SetCellValue(sheetName, cell(4), l.Slug)
		f.SetCellValue(sheetName, cell(5), l.Category)
		f.SetCellValue(sheetName, cell(6), l.Address)
		f.SetCellValue(sheetName, cell(7), l.City)
		f.SetCellValue(sheetName, cell(8), deref(l.Phone))
		f.SetCellValue(sheetName, cell(9), deref(l.Email))
		f.SetCellValue(sheetName, cell(10), deref(l.Website))
		f.SetCellValue(sheetName, cell(11), l.Status)
		f.SetCellValue(sheetName, cell(12), l.Visible)
		f.SetCellValue(sheetName, cell(13), deref(l.CoverURL))
		f.SetCellValue(sheetName, cell(14), strings.Join(l.Images, "\n"))
		f.SetCellValue(sheetName, cell(15), l.CreatedAt)
	}

	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
