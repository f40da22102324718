package services

import (
	"bytes"
	"context"
	"fmt"

	"retrack-app/models"
	"retrack-app/repositories"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func toBuffer(f *excelize.File) (*bytes.Buffer, error) {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func deref(e *models.Expected) string {
	if e == nil {
		return ""
	}
	return string(*e)
}

// BagManifest builds a workbook listing every item of the bag.
func (s *ExportService) BagManifest(ctx context.Context, bagID uint) (string, *bytes.Buffer, error) {
	bag, err := repositories.NewBagRepository(s.db).FindDetail(ctx, bagID)
	if err != nil {
		return "", nil, lookup(err, "Bag not found")
	}

	f := excelize.NewFile()
	sheet := "Manifest"
	f.SetSheetName("Sheet1", sheet)

	rows := make([][]interface{}, 0, len(bag.Items))
	for _, it := range bag.Items {
		code, customer, location := "", "", ""
		if it.Return != nil {
			code, customer, location = it.Return.ReturnCode, it.Return.CustomerName, it.Return.Location
		}
		rows = append(rows, []interface{}{bag.BagCode, string(bag.Status), code, customer, location,
			it.ProductID, it.ProductName, it.ProductType, deref(it.Expected), string(it.Status)})
	}
	header := []string{"Bag Code", "Bag Status", "Return Code", "Customer", "Location",
		"Product ID", "Product", "Product Type", "Expected", "Item Status"}
	if err := writeSheet(f, sheet, header, rows); err != nil {
		f.Close()
		return "", nil, err
	}

	buf, err := toBuffer(f)
	return bag.BagCode + ".xlsx", buf, err
}

// QCReports exports every QC report, newest inspection first.
func (s *ExportService) QCReports(ctx context.Context) (*bytes.Buffer, error) {
	reports, err := repositories.NewQCRepository(s.db).ListReports(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "QC Reports"
	f.SetSheetName("Sheet1", sheet)

	rows := make([][]interface{}, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []interface{}{r.ReportID, r.ProductID, r.DefectType, r.Severity,
			string(r.FinalDecision), r.InspectorName, r.InspectionDate.Format("2006-01-02 15:04"), r.Notes})
	}
	header := []string{"Report ID", "Product ID", "Defect Type", "Severity", "Decision", "Inspector", "Inspection Date", "Notes"}
	if err := writeSheet(f, sheet, header, rows); err != nil {
		f.Close()
		return nil, err
	}
	return toBuffer(f)
}
