package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"retrack-app/logger"
	"retrack-app/models"
	"retrack-app/repositories"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Intake columns, in file order.
var intakeHeader = []string{"return_code", "customer_name", "customer_phone", "location", "product_id", "product_category"}

type IntakeRow struct {
	Line            int
	ReturnCode      string
	CustomerName    string
	CustomerPhone   string
	Location        string
	ProductID       string
	ProductCategory string
}

type IntakeResult struct {
	TotalRows     int      `json:"totalRows"`
	SuccessCount  int      `json:"successCount"`
	SkippedCount  int      `json:"skippedCount"`
	ErrorCount    int      `json:"errorCount"`
	SkippedItems  []string `json:"skippedItems"`
	ErrorMessages []string `json:"errorMessages"`
}

// IntakeService creates Pending returns in bulk from customer return
// requests.
type IntakeService struct {
	db      *gorm.DB
	catalog *ProductCatalog
	now     func() time.Time
}

func NewIntakeService(db *gorm.DB, catalog *ProductCatalog) *IntakeService {
	return &IntakeService{db: db, catalog: catalog, now: time.Now}
}

// Import inserts the rows in one transaction. Existing return codes are
// skipped; invalid rows are reported and left out.
func (s *IntakeService) Import(ctx context.Context, rows []IntakeRow) (*IntakeResult, error) {
	result := &IntakeResult{TotalRows: len(rows), SkippedItems: []string{}, ErrorMessages: []string{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		returns := repositories.NewReturnRepository(tx)
		seen := make(map[string]bool, len(rows))

		for _, row := range rows {
			code := strings.ToUpper(strings.TrimSpace(row.ReturnCode))
			if code == "" || strings.TrimSpace(row.Location) == "" {
				result.ErrorCount++
				result.ErrorMessages = append(result.ErrorMessages,
					fmt.Sprintf("Row %d: return_code and location are required", row.Line))
				continue
			}

			exists, err := returns.ExistsByCode(ctx, code)
			if err != nil {
				return err
			}
			if exists || seen[code] {
				result.SkippedCount++
				result.SkippedItems = append(result.SkippedItems, code)
				continue
			}

			ret := &models.Return{
				ReturnCode:      code,
				CustomerName:    strings.TrimSpace(row.CustomerName),
				CustomerPhone:   strings.TrimSpace(row.CustomerPhone),
				Location:        strings.TrimSpace(row.Location),
				PickupStatus:    models.PickupPending,
				ProductCategory: strings.TrimSpace(row.ProductCategory),
				CreatedAt:       s.now().UTC(),
			}
			if pid := strings.TrimSpace(row.ProductID); pid != "" {
				p, ok := s.catalog.Get(pid)
				if !ok {
					result.ErrorCount++
					result.ErrorMessages = append(result.ErrorMessages,
						fmt.Sprintf("Row %d: unknown product '%s'", row.Line, pid))
					continue
				}
				ret.ProductID = &p.ID
				if ret.ProductCategory == "" {
					ret.ProductCategory = p.Type
				}
			}

			if err := returns.Create(ctx, ret); err != nil {
				return err
			}
			seen[code] = true
			result.SuccessCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("returns imported",
		zap.Int("success", result.SuccessCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("errors", result.ErrorCount))
	return result, nil
}

// rowsFromRecords maps raw records (header first) to intake rows. Columns
// are located by header name so their order does not matter.
func rowsFromRecords(records [][]string) ([]IntakeRow, error) {
	if len(records) < 2 {
		return nil, validation("File must contain header and at least one data row")
	}

	index := make(map[string]int)
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range intakeHeader[:4] {
		if _, ok := index[col]; !ok {
			return nil, validation("Missing column %s", col)
		}
	}

	cell := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []IntakeRow
	for n, rec := range records[1:] {
		if len(rec) == 0 || strings.TrimSpace(strings.Join(rec, "")) == "" {
			continue
		}
		rows = append(rows, IntakeRow{
			Line:            n + 2,
			ReturnCode:      cell(rec, "return_code"),
			CustomerName:    cell(rec, "customer_name"),
			CustomerPhone:   cell(rec, "customer_phone"),
			Location:        cell(rec, "location"),
			ProductID:       cell(rec, "product_id"),
			ProductCategory: cell(rec, "product_category"),
		})
	}
	return rows, nil
}

func ParseIntakeCSV(r io.Reader) ([]IntakeRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, validation("Failed to read CSV: %s", err.Error())
	}
	return rowsFromRecords(records)
}

// ParseIntakeXLSX reads the first sheet of a workbook.
func ParseIntakeXLSX(r io.Reader) ([]IntakeRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, validation("Failed to read Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, validation("No sheets found in Excel file")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rowsFromRecords(records)
}
