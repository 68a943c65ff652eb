package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/minhhq/backoffice/internal/reconcile"
)

const sheetName = "Transactions"

var headers = []string{
	"Number", "Type", "Date", "Customer", "Tax code",
	"Subtotal", "Tax", "Total", "Status", "E-invoice",
}

// Service renders the reconciled transaction list as an xlsx workbook.
type Service struct {
	recon *reconcile.Service
}

func NewService(recon *reconcile.Service) *Service {
	return &Service{recon: recon}
}

// Workbook reconciles with the given filter and writes one sheet: a
// header row, one row per transaction and a totals row summing exactly
// the exported set.
func (s *Service) Workbook(ctx context.Context, filter reconcile.Filter) (*excelize.File, error) {
	result, err := s.recon.Reconcile(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reconciling transactions: %w", err)
	}

	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("naming header cell: %w", err)
		}

		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for i, tx := range result.Transactions {
		values := []any{
			tx.DisplayNumber,
			string(tx.SourceType),
			tx.Date.Format(time.DateOnly),
			tx.Customer.Name,
			tx.Customer.TaxCode,
			tx.Amounts.Subtotal.InexactFloat64(),
			tx.Amounts.Tax.InexactFloat64(),
			tx.Amounts.Total.InexactFloat64(),
			string(tx.DisplayStatus),
			tx.EInvoiceStatus.Label(),
		}

		if err := writeRow(f, i+2, values); err != nil {
			return nil, err
		}
	}

	totalsRow := len(result.Transactions) + 2
	totals := []any{
		"Total", "", "", "", "",
		result.Totals.Subtotal.InexactFloat64(),
		result.Totals.Tax.InexactFloat64(),
		result.Totals.Total.InexactFloat64(),
		"", "",
	}

	if err := writeRow(f, totalsRow, totals); err != nil {
		return nil, err
	}

	return f, nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("naming cell: %w", err)
		}

		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
	}

	return nil
}
