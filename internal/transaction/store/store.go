package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minhhq/backoffice/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectOrderColumns = `
	o.id, o.code, o.status, o.ordered_at,
	o.customer_name, o.customer_phone, o.customer_address, o.customer_tax_code, o.customer_email,
	o.subtotal, o.tax, o.total,
	o.einvoice_status, o.invoice_no, o.invoice_symbol, o.invoice_template_no, o.trade_number
`

// scanOrder reads an order row in selectOrderColumns order.
func scanOrder(s scanner) (*transaction.RawOrder, error) {
	var o transaction.RawOrder

	var code, name, phone, address, taxCode, email sql.NullString

	var invoiceNo, symbol, templateNo, tradeNumber sql.NullString

	if err := s.Scan(
		&o.ID, &code, &o.Status, &o.OrderedAt,
		&name, &phone, &address, &taxCode, &email,
		&o.Subtotal, &o.Tax, &o.Total,
		&o.EInvoiceStatus, &invoiceNo, &symbol, &templateNo, &tradeNumber,
	); err != nil {
		return nil, err
	}

	o.Code = code.String
	o.CustomerName = name.String
	o.CustomerPhone = phone.String
	o.CustomerAddress = address.String
	o.CustomerTaxCode = taxCode.String
	o.CustomerEmail = email.String
	o.InvoiceNumber = invoiceNo.String
	o.Symbol = symbol.String
	o.TemplateNumber = templateNo.String
	o.TradeNumber = tradeNumber.String

	return &o, nil
}

const selectInvoiceColumns = `
	i.id, i.trade_number, i.invoice_status, i.invoice_date,
	i.customer_name, i.customer_phone, i.customer_address, i.customer_tax_code, i.customer_email,
	i.subtotal, i.tax, i.total,
	i.einvoice_status, i.invoice_no, i.invoice_symbol, i.invoice_template_no
`

// scanInvoice reads an invoice row in selectInvoiceColumns order.
func scanInvoice(s scanner) (*transaction.RawInvoice, error) {
	var inv transaction.RawInvoice

	var tradeNumber, name, phone, address, taxCode, email sql.NullString

	var invoiceNo, symbol, templateNo sql.NullString

	if err := s.Scan(
		&inv.ID, &tradeNumber, &inv.Status, &inv.InvoiceDate,
		&name, &phone, &address, &taxCode, &email,
		&inv.Subtotal, &inv.Tax, &inv.Total,
		&inv.EInvoiceStatus, &invoiceNo, &symbol, &templateNo,
	); err != nil {
		return nil, err
	}

	inv.TradeNumber = tradeNumber.String
	inv.CustomerName = name.String
	inv.CustomerPhone = phone.String
	inv.CustomerAddress = address.String
	inv.CustomerTaxCode = taxCode.String
	inv.CustomerEmail = email.String
	inv.InvoiceNumber = invoiceNo.String
	inv.Symbol = symbol.String
	inv.TemplateNumber = templateNo.String

	return &inv, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*transaction.RawOrder, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders o WHERE o.id = $1`

	o, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting order: %w", err)
	}

	return o, nil
}

func (s *Store) GetInvoice(ctx context.Context, id int64) (*transaction.RawInvoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices i WHERE i.id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListOrders(ctx context.Context, filter transaction.ListFilter) ([]transaction.RawOrder, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders o WHERE 1=1`
	query, args := applyListFilter(query, filter, "o.ordered_at")
	query += " ORDER BY o.ordered_at DESC, o.id DESC"
	query = applyPaging(query, filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []transaction.RawOrder

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter transaction.ListFilter) ([]transaction.RawInvoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices i WHERE 1=1`
	query, args := applyListFilter(query, filter, "i.invoice_date")
	query += " ORDER BY i.invoice_date DESC, i.id DESC"
	query = applyPaging(query, filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []transaction.RawInvoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, *inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invoices, nil
}

func applyListFilter(query string, filter transaction.ListFilter, dateColumn string) (string, []any) {
	var args []any

	argIdx := 1

	if filter.From != nil {
		query += fmt.Sprintf(" AND %s >= $%d", dateColumn, argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND %s <= $%d", dateColumn, argIdx)

		args = append(args, *filter.To)
	}

	return query, args
}

func applyPaging(query string, filter transaction.ListFilter) string {
	if filter.Limit <= 0 {
		return query
	}

	query += fmt.Sprintf(" LIMIT %d", filter.Limit)

	if filter.Page > 1 {
		query += fmt.Sprintf(" OFFSET %d", (filter.Page-1)*filter.Limit)
	}

	return query
}

func (s *Store) OrderLineItems(ctx context.Context, orderID int64) ([]transaction.LineItem, error) {
	query := `
		SELECT product_id, product_name, quantity, unit_price, tax_rate, total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`

	return s.lineItems(ctx, query, orderID)
}

func (s *Store) InvoiceLineItems(ctx context.Context, invoiceID int64) ([]transaction.LineItem, error) {
	query := `
		SELECT product_id, product_name, quantity, unit_price, tax_rate, total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id ASC
	`

	return s.lineItems(ctx, query, invoiceID)
}

func (s *Store) lineItems(ctx context.Context, query string, parentID int64) ([]transaction.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing line items: %w", err)
	}
	defer rows.Close()

	var items []transaction.LineItem

	for rows.Next() {
		var item transaction.LineItem

		var name sql.NullString

		if err := rows.Scan(&item.ProductID, &name, &item.Quantity, &item.UnitPrice, &item.TaxRate, &item.Total); err != nil {
			return nil, fmt.Errorf("scanning line item: %w", err)
		}

		item.ProductName = name.String
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating line item rows: %w", err)
	}

	return items, nil
}

// UpdateOrderStatus is the status-only write path orders expose.
func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	return requireRow(res)
}

// UpdateInvoice replaces the mutable fields of an invoice record in one
// write, mirroring the full-record endpoint invoices expose.
func (s *Store) UpdateInvoice(ctx context.Context, inv *transaction.RawInvoice) error {
	query := `
		UPDATE invoices
		SET invoice_status = $1, invoice_date = $2,
			customer_name = $3, customer_phone = $4, customer_address = $5,
			customer_tax_code = $6, customer_email = $7,
			subtotal = $8, tax = $9, total = $10,
			einvoice_status = $11, invoice_no = $12, invoice_symbol = $13, invoice_template_no = $14,
			updated_at = NOW()
		WHERE id = $15
	`

	res, err := s.db.ExecContext(ctx, query,
		inv.Status, inv.InvoiceDate,
		inv.CustomerName, inv.CustomerPhone, inv.CustomerAddress,
		inv.CustomerTaxCode, inv.CustomerEmail,
		inv.Subtotal, inv.Tax, inv.Total,
		inv.EInvoiceStatus, inv.InvoiceNumber, inv.Symbol, inv.TemplateNumber,
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	return requireRow(res)
}

// UpdateOrderEInvoice applies the identifiers granted by a publish.
// An already-assigned trade number is kept regardless of the value
// passed in.
func (s *Store) UpdateOrderEInvoice(ctx context.Context, id int64, status transaction.EInvoiceStatus, identity transaction.InvoiceIdentity) error {
	query := `
		UPDATE orders
		SET einvoice_status = $1, invoice_no = $2, invoice_symbol = $3, invoice_template_no = $4,
			trade_number = CASE WHEN COALESCE(trade_number, '') = '' THEN $5 ELSE trade_number END,
			updated_at = NOW()
		WHERE id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		status, identity.InvoiceNumber, identity.Symbol, identity.TemplateNumber,
		identity.TradeNumber, id,
	)
	if err != nil {
		return fmt.Errorf("updating order e-invoice: %w", err)
	}

	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
