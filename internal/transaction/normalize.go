package transaction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WalkInCustomerName is substituted when a record carries no buyer name.
const WalkInCustomerName = "Walk-in customer"

// displayNumberWidth is the zero-padding applied when a record has no
// assigned code yet.
const displayNumberWidth = 6

// RawOrder is the order resource as the store returns it. Optional
// fields may be empty or zero; normalization never fails on them.
type RawOrder struct {
	ID              int64
	Code            string
	Status          string
	OrderedAt       time.Time
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerTaxCode string
	CustomerEmail   string
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	EInvoiceStatus  EInvoiceStatus
	InvoiceNumber   string
	Symbol          string
	TemplateNumber  string
	TradeNumber     string
}

// RawInvoice is the invoice resource as the store returns it.
type RawInvoice struct {
	ID              int64
	TradeNumber     string
	Status          InvoiceStatus
	InvoiceDate     time.Time
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerTaxCode string
	CustomerEmail   string
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	EInvoiceStatus  EInvoiceStatus
	InvoiceNumber   string
	Symbol          string
	TemplateNumber  string
}

// NormalizeOrder converts an order record into the unified transaction
// shape. Pure and total: the same input always yields the same output,
// so it is safe to re-run on every refetch.
func NormalizeOrder(raw RawOrder) Transaction {
	return Transaction{
		ID:            raw.ID,
		SourceType:    SourceOrder,
		DisplayNumber: displayNumber(raw.Code, raw.ID),
		Date:          raw.OrderedAt,
		Customer: normalizeCustomer(
			raw.CustomerName, raw.CustomerPhone, raw.CustomerAddress,
			raw.CustomerTaxCode, raw.CustomerEmail,
		),
		Amounts: Amounts{
			Subtotal: raw.Subtotal,
			Tax:      raw.Tax,
			Total:    raw.Total,
		},
		OrderStatus:    raw.Status,
		DisplayStatus:  orderDisplayStatus(raw.Status),
		EInvoiceStatus: raw.EInvoiceStatus,
		Identity: InvoiceIdentity{
			InvoiceNumber:  raw.InvoiceNumber,
			Symbol:         raw.Symbol,
			TemplateNumber: raw.TemplateNumber,
			TradeNumber:    raw.TradeNumber,
		},
	}
}

// NormalizeInvoice converts an invoice record into the unified
// transaction shape.
func NormalizeInvoice(raw RawInvoice) Transaction {
	return Transaction{
		ID:            raw.ID,
		SourceType:    SourceInvoice,
		DisplayNumber: displayNumber(raw.TradeNumber, raw.ID),
		Date:          raw.InvoiceDate,
		Customer: normalizeCustomer(
			raw.CustomerName, raw.CustomerPhone, raw.CustomerAddress,
			raw.CustomerTaxCode, raw.CustomerEmail,
		),
		Amounts: Amounts{
			Subtotal: raw.Subtotal,
			Tax:      raw.Tax,
			Total:    raw.Total,
		},
		InvoiceStatus:  raw.Status,
		DisplayStatus:  invoiceDisplayStatus(raw.Status),
		EInvoiceStatus: raw.EInvoiceStatus,
		Identity: InvoiceIdentity{
			InvoiceNumber:  raw.InvoiceNumber,
			Symbol:         raw.Symbol,
			TemplateNumber: raw.TemplateNumber,
			TradeNumber:    raw.TradeNumber,
		},
	}
}

func displayNumber(code string, id int64) string {
	if code != "" {
		return code
	}

	return fmt.Sprintf("%0*d", displayNumberWidth, id)
}

func normalizeCustomer(name, phone, address, taxCode, email string) Customer {
	if name == "" {
		name = WalkInCustomerName
	}

	return Customer{
		Name:    name,
		Phone:   phone,
		Address: address,
		TaxCode: taxCode,
		Email:   email,
	}
}

func orderDisplayStatus(status string) DisplayStatus {
	switch status {
	case OrderStatusPaid:
		return StatusCompleted
	case OrderStatusCancelled:
		return StatusCancelled
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing:
		return StatusInProgress
	}

	// Unmapped order statuses are treated as still in service.
	return StatusInProgress
}

func invoiceDisplayStatus(status InvoiceStatus) DisplayStatus {
	switch status {
	case InvoiceInService:
		return StatusInProgress
	case InvoiceCancelled:
		return StatusCancelled
	case InvoiceCompleted:
		return StatusCompleted
	}

	// Absent or unknown invoice statuses count as completed sales.
	return StatusCompleted
}
