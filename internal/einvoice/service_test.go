package einvoice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/minhhq/backoffice/internal/einvoice"
	"github.com/minhhq/backoffice/internal/transaction"
)

func orderKey(id int64) transaction.Key {
	return transaction.Key{SourceType: transaction.SourceOrder, ID: id}
}

func invoiceKey(id int64) transaction.Key {
	return transaction.Key{SourceType: transaction.SourceInvoice, ID: id}
}

func publishableOrder(id int64) *transaction.RawOrder {
	return &transaction.RawOrder{
		ID:           id,
		Code:         "ORD-007",
		Status:       "paid",
		CustomerName: "Nguyễn Văn An",
		Subtotal:     decimal.NewFromInt(100000),
		Tax:          decimal.NewFromInt(10000),
		Total:        decimal.NewFromInt(110000),
	}
}

func lineItems() []transaction.LineItem {
	return []transaction.LineItem{{
		ProductName: "Phở bò",
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(50000),
		TaxRate:     decimal.NewFromInt(10),
	}}
}

func TestService_Publish_Order(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := transaction.NewMockRepository(ctrl)
	provider := einvoice.NewMockProvider(ctrl)
	svc := einvoice.NewService(store, provider)

	store.EXPECT().GetOrder(gomock.Any(), int64(7)).Return(publishableOrder(7), nil)
	store.EXPECT().OrderLineItems(gomock.Any(), int64(7)).Return(lineItems(), nil)

	provider.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *einvoice.SubmitRequest) (*einvoice.IssueData, error) {
			assert.NotEmpty(t, req.TransactionID)
			assert.Equal(t, int64(110000), req.Total)
			return &einvoice.IssueData{InvoiceNumber: "00000123", Symbol: "C24TAA", TemplateNumber: "1"}, nil
		})

	store.EXPECT().
		UpdateOrderEInvoice(gomock.Any(), int64(7), transaction.EInvoiceIssued, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ transaction.EInvoiceStatus, identity transaction.InvoiceIdentity) error {
			assert.Equal(t, "00000123", identity.InvoiceNumber)
			assert.Equal(t, "ORD-007", identity.TradeNumber)
			return nil
		})

	result, err := svc.Publish(context.Background(), orderKey(7))

	require.NoError(t, err)
	assert.Equal(t, "00000123", result.Issue.InvoiceNumber)
	assert.Equal(t, transaction.EInvoiceIssued, result.Transaction.EInvoiceStatus)
}

func TestService_Publish_InvoiceUsesFullRecordWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := transaction.NewMockRepository(ctrl)
	provider := einvoice.NewMockProvider(ctrl)
	svc := einvoice.NewService(store, provider)

	store.EXPECT().
		GetInvoice(gomock.Any(), int64(9)).
		Return(&transaction.RawInvoice{ID: 9, TradeNumber: "TRD-009", Status: transaction.InvoiceCompleted}, nil)
	store.EXPECT().InvoiceLineItems(gomock.Any(), int64(9)).Return(lineItems(), nil)

	provider.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(&einvoice.IssueData{InvoiceNumber: "00000456", Symbol: "C24TAB", TemplateNumber: "1"}, nil)

	store.EXPECT().
		UpdateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *transaction.RawInvoice) error {
			assert.Equal(t, transaction.EInvoiceIssued, inv.EInvoiceStatus)
			assert.Equal(t, "00000456", inv.InvoiceNumber)
			// Pre-existing trade number is permanent.
			assert.Equal(t, "TRD-009", inv.TradeNumber)
			return nil
		})

	result, err := svc.Publish(context.Background(), invoiceKey(9))

	require.NoError(t, err)
	assert.Equal(t, "TRD-009", result.Transaction.Identity.TradeNumber)
}

// An already-published transaction fails the precondition before the
// provider is ever contacted.
func TestService_Publish_AlreadyPublished(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := transaction.NewMockRepository(ctrl)
	provider := einvoice.NewMockProvider(ctrl)
	svc := einvoice.NewService(store, provider)

	raw := publishableOrder(7)
	raw.EInvoiceStatus = transaction.EInvoiceIssued

	store.EXPECT().GetOrder(gomock.Any(), int64(7)).Return(raw, nil)
	provider.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Publish(context.Background(), orderKey(7))

	assert.ErrorIs(t, err, transaction.ErrAlreadyPublished)
}

func TestService_Publish_NoLineItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := transaction.NewMockRepository(ctrl)
	provider := einvoice.NewMockProvider(ctrl)
	svc := einvoice.NewService(store, provider)

	store.EXPECT().GetOrder(gomock.Any(), int64(7)).Return(publishableOrder(7), nil)
	store.EXPECT().OrderLineItems(gomock.Any(), int64(7)).Return(nil, nil)
	provider.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Publish(context.Background(), orderKey(7))

	assert.ErrorIs(t, err, einvoice.ErrNoLineItems)
}

// Provider failures leave local state untouched and surface the
// provider's message verbatim.
func TestService_Publish_ProviderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := transaction.NewMockRepository(ctrl)
	provider := einvoice.NewMockProvider(ctrl)
	svc := einvoice.NewService(store, provider)

	store.EXPECT().GetOrder(gomock.Any(), int64(7)).Return(publishableOrder(7), nil)
	store.EXPECT().OrderLineItems(gomock.Any(), int64(7)).Return(lineItems(), nil)

	provider.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(nil, &einvoice.ProviderError{Message: "tax code not registered"})

	store.EXPECT().UpdateOrderEInvoice(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	store.EXPECT().UpdateInvoice(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Publish(context.Background(), orderKey(7))

	var provErr *einvoice.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "tax code not registered", provErr.Message)
}

// A store write failure after a successful submission is the
// split-brain case: it must come back as a distinct error class
// carrying the identifiers the provider granted.
func TestService_Publish_PublishedButNotRecorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := transaction.NewMockRepository(ctrl)
	provider := einvoice.NewMockProvider(ctrl)
	svc := einvoice.NewService(store, provider)

	store.EXPECT().GetOrder(gomock.Any(), int64(7)).Return(publishableOrder(7), nil)
	store.EXPECT().OrderLineItems(gomock.Any(), int64(7)).Return(lineItems(), nil)

	provider.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(&einvoice.IssueData{InvoiceNumber: "00000123", Symbol: "C24TAA"}, nil)

	store.EXPECT().
		UpdateOrderEInvoice(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("connection reset"))

	_, err := svc.Publish(context.Background(), orderKey(7))

	var notRecorded *einvoice.NotRecordedError
	require.ErrorAs(t, err, &notRecorded)
	assert.Equal(t, "00000123", notRecorded.Issue.InvoiceNumber)
	assert.Equal(t, orderKey(7), notRecorded.Key)
}
