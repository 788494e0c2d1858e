package service

import (
	"context"
	"errors"
	"time"

	"invotrack/internal/dto"
	"invotrack/internal/models"
	"invotrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrMonthNotFound       = errors.New("month record not found")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrStatementNotFound   = errors.New("statement not found")
	ErrTransactionNotFound = errors.New("transaction not found in month")
)

// Currencies a summary is rendered in when the caller does not ask for
// specific ones.
var defaultSummaryCurrencies = []string{"EUR", "BGN"}

// MonthService assembles the per-month reconciliation view and owns the
// binding operations. All matching and filtering is recomputed on every
// read; only user decisions (bindings) are persisted.
type MonthService struct {
	monthRepo    *repository.MonthRepository
	settingsRepo *repository.SettingsRepository
	storage      *StorageService
	logger       *zap.Logger
}

func NewMonthService(
	monthRepo *repository.MonthRepository,
	settingsRepo *repository.SettingsRepository,
	storage *StorageService,
	logger *zap.Logger,
) *MonthService {
	return &MonthService{
		monthRepo:    monthRepo,
		settingsRepo: settingsRepo,
		storage:      storage,
		logger:       logger,
	}
}

func (s *MonthService) ListMonths(ctx context.Context, userID uuid.UUID) (*dto.MonthListResponse, error) {
	keys, err := s.monthRepo.ListMonthKeys(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.MonthListResponse{MonthKeys: keys}, nil
}

// GetMonthView returns the month's invoices, statements and resolved
// transactions. A month nobody has written to yet renders as empty.
func (s *MonthService) GetMonthView(ctx context.Context, userID uuid.UUID, monthKey string) (*dto.MonthResponse, error) {
	rec, err := s.monthRepo.Get(ctx, userID, monthKey)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = models.NewMonthRecord(userID, monthKey)
	}

	policy := s.policyFor(ctx, userID)

	resp := &dto.MonthResponse{
		MonthKey:     monthKey,
		Invoices:     []dto.InvoiceResponse{},
		Statements:   []dto.StatementResponse{},
		Transactions: []dto.TransactionView{},
	}
	for i := range rec.Invoices {
		resp.Invoices = append(resp.Invoices, s.invoiceResponse(&rec.Invoices[i]))
	}
	for i := range rec.Statements {
		resp.Statements = append(resp.Statements, s.statementResponse(&rec.Statements[i]))
	}
	resp.Transactions = s.resolveTransactions(rec, policy)

	return resp, nil
}

// Bind upserts a binding from a transaction to one of the month's
// invoices. Last write wins; rebinding is unlimited.
func (s *MonthService) Bind(ctx context.Context, userID uuid.UUID, monthKey, transactionID, storageID string) error {
	return s.mutateBinding(ctx, userID, monthKey, transactionID, func(rec *models.MonthRecord) error {
		if rec.InvoiceByStorageID(storageID) == nil {
			return ErrInvoiceNotFound
		}
		rec.SetBinding(transactionID, models.BoundTo(storageID))
		return nil
	})
}

// MarkNotNeeded records the explicit decision that no invoice is
// required, distinguishable from both unbound and bound states.
func (s *MonthService) MarkNotNeeded(ctx context.Context, userID uuid.UUID, monthKey, transactionID string) error {
	return s.mutateBinding(ctx, userID, monthKey, transactionID, func(rec *models.MonthRecord) error {
		rec.SetBinding(transactionID, models.NotNeeded())
		return nil
	})
}

// Unbind returns the transaction to the unbound display state.
func (s *MonthService) Unbind(ctx context.Context, userID uuid.UUID, monthKey, transactionID string) error {
	return s.mutateBinding(ctx, userID, monthKey, transactionID, func(rec *models.MonthRecord) error {
		rec.ClearBinding(transactionID)
		return nil
	})
}

func (s *MonthService) mutateBinding(ctx context.Context, userID uuid.UUID, monthKey, transactionID string, mutate func(*models.MonthRecord) error) error {
	return s.monthRepo.Mutate(ctx, userID, monthKey, func(rec *models.MonthRecord) (*models.MonthRecord, error) {
		if rec == nil {
			return nil, ErrMonthNotFound
		}
		if !monthHasTransaction(rec, transactionID) {
			return nil, ErrTransactionNotFound
		}
		if err := mutate(rec); err != nil {
			return nil, err
		}
		return rec, nil
	})
}

// Summary aggregates spend and invoiced totals. Amounts accumulate in
// the base currency without rounding and convert to each display
// currency independently; rounding happens only at formatting.
func (s *MonthService) Summary(ctx context.Context, userID uuid.UUID, monthKey string, currencies []string) (*dto.MonthSummaryResponse, error) {
	rec, err := s.monthRepo.Get(ctx, userID, monthKey)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = models.NewMonthRecord(userID, monthKey)
	}
	if len(currencies) == 0 {
		currencies = defaultSummaryCurrencies
	}

	spendBase := decimal.Zero
	for _, tx := range rec.AllTransactions() {
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil || !amount.IsNegative() {
			continue
		}
		spendBase = spendBase.Add(ToBase(amount.Neg(), tx.PaymentCurrency))
	}

	invoicedBase := decimal.Zero
	for i := range rec.Invoices {
		field, ok := rec.Invoices[i].Extracted[models.FieldInvoiceAmount]
		if !ok || field.Value == nil {
			continue
		}
		pair := ParseAmountCurrencyPair(*field.Value)
		if pair == nil {
			continue
		}
		invoicedBase = invoicedBase.Add(ToBase(pair.Amount, pair.Currency))
	}

	resp := &dto.MonthSummaryResponse{MonthKey: monthKey}
	for _, currency := range currencies {
		spend := FromBase(spendBase, currency)
		invoiced := FromBase(invoicedBase, currency)
		resp.Currencies = append(resp.Currencies, dto.CurrencySummary{
			Currency:          currency,
			TransactionsTotal: FormatAmount(spend),
			InvoicesTotal:     FormatAmount(invoiced),
			Difference:        FormatAmount(spend.Sub(invoiced)),
		})
	}
	return resp, nil
}

// resolveTransactions joins each transaction with its derived refund
// flag, invoice requirement and three-state binding.
func (s *MonthService) resolveTransactions(rec *models.MonthRecord, policy models.FilterPolicy) []dto.TransactionView {
	txs := rec.AllTransactions()
	refunded := FindRefundedPaymentIDs(txs)

	views := make([]dto.TransactionView, 0, len(txs))
	for _, tx := range txs {
		_, isRefunded := refunded[tx.ID]
		views = append(views, dto.TransactionView{
			ID:              tx.ID,
			Type:            tx.Type,
			DateStarted:     tx.DateStarted,
			DateCompleted:   tx.DateCompleted,
			Description:     tx.Description,
			Amount:          tx.Amount,
			PaymentCurrency: tx.PaymentCurrency,
			OrigAmount:      tx.OrigAmount,
			OrigCurrency:    tx.OrigCurrency,
			MCC:             tx.MCC,
			IsRefunded:      isRefunded,
			NeedsInvoice:    NeedsInvoice(tx, policy),
			Binding:         s.bindingView(rec, tx.ID),
		})
	}
	return views
}

func (s *MonthService) bindingView(rec *models.MonthRecord, transactionID string) dto.BindingView {
	binding := rec.BindingFor(transactionID)
	view := dto.BindingView{State: string(binding.Kind)}
	if binding.Kind == models.BindingInvoice {
		view.StorageID = binding.StorageID
		view.InvoiceURL = s.storage.URL(binding.StorageID)
		if inv := rec.InvoiceByStorageID(binding.StorageID); inv != nil {
			view.InvoiceFileName = inv.FileName
		}
	}
	return view
}

func (s *MonthService) policyFor(ctx context.Context, userID uuid.UUID) models.FilterPolicy {
	policy, err := s.settingsRepo.GetFilterPolicy(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load filter policy, using defaults", zap.Error(err))
		return models.DefaultFilterPolicy()
	}
	if policy == nil {
		return models.DefaultFilterPolicy()
	}
	return *policy
}

func (s *MonthService) invoiceResponse(inv *models.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:         inv.ID.String(),
		FileName:   inv.FileName,
		StorageID:  inv.StorageID,
		URL:        s.storage.URL(inv.StorageID),
		UploadedAt: inv.UploadedAt.Format(time.RFC3339),
		Extracted:  inv.Extracted,
	}
}

func (s *MonthService) statementResponse(st *models.Statement) dto.StatementResponse {
	return dto.StatementResponse{
		ID:               st.ID.String(),
		FileName:         st.FileName,
		FileType:         st.FileType,
		URL:              s.storage.URL(st.StorageID),
		UploadedAt:       st.UploadedAt.Format(time.RFC3339),
		TransactionCount: len(st.Transactions),
	}
}

func monthHasTransaction(rec *models.MonthRecord, transactionID string) bool {
	for _, tx := range rec.AllTransactions() {
		if tx.ID == transactionID {
			return true
		}
	}
	return false
}
