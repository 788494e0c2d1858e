package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"invotrack/internal/dto"
	"invotrack/internal/models"
	"invotrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceService manages incoming invoice documents within a month
// record: upload, AI field extraction, deletion with cascade-unbind.
type InvoiceService struct {
	monthRepo  *repository.MonthRepository
	monthSvc   *MonthService
	storage    *StorageService
	extraction *ExtractionService
	logger     *zap.Logger
}

func NewInvoiceService(
	monthRepo *repository.MonthRepository,
	monthSvc *MonthService,
	storage *StorageService,
	extraction *ExtractionService,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		monthRepo:  monthRepo,
		monthSvc:   monthSvc,
		storage:    storage,
		extraction: extraction,
		logger:     logger,
	}
}

// Upload stores an invoice file and attaches it to the month record,
// creating the record on first write.
func (s *InvoiceService) Upload(ctx context.Context, userID uuid.UUID, monthKey string, file io.Reader, fileName string) (*dto.InvoiceResponse, error) {
	storageID, size, err := s.storage.Store(file, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to store invoice: %w", err)
	}

	inv, err := s.attach(ctx, userID, monthKey, storageID, fileName)
	if err != nil {
		if delErr := s.storage.Delete(storageID); delErr != nil {
			s.logger.Warn("Failed to clean up stored invoice", zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Invoice uploaded",
		zap.String("month", monthKey),
		zap.String("storage_id", storageID),
		zap.Int64("size", size),
	)

	resp := s.monthSvc.invoiceResponse(inv)
	return &resp, nil
}

// Attach links an already-stored blob (headless upload flow) to the
// month record as an invoice.
func (s *InvoiceService) Attach(ctx context.Context, userID uuid.UUID, monthKey, storageID, fileName string) (*dto.InvoiceResponse, error) {
	inv, err := s.attach(ctx, userID, monthKey, storageID, fileName)
	if err != nil {
		return nil, err
	}
	resp := s.monthSvc.invoiceResponse(inv)
	return &resp, nil
}

func (s *InvoiceService) attach(ctx context.Context, userID uuid.UUID, monthKey, storageID, fileName string) (*models.Invoice, error) {
	inv := models.Invoice{
		ID:         uuid.New(),
		FileName:   fileName,
		StorageID:  storageID,
		UploadedAt: time.Now(),
	}

	err := s.monthRepo.Mutate(ctx, userID, monthKey, func(rec *models.MonthRecord) (*models.MonthRecord, error) {
		if rec == nil {
			rec = models.NewMonthRecord(userID, monthKey)
		}
		rec.UpsertInvoice(inv)
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save month record: %w", err)
	}
	return &inv, nil
}

// Extract runs the AI extraction pipeline for one invoice and persists
// the per-field results. Field-level failures are stored as field
// errors, never returned.
func (s *InvoiceService) Extract(ctx context.Context, userID uuid.UUID, monthKey string, invoiceID uuid.UUID) (*dto.InvoiceResponse, error) {
	rec, err := s.monthRepo.Get(ctx, userID, monthKey)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrMonthNotFound
	}

	target := rec.InvoiceByID(invoiceID)
	if target == nil {
		return nil, ErrInvoiceNotFound
	}

	// The AI call is slow; run it before taking the row lock and patch
	// the fields onto whatever state the record has by then.
	fields := s.extraction.ExtractInvoiceFields(ctx, s.storage.Path(target.StorageID))

	var updated *models.Invoice
	err = s.monthRepo.Mutate(ctx, userID, monthKey, func(rec *models.MonthRecord) (*models.MonthRecord, error) {
		if rec == nil {
			return nil, ErrMonthNotFound
		}
		inv := rec.InvoiceByID(invoiceID)
		if inv == nil {
			return nil, ErrInvoiceNotFound
		}
		inv.Extracted = fields
		updated = inv
		return rec, nil
	})
	if err != nil {
		return nil, err
	}

	resp := s.monthSvc.invoiceResponse(updated)
	return &resp, nil
}

// Delete removes an invoice. Bindings pointing at it are removed in the
// same patch, so the store never keeps a dangling reference; the blob is
// deleted last, after the record change is committed.
func (s *InvoiceService) Delete(ctx context.Context, userID uuid.UUID, monthKey string, invoiceID uuid.UUID) error {
	var removed *models.Invoice
	err := s.monthRepo.Mutate(ctx, userID, monthKey, func(rec *models.MonthRecord) (*models.MonthRecord, error) {
		if rec == nil {
			return nil, ErrMonthNotFound
		}
		removed = rec.RemoveInvoice(invoiceID)
		if removed == nil {
			return nil, ErrInvoiceNotFound
		}
		return rec, nil
	})
	if err != nil {
		return err
	}

	if err := s.storage.Delete(removed.StorageID); err != nil {
		s.logger.Warn("Failed to delete invoice blob",
			zap.String("storage_id", removed.StorageID),
			zap.Error(err),
		)
	}
	return nil
}
