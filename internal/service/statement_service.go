package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"invotrack/internal/dto"
	"invotrack/internal/models"
	"invotrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatementService manages bank statement uploads. CSV statements are
// parsed into transactions on ingestion; the transactions live inside
// the statement and disappear with it.
type StatementService struct {
	monthRepo *repository.MonthRepository
	monthSvc  *MonthService
	storage   *StorageService
	logger    *zap.Logger
}

func NewStatementService(
	monthRepo *repository.MonthRepository,
	monthSvc *MonthService,
	storage *StorageService,
	logger *zap.Logger,
) *StatementService {
	return &StatementService{
		monthRepo: monthRepo,
		monthSvc:  monthSvc,
		storage:   storage,
		logger:    logger,
	}
}

// Upload stores a statement file and attaches it to the month. CSV
// content is read back and parsed; PDF statements are kept as documents
// only.
func (s *StatementService) Upload(ctx context.Context, userID uuid.UUID, monthKey string, file io.Reader, fileName string) (*dto.StatementResponse, error) {
	fileType := "pdf"
	if strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		fileType = "csv"
	}

	var csvContent string
	var toStore io.Reader = file
	if fileType == "csv" {
		raw, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read statement: %w", err)
		}
		csvContent = string(raw)
		toStore = strings.NewReader(csvContent)
	}

	storageID, size, err := s.storage.Store(toStore, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to store statement: %w", err)
	}

	st, err := s.attach(ctx, userID, monthKey, storageID, fileName, fileType, csvContent)
	if err != nil {
		if delErr := s.storage.Delete(storageID); delErr != nil {
			s.logger.Warn("Failed to clean up stored statement", zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Statement uploaded",
		zap.String("month", monthKey),
		zap.String("type", fileType),
		zap.Int("transactions", len(st.Transactions)),
		zap.Int64("size", size),
	)

	resp := s.monthSvc.statementResponse(st)
	return &resp, nil
}

// Attach links an already-stored blob (headless flow) as a statement,
// parsing csvContent when the statement is a CSV export.
func (s *StatementService) Attach(ctx context.Context, userID uuid.UUID, monthKey, storageID, fileName, fileType, csvContent string) (*dto.StatementResponse, error) {
	st, err := s.attach(ctx, userID, monthKey, storageID, fileName, fileType, csvContent)
	if err != nil {
		return nil, err
	}
	resp := s.monthSvc.statementResponse(st)
	return &resp, nil
}

func (s *StatementService) attach(ctx context.Context, userID uuid.UUID, monthKey, storageID, fileName, fileType, csvContent string) (*models.Statement, error) {
	st := models.Statement{
		ID:         uuid.New(),
		FileName:   fileName,
		FileType:   fileType,
		StorageID:  storageID,
		UploadedAt: time.Now(),
	}
	if fileType == "csv" {
		st.Transactions = ParseStatementCSV(csvContent)
	}

	err := s.monthRepo.Mutate(ctx, userID, monthKey, func(rec *models.MonthRecord) (*models.MonthRecord, error) {
		if rec == nil {
			rec = models.NewMonthRecord(userID, monthKey)
		}
		rec.Statements = append(rec.Statements, st)
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save month record: %w", err)
	}
	return &st, nil
}

// Delete removes a statement, its transactions and the bindings keyed
// by those transactions, then the stored blob.
func (s *StatementService) Delete(ctx context.Context, userID uuid.UUID, monthKey string, statementID uuid.UUID) error {
	var removed *models.Statement
	err := s.monthRepo.Mutate(ctx, userID, monthKey, func(rec *models.MonthRecord) (*models.MonthRecord, error) {
		if rec == nil {
			return nil, ErrMonthNotFound
		}
		removed = rec.RemoveStatement(statementID)
		if removed == nil {
			return nil, ErrStatementNotFound
		}
		return rec, nil
	})
	if err != nil {
		return err
	}

	if err := s.storage.Delete(removed.StorageID); err != nil {
		s.logger.Warn("Failed to delete statement blob",
			zap.String("storage_id", removed.StorageID),
			zap.Error(err),
		)
	}
	return nil
}
