package calorielogs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/access"
	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/nutrition"
	"github.com/healthyfood/calorie-hub/internal/storage"
)

const dateLayout = "2006-01-02"

// Service — операции над дневником калорий. Записи видны только владельцу,
// calories_consumed всегда выводится из каталога, с клиента не принимается.
type Service struct {
	repo       storage.CalorieLogsStorage
	aggregator *nutrition.Aggregator
}

func NewService(repo storage.CalorieLogsStorage, aggregator *nutrition.Aggregator) *Service {
	return &Service{repo: repo, aggregator: aggregator}
}

// MARK: - Create

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateCalorieLogRequest) (*storage.CalorieLog, error) {
	if req.FoodItemID == uuid.Nil {
		return nil, apperr.Validation("invalid_request", "food_item_id is required")
	}
	if req.Quantity <= 0 {
		return nil, apperr.Validation("nonpositive_quantity", "quantity must be positive")
	}

	logDate, err := normalizeDate(req.LogDate)
	if err != nil {
		return nil, err
	}

	calories, err := s.aggregator.ConsumedCalories(ctx, req.FoodItemID, req.Quantity)
	if err != nil {
		return nil, err
	}

	entry := &storage.CalorieLog{
		OwnerID:          ownerID,
		FoodItemID:       req.FoodItemID,
		Quantity:         req.Quantity,
		CaloriesConsumed: calories,
		LogDate:          logDate,
	}

	if err := s.repo.CreateCalorieLog(ctx, entry); err != nil {
		return nil, apperr.Persistence(err)
	}

	return entry, nil
}

// MARK: - Read

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*storage.CalorieLog, error) {
	entry, err := s.repo.GetCalorieLog(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("calorie_log")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	if err := access.Authorize(access.EntityCalorieLog, access.OpRead, userID, &entry.OwnerID); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]storage.CalorieLog, error) {
	entries, err := s.repo.ListCalorieLogs(ctx, ownerID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return entries, nil
}

// Daily возвращает записи за день и сумму calories_consumed.
func (s *Service) Daily(ctx context.Context, ownerID uuid.UUID, date string) (*DailySummaryResponse, error) {
	normalized, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListCalorieLogsByDate(ctx, ownerID, normalized)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	summary := &DailySummaryResponse{
		Date:        normalized,
		CalorieLogs: make([]CalorieLogResponse, 0, len(entries)),
	}
	for i := range entries {
		summary.TotalCalories += entries[i].CaloriesConsumed
		summary.CalorieLogs = append(summary.CalorieLogs, toResponse(&entries[i]))
	}

	return summary, nil
}

// MARK: - Update

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateCalorieLogRequest) (*storage.CalorieLog, error) {
	entry, err := s.repo.GetCalorieLog(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("calorie_log")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	if err := access.Authorize(access.EntityCalorieLog, access.OpUpdate, userID, &entry.OwnerID); err != nil {
		return nil, err
	}

	if req.FoodItemID != nil {
		if *req.FoodItemID == uuid.Nil {
			return nil, apperr.Validation("invalid_request", "food_item_id must not be empty")
		}
		entry.FoodItemID = *req.FoodItemID
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, apperr.Validation("nonpositive_quantity", "quantity must be positive")
		}
		entry.Quantity = *req.Quantity
	}
	if req.LogDate != nil {
		logDate, err := normalizeDate(*req.LogDate)
		if err != nil {
			return nil, err
		}
		entry.LogDate = logDate
	}

	calories, err := s.aggregator.ConsumedCalories(ctx, entry.FoodItemID, entry.Quantity)
	if err != nil {
		return nil, err
	}
	entry.CaloriesConsumed = calories

	if err := s.repo.UpdateCalorieLog(ctx, entry); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("calorie_log")
		}
		return nil, apperr.Persistence(err)
	}

	return entry, nil
}

// MARK: - Delete

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	entry, err := s.repo.GetCalorieLog(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("calorie_log")
	}
	if err != nil {
		return apperr.Persistence(err)
	}

	if err := access.Authorize(access.EntityCalorieLog, access.OpDelete, userID, &entry.OwnerID); err != nil {
		return err
	}

	if err := s.repo.DeleteCalorieLog(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("calorie_log")
		}
		return apperr.Persistence(err)
	}

	return nil
}

// normalizeDate проверяет формат YYYY-MM-DD; пустая дата — сегодня (UTC).
func normalizeDate(date string) (string, error) {
	if date == "" {
		return time.Now().UTC().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", apperr.Validation("invalid_date", "date must be in YYYY-MM-DD format")
	}
	return date, nil
}
