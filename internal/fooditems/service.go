package fooditems

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/access"
	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/storage"
)

// Service — операции над справочником продуктов.
// Чтение открыто любому авторизованному пользователю,
// изменение и удаление разрешены только владельцу записи.
type Service struct {
	repo storage.FoodItemsStorage
}

func NewService(repo storage.FoodItemsStorage) *Service {
	return &Service{repo: repo}
}

// MARK: - Create

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateFoodItemRequest) (*storage.FoodItem, error) {
	if err := validateFields(req.Name, req.Calories, req.Protein, req.Carbohydrates, req.Fat); err != nil {
		return nil, err
	}

	item := &storage.FoodItem{
		OwnerID:       &ownerID,
		Name:          strings.TrimSpace(req.Name),
		Calories:      req.Calories,
		Protein:       req.Protein,
		Carbohydrates: req.Carbohydrates,
		Fat:           req.Fat,
	}

	if err := s.repo.CreateFoodItem(ctx, item); err != nil {
		return nil, apperr.Persistence(err)
	}

	return item, nil
}

// MARK: - Read

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error) {
	item, err := s.repo.GetFoodItem(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("food_item")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]storage.FoodItem, error) {
	items, err := s.repo.ListFoodItems(ctx)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return items, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID) ([]storage.FoodItem, error) {
	items, err := s.repo.ListFoodItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return items, nil
}

// MARK: - Update

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateFoodItemRequest) (*storage.FoodItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(access.EntityFoodItem, access.OpUpdate, userID, item.OwnerID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Calories != nil {
		item.Calories = *req.Calories
	}
	if req.Protein != nil {
		item.Protein = *req.Protein
	}
	if req.Carbohydrates != nil {
		item.Carbohydrates = *req.Carbohydrates
	}
	if req.Fat != nil {
		item.Fat = *req.Fat
	}

	if err := validateFields(item.Name, item.Calories, item.Protein, item.Carbohydrates, item.Fat); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFoodItem(ctx, item); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("food_item")
		}
		return nil, apperr.Persistence(err)
	}

	return item, nil
}

// MARK: - Delete

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := access.Authorize(access.EntityFoodItem, access.OpDelete, userID, item.OwnerID); err != nil {
		return err
	}

	if err := s.repo.DeleteFoodItem(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("food_item")
		}
		return apperr.Persistence(err)
	}

	return nil
}

func validateFields(name string, calories, protein, carbs, fat float64) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("invalid_request", "name is required")
	}
	if calories < 0 || protein < 0 || carbs < 0 || fat < 0 {
		return apperr.Validation("invalid_request", "nutrition values must be non-negative")
	}
	return nil
}
