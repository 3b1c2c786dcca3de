package dietplans

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/access"
	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/nutrition"
	"github.com/healthyfood/calorie-hub/internal/storage"
)

// Service — операции над планами питания. Все операции ограничены владельцем.
type Service struct {
	repo       storage.DietPlansStorage
	validator  *Validator
	aggregator *nutrition.Aggregator
}

func NewService(repo storage.DietPlansStorage, validator *Validator, aggregator *nutrition.Aggregator) *Service {
	return &Service{
		repo:       repo,
		validator:  validator,
		aggregator: aggregator,
	}
}

// MARK: - Create

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateDietPlanRequest) (*storage.DietPlan, error) {
	plan := &storage.DietPlan{
		OwnerID:        ownerID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		TargetCalories: req.TargetCalories,
		TargetProtein:  req.TargetProtein,
		TargetCarbs:    req.TargetCarbs,
		TargetFat:      req.TargetFat,
		Meals:          toMeals(req.Meals),
	}

	if err := s.validator.Validate(ctx, plan); err != nil {
		return nil, err
	}

	if err := s.repo.CreateDietPlan(ctx, plan); err != nil {
		return nil, apperr.Persistence(err)
	}

	return plan, nil
}

// MARK: - Read

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*storage.DietPlan, error) {
	plan, err := s.repo.GetDietPlan(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("diet_plan")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	if err := access.Authorize(access.EntityDietPlan, access.OpRead, userID, &plan.OwnerID); err != nil {
		return nil, err
	}

	return plan, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]storage.DietPlan, error) {
	plans, err := s.repo.ListDietPlans(ctx, ownerID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return plans, nil
}

// Totals считает суммарные калории и макросы по блюдам плана.
// Продукты, удалённые из каталога после сохранения плана, не учитываются.
func (s *Service) Totals(ctx context.Context, userID, id uuid.UUID) (*TotalsResponse, error) {
	plan, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	totals, err := s.aggregator.AggregatePlan(ctx, plan.Meals)
	if err != nil {
		return nil, err
	}

	return &TotalsResponse{PlanID: plan.ID, Totals: totals}, nil
}

// MARK: - Update

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateDietPlanRequest) (*storage.DietPlan, error) {
	plan, err := s.repo.GetDietPlan(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("diet_plan")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	if err := access.Authorize(access.EntityDietPlan, access.OpUpdate, userID, &plan.OwnerID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		plan.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		plan.Description = req.Description
	}
	if req.TargetCalories != nil {
		plan.TargetCalories = req.TargetCalories
	}
	if req.TargetProtein != nil {
		plan.TargetProtein = req.TargetProtein
	}
	if req.TargetCarbs != nil {
		plan.TargetCarbs = req.TargetCarbs
	}
	if req.TargetFat != nil {
		plan.TargetFat = req.TargetFat
	}
	if req.Meals != nil {
		plan.Meals = toMeals(*req.Meals)
	}

	if err := s.validator.Validate(ctx, plan); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDietPlan(ctx, plan); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("diet_plan")
		}
		return nil, apperr.Persistence(err)
	}

	return plan, nil
}

// MARK: - Delete

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	plan, err := s.repo.GetDietPlan(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("diet_plan")
	}
	if err != nil {
		return apperr.Persistence(err)
	}

	if err := access.Authorize(access.EntityDietPlan, access.OpDelete, userID, &plan.OwnerID); err != nil {
		return err
	}

	if err := s.repo.DeleteDietPlan(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("diet_plan")
		}
		return apperr.Persistence(err)
	}

	return nil
}

func toMeals(reqs []MealRequest) []storage.Meal {
	meals := make([]storage.Meal, 0, len(reqs))
	for _, m := range reqs {
		meals = append(meals, storage.Meal{FoodItemID: m.FoodItemID, Quantity: m.Quantity})
	}
	return meals
}
