package dietplans

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/storage"
	"github.com/healthyfood/calorie-hub/internal/userctx"
)

// HandleCreate handles POST /v1/diet-plans
func HandleCreate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		var req CreateDietPlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}

		plan, err := service.Create(r.Context(), userID, &req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(plan))
	}
}

// HandleList handles GET /v1/diet-plans
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		plans, err := service.List(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := DietPlansResponse{DietPlans: make([]DietPlanResponse, 0, len(plans))}
		for i := range plans {
			resp.DietPlans = append(resp.DietPlans, toResponse(&plans[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleGet handles GET /v1/diet-plans/{id}
func HandleGet(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid diet plan id format")
			return
		}

		plan, err := service.Get(r.Context(), userID, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(plan))
	}
}

// HandleTotals handles GET /v1/diet-plans/{id}/totals
func HandleTotals(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid diet plan id format")
			return
		}

		totals, err := service.Totals(r.Context(), userID, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, totals)
	}
}

// HandleUpdate handles PUT /v1/diet-plans/{id}
func HandleUpdate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid diet plan id format")
			return
		}

		var req UpdateDietPlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}

		plan, err := service.Update(r.Context(), userID, id, &req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(plan))
	}
}

// HandleDelete handles DELETE /v1/diet-plans/{id}
func HandleDelete(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid diet plan id format")
			return
		}

		if err := service.Delete(r.Context(), userID, id); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(plan *storage.DietPlan) DietPlanResponse {
	meals := make([]MealRequest, 0, len(plan.Meals))
	for _, m := range plan.Meals {
		meals = append(meals, MealRequest{FoodItemID: m.FoodItemID, Quantity: m.Quantity})
	}

	return DietPlanResponse{
		ID:             plan.ID,
		OwnerID:        plan.OwnerID,
		Name:           plan.Name,
		Description:    plan.Description,
		TargetCalories: plan.TargetCalories,
		TargetProtein:  plan.TargetProtein,
		TargetCarbs:    plan.TargetCarbs,
		TargetFat:      plan.TargetFat,
		Meals:          meals,
		CreatedAt:      plan.CreatedAt,
		UpdatedAt:      plan.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := apperr.As(err); ok {
		writeError(w, appErr.HTTPStatus(), appErr.Code, appErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}
