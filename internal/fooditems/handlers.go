package fooditems

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/storage"
	"github.com/healthyfood/calorie-hub/internal/userctx"
)

// HandleCreate handles POST /v1/food-items
func HandleCreate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		var req CreateFoodItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}

		item, err := service.Create(r.Context(), userID, &req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(item))
	}
}

// HandleList handles GET /v1/food-items
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := service.List(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toListResponse(items))
	}
}

// HandleListMine handles GET /v1/food-items/mine
func HandleListMine(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		items, err := service.ListMine(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toListResponse(items))
	}
}

// HandleGet handles GET /v1/food-items/{id}
func HandleGet(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid food item id format")
			return
		}

		item, err := service.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(item))
	}
}

// HandleUpdate handles PUT /v1/food-items/{id}
func HandleUpdate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid food item id format")
			return
		}

		var req UpdateFoodItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}

		item, err := service.Update(r.Context(), userID, id, &req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(item))
	}
}

// HandleDelete handles DELETE /v1/food-items/{id}
func HandleDelete(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid food item id format")
			return
		}

		if err := service.Delete(r.Context(), userID, id); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(item *storage.FoodItem) FoodItemResponse {
	return FoodItemResponse{
		ID:            item.ID,
		OwnerID:       item.OwnerID,
		Name:          item.Name,
		Calories:      item.Calories,
		Protein:       item.Protein,
		Carbohydrates: item.Carbohydrates,
		Fat:           item.Fat,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func toListResponse(items []storage.FoodItem) FoodItemsResponse {
	resp := FoodItemsResponse{FoodItems: make([]FoodItemResponse, 0, len(items))}
	for i := range items {
		resp.FoodItems = append(resp.FoodItems, toResponse(&items[i]))
	}
	return resp
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
