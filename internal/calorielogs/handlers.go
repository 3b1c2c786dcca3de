package calorielogs

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/storage"
	"github.com/healthyfood/calorie-hub/internal/userctx"
)

// HandleCreate handles POST /v1/calorie-logs
func HandleCreate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		var req CreateCalorieLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}

		entry, err := service.Create(r.Context(), userID, &req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(entry))
	}
}

// HandleList handles GET /v1/calorie-logs
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		entries, err := service.List(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := CalorieLogsResponse{CalorieLogs: make([]CalorieLogResponse, 0, len(entries))}
		for i := range entries {
			resp.CalorieLogs = append(resp.CalorieLogs, toResponse(&entries[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleDaily handles GET /v1/calorie-logs/daily/{date}
func HandleDaily(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		summary, err := service.Daily(r.Context(), userID, r.PathValue("date"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}

// HandleGet handles GET /v1/calorie-logs/{id}
func HandleGet(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid calorie log id format")
			return
		}

		entry, err := service.Get(r.Context(), userID, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(entry))
	}
}

// HandleUpdate handles PUT /v1/calorie-logs/{id}
func HandleUpdate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid calorie log id format")
			return
		}

		var req UpdateCalorieLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}

		entry, err := service.Update(r.Context(), userID, id, &req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(entry))
	}
}

// HandleDelete handles DELETE /v1/calorie-logs/{id}
func HandleDelete(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid calorie log id format")
			return
		}

		if err := service.Delete(r.Context(), userID, id); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(entry *storage.CalorieLog) CalorieLogResponse {
	return CalorieLogResponse{
		ID:               entry.ID,
		OwnerID:          entry.OwnerID,
		FoodItemID:       entry.FoodItemID,
		Quantity:         entry.Quantity,
		CaloriesConsumed: entry.CaloriesConsumed,
		LogDate:          entry.LogDate,
		CreatedAt:        entry.CreatedAt,
		UpdatedAt:        entry.UpdatedAt,
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
