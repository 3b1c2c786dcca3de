package fooditems

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/storage/memory"
	"github.com/healthyfood/calorie-hub/internal/userctx"
)

func authedRequest(method, target string, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := userctx.WithIdentity(req.Context(), userctx.Identity{UserID: userID, IsActive: true})
	return req.WithContext(ctx)
}

func TestHandleCreate(t *testing.T) {
	service := NewService(memory.NewFoodItemsMemoryStorage())
	owner := uuid.New()

	body := `{"name":"Apple","calories":52,"protein":0.3,"carbohydrates":14,"fat":0.2}`
	w := httptest.NewRecorder()
	HandleCreate(service)(w, authedRequest("POST", "/v1/food-items", body, owner))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
	}

	var resp FoodItemResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Name != "Apple" || resp.Calories != 52 {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.OwnerID == nil || *resp.OwnerID != owner {
		t.Errorf("OwnerID = %v, want %v", resp.OwnerID, owner)
	}
}

func TestHandleCreateEmptyName(t *testing.T) {
	service := NewService(memory.NewFoodItemsMemoryStorage())

	w := httptest.NewRecorder()
	HandleCreate(service)(w, authedRequest("POST", "/v1/food-items", `{"name":"  ","calories":10}`, uuid.New()))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleGetIsPublicWithinAPI(t *testing.T) {
	repo := memory.NewFoodItemsMemoryStorage()
	service := NewService(repo)
	owner := uuid.New()
	reader := uuid.New()

	item, err := service.Create(context.Background(), owner, &CreateFoodItemRequest{Name: "Rice", Calories: 130})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Чужой пользователь может читать запись каталога.
	req := authedRequest("GET", "/v1/food-items/"+item.ID.String(), "", reader)
	req.SetPathValue("id", item.ID.String())
	w := httptest.NewRecorder()
	HandleGet(service)(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestHandleGetNotFound(t *testing.T) {
	service := NewService(memory.NewFoodItemsMemoryStorage())

	req := authedRequest("GET", "/v1/food-items/"+uuid.NewString(), "", uuid.New())
	req.SetPathValue("id", uuid.NewString())
	w := httptest.NewRecorder()
	HandleGet(service)(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleUpdateMergePatch(t *testing.T) {
	service := NewService(memory.NewFoodItemsMemoryStorage())
	owner := uuid.New()

	item, err := service.Create(context.Background(), owner, &CreateFoodItemRequest{
		Name: "Oats", Calories: 389, Protein: 16.9, Carbohydrates: 66, Fat: 6.9,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := authedRequest("PUT", "/v1/food-items/"+item.ID.String(), `{"calories":380}`, owner)
	req.SetPathValue("id", item.ID.String())
	w := httptest.NewRecorder()
	HandleUpdate(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp FoodItemResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Calories != 380 {
		t.Errorf("Calories = %v, want 380", resp.Calories)
	}
	if resp.Name != "Oats" || resp.Protein != 16.9 {
		t.Errorf("untouched fields changed: %+v", resp)
	}
}

func TestHandleUpdateForeignItemForbidden(t *testing.T) {
	service := NewService(memory.NewFoodItemsMemoryStorage())
	owner := uuid.New()
	intruder := uuid.New()

	item, err := service.Create(context.Background(), owner, &CreateFoodItemRequest{Name: "Eggs", Calories: 155})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := authedRequest("PUT", "/v1/food-items/"+item.ID.String(), `{"calories":1}`, intruder)
	req.SetPathValue("id", item.ID.String())
	w := httptest.NewRecorder()
	HandleUpdate(service)(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403, body=%s", w.Code, w.Body.String())
	}
}

func TestHandleDeleteForeignItemForbidden(t *testing.T) {
	service := NewService(memory.NewFoodItemsMemoryStorage())
	owner := uuid.New()
	intruder := uuid.New()

	item, err := service.Create(context.Background(), owner, &CreateFoodItemRequest{Name: "Milk", Calories: 42})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := authedRequest("DELETE", "/v1/food-items/"+item.ID.String(), "", intruder)
	req.SetPathValue("id", item.ID.String())
	w := httptest.NewRecorder()
	HandleDelete(service)(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}

	// Запись не удалена.
	if _, err := service.Get(context.Background(), item.ID); err != nil {
		t.Errorf("item disappeared after forbidden delete: %v", err)
	}
}

func TestHandleDeleteByOwner(t *testing.T) {
	service := NewService(memory.NewFoodItemsMemoryStorage())
	owner := uuid.New()

	item, err := service.Create(context.Background(), owner, &CreateFoodItemRequest{Name: "Bread", Calories: 265})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := authedRequest("DELETE", "/v1/food-items/"+item.ID.String(), "", owner)
	req.SetPathValue("id", item.ID.String())
	w := httptest.NewRecorder()
	HandleDelete(service)(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	if _, err := service.Get(context.Background(), item.ID); err == nil {
		t.Error("item still readable after delete")
	}
}

func TestHandleListMineFiltersByOwner(t *testing.T) {
	service := NewService(memory.NewFoodItemsMemoryStorage())
	alice := uuid.New()
	bob := uuid.New()

	if _, err := service.Create(context.Background(), alice, &CreateFoodItemRequest{Name: "Tofu", Calories: 76}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := service.Create(context.Background(), bob, &CreateFoodItemRequest{Name: "Beef", Calories: 250}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	w := httptest.NewRecorder()
	HandleListMine(service)(w, authedRequest("GET", "/v1/food-items/mine", "", alice))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp FoodItemsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.FoodItems) != 1 || resp.FoodItems[0].Name != "Tofu" {
		t.Errorf("unexpected list %+v", resp.FoodItems)
	}

	// Общий список видит обе записи.
	var all FoodItemsResponse
	w = httptest.NewRecorder()
	HandleList(service)(w, authedRequest("GET", "/v1/food-items", "", alice))
	if err := json.Unmarshal(w.Body.Bytes(), &all); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(all.FoodItems) != 2 {
		t.Errorf("full list has %d items, want 2", len(all.FoodItems))
	}
}
