package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/catalog"
	"github.com/healthyfood/calorie-hub/internal/storage"
	"github.com/healthyfood/calorie-hub/internal/storage/memory"
	"github.com/healthyfood/calorie-hub/internal/userctx"
)

type fixture struct {
	handlers *Handlers
	service  *Service
	items    *memory.FoodItemsMemoryStorage
	logs     *memory.CalorieLogsMemoryStorage
}

func newFixture(maxRangeDays int) *fixture {
	items := memory.NewFoodItemsMemoryStorage()
	logs := memory.NewCalorieLogsMemoryStorage()
	generator := NewGenerator(logs, catalog.NewStorageLookup(items))
	// blobStore nil => local mode, data kept in report metadata
	service := NewService(memory.NewReportsMemoryStorage(), generator, nil, maxRangeDays, 50, 900, "", false)
	return &fixture{
		handlers: NewHandlers(service),
		service:  service,
		items:    items,
		logs:     logs,
	}
}

func (f *fixture) addFoodItem(t *testing.T, name string, calories float64) uuid.UUID {
	t.Helper()
	item := &storage.FoodItem{Name: name, Calories: calories}
	if err := f.items.CreateFoodItem(context.Background(), item); err != nil {
		t.Fatalf("CreateFoodItem() error = %v", err)
	}
	return item.ID
}

func (f *fixture) addLog(t *testing.T, owner, foodItem uuid.UUID, quantity, calories float64, date string) {
	t.Helper()
	entry := &storage.CalorieLog{
		OwnerID:          owner,
		FoodItemID:       foodItem,
		Quantity:         quantity,
		CaloriesConsumed: calories,
		LogDate:          date,
	}
	if err := f.logs.CreateCalorieLog(context.Background(), entry); err != nil {
		t.Fatalf("CreateCalorieLog() error = %v", err)
	}
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := userctx.WithIdentity(req.Context(), userctx.Identity{UserID: userID, IsActive: true})
	return req.WithContext(ctx)
}

func (f *fixture) createReport(t *testing.T, owner uuid.UUID, body string) ReportDTO {
	t.Helper()
	w := httptest.NewRecorder()
	f.handlers.HandleCreate(w, authedRequest("POST", "/v1/reports", body, owner))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201, body=%s", w.Code, w.Body.String())
	}
	var dto ReportDTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	return dto
}

func TestHandleCreateCSVReport(t *testing.T) {
	f := newFixture(90)
	owner := uuid.New()
	apple := f.addFoodItem(t, "Apple", 52)
	f.addLog(t, owner, apple, 2, 104, "2026-08-01")
	f.addLog(t, owner, apple, 1, 52, "2026-08-02")

	dto := f.createReport(t, owner, `{"from":"2026-08-01","to":"2026-08-07","format":"csv"}`)

	if dto.Status != StatusReady {
		t.Errorf("Status = %q, want %q", dto.Status, StatusReady)
	}
	if dto.SizeBytes == 0 {
		t.Error("SizeBytes = 0, want generated content")
	}
	if !strings.Contains(dto.DownloadURL, "/v1/reports/"+dto.ID.String()+"/download") {
		t.Errorf("DownloadURL = %q, want local download endpoint", dto.DownloadURL)
	}
}

func TestHandleDownloadCSVContent(t *testing.T) {
	f := newFixture(90)
	owner := uuid.New()
	apple := f.addFoodItem(t, "Apple", 52)
	f.addLog(t, owner, apple, 2, 104, "2026-08-01")

	dto := f.createReport(t, owner, `{"from":"2026-08-01","to":"2026-08-07","format":"csv"}`)

	req := authedRequest("GET", "/v1/reports/"+dto.ID.String()+"/download", "", owner)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	f.handlers.HandleDownload(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "date,food_item,quantity,calories_consumed") {
		t.Errorf("missing CSV header in %q", body)
	}
	if !strings.Contains(body, "2026-08-01,Apple,2,104.00") {
		t.Errorf("missing entry row in %q", body)
	}
}

func TestHandleCreatePDFReport(t *testing.T) {
	f := newFixture(90)
	owner := uuid.New()
	apple := f.addFoodItem(t, "Apple", 52)
	f.addLog(t, owner, apple, 1, 52, "2026-08-01")

	dto := f.createReport(t, owner, `{"from":"2026-08-01","to":"2026-08-07","format":"pdf"}`)

	req := authedRequest("GET", "/v1/reports/"+dto.ID.String()+"/download", "", owner)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	f.handlers.HandleDownload(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("download is not a PDF document")
	}
}

func TestHandleCreateValidation(t *testing.T) {
	f := newFixture(30)
	owner := uuid.New()

	cases := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"unknown format", `{"from":"2026-08-01","to":"2026-08-02","format":"xlsx"}`, "invalid_format"},
		{"bad date", `{"from":"01.08.2026","to":"2026-08-02","format":"csv"}`, "invalid_date"},
		{"inverted range", `{"from":"2026-08-10","to":"2026-08-01","format":"csv"}`, "invalid_range"},
		{"range too large", `{"from":"2026-01-01","to":"2026-08-01","format":"csv"}`, "range_too_large"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			f.handlers.HandleCreate(w, authedRequest("POST", "/v1/reports", tc.body, owner))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tc.wantCode) {
				t.Errorf("body = %s, want code %s", w.Body.String(), tc.wantCode)
			}
		})
	}
}

func TestHandleDownloadForeignReportForbidden(t *testing.T) {
	f := newFixture(90)
	owner := uuid.New()
	intruder := uuid.New()

	dto := f.createReport(t, owner, `{"from":"2026-08-01","to":"2026-08-02","format":"csv"}`)

	req := authedRequest("GET", "/v1/reports/"+dto.ID.String()+"/download", "", intruder)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	f.handlers.HandleDownload(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403, body=%s", w.Code, w.Body.String())
	}
}

func TestHandleDeleteReport(t *testing.T) {
	f := newFixture(90)
	owner := uuid.New()

	dto := f.createReport(t, owner, `{"from":"2026-08-01","to":"2026-08-02","format":"csv"}`)

	req := authedRequest("DELETE", "/v1/reports/"+dto.ID.String(), "", owner)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	f.handlers.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	req = authedRequest("GET", "/v1/reports/"+dto.ID.String()+"/download", "", owner)
	req.SetPathValue("id", dto.ID.String())
	w = httptest.NewRecorder()
	f.handlers.HandleDownload(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", w.Code)
	}
}

func TestHandleDeleteForeignReportForbidden(t *testing.T) {
	f := newFixture(90)
	owner := uuid.New()
	intruder := uuid.New()

	dto := f.createReport(t, owner, `{"from":"2026-08-01","to":"2026-08-02","format":"csv"}`)

	req := authedRequest("DELETE", "/v1/reports/"+dto.ID.String(), "", intruder)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	f.handlers.HandleDelete(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestHandleListOnlyOwn(t *testing.T) {
	f := newFixture(90)
	alice := uuid.New()
	bob := uuid.New()

	f.createReport(t, alice, `{"from":"2026-08-01","to":"2026-08-02","format":"csv"}`)
	f.createReport(t, bob, `{"from":"2026-08-01","to":"2026-08-02","format":"csv"}`)

	w := httptest.NewRecorder()
	f.handlers.HandleList(w, authedRequest("GET", "/v1/reports", "", alice))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp ReportsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.Reports) != 1 {
		t.Fatalf("len(Reports) = %d, want 1", len(resp.Reports))
	}
	if resp.Reports[0].OwnerID != alice {
		t.Errorf("OwnerID = %v, want %v", resp.Reports[0].OwnerID, alice)
	}
}

func TestReportSkipsDeletedFoodItem(t *testing.T) {
	f := newFixture(90)
	owner := uuid.New()
	apple := f.addFoodItem(t, "Apple", 52)
	f.addLog(t, owner, apple, 1, 52, "2026-08-01")

	// Продукт удалён после записи в дневник; отчёт помечает строку.
	if err := f.items.DeleteFoodItem(context.Background(), apple); err != nil {
		t.Fatalf("DeleteFoodItem() error = %v", err)
	}

	dto := f.createReport(t, owner, `{"from":"2026-08-01","to":"2026-08-02","format":"csv"}`)

	req := authedRequest("GET", "/v1/reports/"+dto.ID.String()+"/download", "", owner)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	f.handlers.HandleDownload(w, req)

	if !strings.Contains(w.Body.String(), "(deleted)") {
		t.Errorf("body = %q, want deleted marker", w.Body.String())
	}
}
