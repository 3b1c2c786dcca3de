package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase  string
	token    string
	client   = &http.Client{Timeout: 30 * time.Second}
	testDate string

	// created resources, filled step by step
	username   string
	foodItemID string
	dietPlanID string
	logID      string
	reportID   string
)

func main() {
	fmt.Println("=== Calorie Hub E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Println()

	testDate = time.Now().UTC().Format("2006-01-02")
	username = fmt.Sprintf("smoke_%d", time.Now().UnixNano())

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Register", testRegister},
		{"Login", testLogin},
		{"Create Food Item", testCreateFoodItem},
		{"Create Calorie Log", testCreateCalorieLog},
		{"Daily Summary", testDailySummary},
		{"Create Diet Plan", testCreateDietPlan},
		{"Diet Plan Totals", testDietPlanTotals},
		{"Create Report (CSV)", testCreateReport},
		{"List Reports", testListReports},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
		{"Cleanup", testCleanup},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	resp, err := doRequest("GET", "/healthz", nil, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectStatus(resp, http.StatusOK)
}

func testRegister() error {
	body := map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "smoke_password_123",
	}
	resp, err := doRequest("POST", "/v1/auth/register", body, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.AccessToken == "" {
		return fmt.Errorf("empty access_token in register response")
	}
	return nil
}

func testLogin() error {
	body := map[string]string{
		"username": username,
		"password": "smoke_password_123",
	}
	resp, err := doRequest("POST", "/v1/auth/login", body, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.AccessToken == "" {
		return fmt.Errorf("empty access_token")
	}
	token = result.AccessToken
	return nil
}

func testCreateFoodItem() error {
	body := map[string]interface{}{
		"name":          "Smoke Apple",
		"calories":      52,
		"protein":       0.3,
		"carbohydrates": 14,
		"fat":           0.2,
	}
	resp, err := doRequest("POST", "/v1/food-items", body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	foodItemID = result.ID
	return nil
}

func testCreateCalorieLog() error {
	body := map[string]interface{}{
		"food_item_id": foodItemID,
		"quantity":     2,
		"log_date":     testDate,
	}
	resp, err := doRequest("POST", "/v1/calorie-logs", body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var result struct {
		ID               string  `json:"id"`
		CaloriesConsumed float64 `json:"calories_consumed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.CaloriesConsumed != 104 {
		return fmt.Errorf("calories_consumed=%v, want 104", result.CaloriesConsumed)
	}
	logID = result.ID
	return nil
}

func testDailySummary() error {
	resp, err := doRequest("GET", "/v1/calorie-logs/daily/"+testDate, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		TotalCalories float64 `json:"total_calories"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.TotalCalories != 104 {
		return fmt.Errorf("total_calories=%v, want 104", result.TotalCalories)
	}
	return nil
}

func testCreateDietPlan() error {
	body := map[string]interface{}{
		"name":            "Smoke Plan",
		"target_calories": 1800,
		"meals": []map[string]interface{}{
			{"food_item_id": foodItemID, "quantity": 2},
		},
	}
	resp, err := doRequest("POST", "/v1/diet-plans", body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	dietPlanID = result.ID
	return nil
}

func testDietPlanTotals() error {
	resp, err := doRequest("GET", "/v1/diet-plans/"+dietPlanID+"/totals", nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		TotalCalories float64 `json:"total_calories"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.TotalCalories != 104 {
		return fmt.Errorf("total_calories=%v, want 104", result.TotalCalories)
	}
	return nil
}

func testCreateReport() error {
	body := map[string]string{
		"from":   testDate,
		"to":     testDate,
		"format": "csv",
	}
	resp, err := doRequest("POST", "/v1/reports", body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.Status != "ready" {
		return fmt.Errorf("status=%q, want ready", result.Status)
	}
	reportID = result.ID
	return nil
}

func testListReports() error {
	resp, err := doRequest("GET", "/v1/reports", nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	for _, r := range result.Reports {
		if r.ID == reportID {
			return nil
		}
	}
	return fmt.Errorf("created report %s not in list", reportID)
}

func testDownloadReport() error {
	resp, err := doRequest("GET", "/v1/reports/"+reportID+"/download", nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Local mode serves the file, S3 mode redirects
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

func testDeleteReport() error {
	resp, err := doRequest("DELETE", "/v1/reports/"+reportID, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectStatus(resp, http.StatusNoContent)
}

func testCleanup() error {
	for _, target := range []string{
		"/v1/calorie-logs/" + logID,
		"/v1/diet-plans/" + dietPlanID,
		"/v1/food-items/" + foodItemID,
	} {
		resp, err := doRequest("DELETE", target, nil, true)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			return fmt.Errorf("DELETE %s: status=%d", target, resp.StatusCode)
		}
	}
	return nil
}

// ---- helpers ----

func doRequest(method, path string, body interface{}, authed bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return client.Do(req)
}

func expectStatus(resp *http.Response, want int) error {
	if resp.StatusCode != want {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d want=%d body=%s", resp.StatusCode, want, string(body))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
