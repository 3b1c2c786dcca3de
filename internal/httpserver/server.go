package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/healthyfood/calorie-hub/internal/auth"
	"github.com/healthyfood/calorie-hub/internal/blob"
	"github.com/healthyfood/calorie-hub/internal/calorielogs"
	"github.com/healthyfood/calorie-hub/internal/catalog"
	"github.com/healthyfood/calorie-hub/internal/config"
	"github.com/healthyfood/calorie-hub/internal/dietplans"
	"github.com/healthyfood/calorie-hub/internal/fooditems"
	"github.com/healthyfood/calorie-hub/internal/nutrition"
	"github.com/healthyfood/calorie-hub/internal/reports"
	"github.com/healthyfood/calorie-hub/internal/storage"
	"github.com/healthyfood/calorie-hub/internal/storage/memory"
	"github.com/healthyfood/calorie-hub/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
	} else {
		log.Println("Подключение к PostgreSQL...")
		ctx := context.Background()
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("Ошибка подключения к PostgreSQL: %v", err)
			log.Println("Fallback на in-memory storage")
			s.storage = memory.New()
		} else {
			log.Println("PostgreSQL подключен успешно")
			s.storage = pgStorage
		}
	}
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (register/login are public, me/logout require a token)
	users := s.storage.GetUsersStorage()
	authService := auth.NewService(s.config, users)
	authHandlers := auth.NewHandlers(authService, users)
	s.authMiddleware = auth.NewMiddleware(authService, users)

	// POST /v1/auth/register - create account
	s.mux.HandleFunc("POST /v1/auth/register", authHandlers.HandleRegister)

	// POST /v1/auth/login - exchange credentials for a JWT
	s.mux.HandleFunc("POST /v1/auth/login", authHandlers.HandleLogin)

	// GET /v1/auth/me - current user
	s.mux.HandleFunc("GET /v1/auth/me", authHandlers.HandleMe)

	// POST /v1/auth/logout - stateless logout
	s.mux.HandleFunc("POST /v1/auth/logout", authHandlers.HandleLogout)

	// Food catalog API
	// Каталог общий: читать может любой авторизованный, менять только владелец.
	foodItemsStorage := s.storage.GetFoodItemsStorage()
	foodLookup := catalog.NewStorageLookup(foodItemsStorage)
	aggregator := nutrition.NewAggregator(foodLookup)
	foodItemsService := fooditems.NewService(foodItemsStorage)

	// POST /v1/food-items - create food item
	s.mux.HandleFunc("POST /v1/food-items", fooditems.HandleCreate(foodItemsService))

	// GET /v1/food-items - list full catalog
	s.mux.HandleFunc("GET /v1/food-items", fooditems.HandleList(foodItemsService))

	// GET /v1/food-items/mine - list caller's items
	s.mux.HandleFunc("GET /v1/food-items/mine", fooditems.HandleListMine(foodItemsService))

	// GET /v1/food-items/{id} - get food item
	s.mux.HandleFunc("GET /v1/food-items/{id}", fooditems.HandleGet(foodItemsService))

	// PUT /v1/food-items/{id} - update food item
	s.mux.HandleFunc("PUT /v1/food-items/{id}", fooditems.HandleUpdate(foodItemsService))

	// DELETE /v1/food-items/{id} - delete food item
	s.mux.HandleFunc("DELETE /v1/food-items/{id}", fooditems.HandleDelete(foodItemsService))

	// Diet plans API
	dietPlansService := dietplans.NewService(
		s.storage.GetDietPlansStorage(),
		dietplans.NewValidator(foodLookup),
		aggregator,
	)

	// POST /v1/diet-plans - create diet plan
	s.mux.HandleFunc("POST /v1/diet-plans", dietplans.HandleCreate(dietPlansService))

	// GET /v1/diet-plans - list own diet plans
	s.mux.HandleFunc("GET /v1/diet-plans", dietplans.HandleList(dietPlansService))

	// GET /v1/diet-plans/{id} - get diet plan
	s.mux.HandleFunc("GET /v1/diet-plans/{id}", dietplans.HandleGet(dietPlansService))

	// GET /v1/diet-plans/{id}/totals - aggregated calories and macros
	s.mux.HandleFunc("GET /v1/diet-plans/{id}/totals", dietplans.HandleTotals(dietPlansService))

	// PUT /v1/diet-plans/{id} - update diet plan
	s.mux.HandleFunc("PUT /v1/diet-plans/{id}", dietplans.HandleUpdate(dietPlansService))

	// DELETE /v1/diet-plans/{id} - delete diet plan
	s.mux.HandleFunc("DELETE /v1/diet-plans/{id}", dietplans.HandleDelete(dietPlansService))

	// Calorie logs API
	calorieLogsStorage := s.storage.GetCalorieLogsStorage()
	calorieLogsService := calorielogs.NewService(calorieLogsStorage, aggregator)

	// POST /v1/calorie-logs - add diary entry
	s.mux.HandleFunc("POST /v1/calorie-logs", calorielogs.HandleCreate(calorieLogsService))

	// GET /v1/calorie-logs - list own entries
	s.mux.HandleFunc("GET /v1/calorie-logs", calorielogs.HandleList(calorieLogsService))

	// GET /v1/calorie-logs/daily/{date} - entries and total for a day
	s.mux.HandleFunc("GET /v1/calorie-logs/daily/{date}", calorielogs.HandleDaily(calorieLogsService))

	// GET /v1/calorie-logs/{id} - get entry
	s.mux.HandleFunc("GET /v1/calorie-logs/{id}", calorielogs.HandleGet(calorieLogsService))

	// PUT /v1/calorie-logs/{id} - update entry
	s.mux.HandleFunc("PUT /v1/calorie-logs/{id}", calorielogs.HandleUpdate(calorieLogsService))

	// DELETE /v1/calorie-logs/{id} - delete entry
	s.mux.HandleFunc("DELETE /v1/calorie-logs/{id}", calorielogs.HandleDelete(calorieLogsService))

	// Reports API
	blobStore := s.initBlobStore()
	reportsGenerator := reports.NewGenerator(calorieLogsStorage, foodLookup)
	reportsService := reports.NewService(
		s.storage.GetReportsStorage(),
		reportsGenerator,
		blobStore,
		s.config.ReportsMaxRangeDays,
		s.config.ReportsListLimit,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
	)
	reportsHandler := reports.NewHandlers(reportsService)

	// POST /v1/reports - create report
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)

	// GET /v1/reports - list reports
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)

	// GET /v1/reports/{id}/download - download report
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)

	// DELETE /v1/reports/{id} - delete report
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// initBlobStore initializes the blob store for report files.
// Local mode keeps report data in storage, S3 mode uploads to object storage.
func (s *Server) initBlobStore() blob.Store {
	log.Printf("INFO blob: initializing reports store (BLOB_MODE=%s)", s.config.Blob.Mode)
	store, mode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize reports store: %v", err)
	}
	log.Printf("INFO blob: reports blob mode: %s", mode)
	return store
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	handler = s.authMiddleware.RequireAuth(handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Auth API: http://localhost%s/v1/auth/register\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
