package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eatwise/eatwise-backend/api/controllers"
	"github.com/eatwise/eatwise-backend/internal/articles"
	"github.com/eatwise/eatwise-backend/internal/auth"
	"github.com/eatwise/eatwise-backend/internal/food"
	"github.com/eatwise/eatwise-backend/internal/users"
	pkgAuth "github.com/eatwise/eatwise-backend/pkg/auth"
	"github.com/eatwise/eatwise-backend/pkg/config"
	"github.com/eatwise/eatwise-backend/pkg/db/models"
	"github.com/eatwise/eatwise-backend/pkg/enums"
	"github.com/eatwise/eatwise-backend/pkg/logger"
	"github.com/eatwise/eatwise-backend/pkg/metrics"
	"github.com/eatwise/eatwise-backend/pkg/redis"
)

type stubFoodService struct {
	calls []string
}

func (s *stubFoodService) List(ctx context.Context) ([]models.FoodItem, error) {
	s.calls = append(s.calls, "list")
	return []models.FoodItem{}, nil
}

func (s *stubFoodService) Get(ctx context.Context, id string) (*models.FoodItem, error) {
	s.calls = append(s.calls, "get:"+id)
	return &models.FoodItem{}, nil
}

func (s *stubFoodService) Search(ctx context.Context, query string) ([]models.FoodItem, error) {
	s.calls = append(s.calls, "search:"+query)
	return []models.FoodItem{}, nil
}

func (s *stubFoodService) Create(ctx context.Context, req food.CreateFoodRequest) (*models.FoodItem, error) {
	s.calls = append(s.calls, "create")
	return &models.FoodItem{}, nil
}

func (s *stubFoodService) Seed(ctx context.Context) (*food.SeedResult, error) {
	s.calls = append(s.calls, "seed")
	return &food.SeedResult{Inserted: 5}, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "token"}, nil
}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubUserService struct{}

func (stubUserService) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubUserService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req users.UpdatePreferencesRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

type stubArticleService struct{}

func (stubArticleService) List(ctx context.Context, q articles.ListQuery) (*articles.ListResult, error) {
	return &articles.ListResult{Articles: []models.BlogArticle{}}, nil
}

func (stubArticleService) View(ctx context.Context, slug string) (*models.BlogArticle, error) {
	return &models.BlogArticle{Slug: slug}, nil
}

func (stubArticleService) Create(ctx context.Context, authorID uuid.UUID, req articles.CreateArticleRequest) (*models.BlogArticle, error) {
	return &models.BlogArticle{AuthorID: authorID, Title: req.Title}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, foodSvc *stubFoodService) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := prometheus.NewRegistry()
	return NewRouter(
		cfg,
		logg,
		registry,
		metrics.NewHTTPMetrics(registry),
		(*redis.Client)(nil),
		[]controllers.ReadinessCheck{{Name: "postgres", Ping: func(context.Context) error { return nil }}},
		Services{
			Food:     foodSvc,
			Auth:     stubAuthService{},
			Users:    stubUserService{},
			Articles: stubArticleService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestSearchRouteTakesPrecedenceOverID(t *testing.T) {
	foodSvc := &stubFoodService{}
	router := newTestRouter(testConfig(), foodSvc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/food/search?q=oats", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/food/abc", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	want := []string{"search:oats", "get:abc"}
	if strings.Join(foodSvc.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected dispatch %v", foodSvc.calls)
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	router := newTestRouter(testConfig(), &stubFoodService{})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "NOT_FOUND" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(testConfig(), &stubFoodService{})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/food", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Method Not Allowed") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestUsersRoutesRequireJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubFoodService{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestAdminBlogRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubFoodService{})
	payload := `{"title":"Halal basics","content":"What to look for."}`

	nonAdmin := httptest.NewRequest(http.MethodPost, "/admin/blog", strings.NewReader(payload))
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/admin/blog", strings.NewReader(payload))
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin got %d", resp.Code)
	}
}

func TestSeedRouteOpenByDefault(t *testing.T) {
	foodSvc := &stubFoodService{}
	router := newTestRouter(testConfig(), foodSvc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/admin/seed-food", nil))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if len(foodSvc.calls) != 1 || foodSvc.calls[0] != "seed" {
		t.Fatalf("expected seed call, got %v", foodSvc.calls)
	}
}

func TestSeedRouteRequiresAdminWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Admin.SeedRequireAuth = true
	foodSvc := &stubFoodService{}
	router := newTestRouter(cfg, foodSvc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/admin/seed-food", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/seed-food", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin got %d", resp.Code)
	}
	if len(foodSvc.calls) != 1 {
		t.Fatalf("expected exactly one seed call, got %v", foodSvc.calls)
	}
}

func TestMetricsEndpointExportsRequestCounts(t *testing.T) {
	router := newTestRouter(testConfig(), &stubFoodService{})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/food", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `http_requests_total{method="GET",route="/food`) {
		t.Fatalf("expected /food route label in metrics output")
	}
}

func TestHealthReady(t *testing.T) {
	router := newTestRouter(testConfig(), &stubFoodService{})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
