package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"commerce-assistant-be/internal/bootstrap"
	"commerce-assistant-be/internal/config"
	"commerce-assistant-be/internal/dto"
	"commerce-assistant-be/internal/server"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func adminToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": "ops-dashboard",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAssistantAPIFlow(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	os.Setenv("JWT_SECRET", "integration_secret")
	os.Setenv("CACHE_BACKEND", "memory")
	os.Setenv("CACHE_PREWARM_ON_BOOT", "false")

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go container.CacheCommands.Run(ctx)

	// 1. Chat over POST assigns a session and classifies.
	body := strings.NewReader(`{"message":"Where's my order #9912","visitorId":"visitor_itest"}`)
	req := httptest.NewRequest("POST", "/api/assistant/v1/chat", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var chat dto.ChatResponse
	raw, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &chat))
	assert.Equal(t, "order_status", chat.Intent)
	assert.NotNil(t, chat.Session)
	assert.NotEmpty(t, chat.Session.ID)
	assert.Contains(t, chat.Response.Text, "9912")
	assert.False(t, chat.Offline)

	// 2. Chat over GET reuses the session.
	req = httptest.NewRequest("GET", "/api/assistant/v1/chat?message=talk+to+someone&visitorId=visitor_itest&sessionId="+chat.Session.ID, nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var second dto.ChatResponse
	raw, _ = io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &second))
	assert.Equal(t, chat.Session.ID, second.Session.ID)
	assert.Equal(t, "contact_human", second.Intent)

	// 3. Missing fields are rejected.
	req = httptest.NewRequest("GET", "/api/assistant/v1/chat?message=hello", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	// 4. Knowledge endpoints serve their documents.
	req = httptest.NewRequest("GET", "/api/assistant/v1/knowledge/faq", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	raw, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "Frequently asked questions")

	req = httptest.NewRequest("GET", "/api/assistant/v1/knowledge/pricing", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestCacheAdminRequiresAuth(t *testing.T) {
	os.Setenv("JWT_SECRET", "integration_secret")
	os.Setenv("CACHE_BACKEND", "memory")
	os.Setenv("CACHE_PREWARM_ON_BOOT", "false")

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go container.CacheCommands.Run(ctx)

	// No token: rejected.
	req := httptest.NewRequest("GET", "/api/cache/v1/status", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	// Valid token: status envelope.
	req = httptest.NewRequest("GET", "/api/cache/v1/status", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Success bool            `json:"success"`
		Data    dto.CacheStatus `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &envelope))
	assert.True(t, envelope.Success)

	// Clear with a valid token succeeds on empty partitions.
	req = httptest.NewRequest("DELETE", "/api/cache/v1", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
