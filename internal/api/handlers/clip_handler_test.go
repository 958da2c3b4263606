package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"recipeclip/domain"
	"recipeclip/internal/middleware"
	"recipeclip/internal/utils"
	"recipeclip/pkg/authz"
	jwtservice "recipeclip/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClipService struct {
	res domain.ClipResponse
	err error
}

func (s *stubClipService) Clip(ctx context.Context, req domain.ClipRequest, tier authz.TierInfo) (domain.ClipResponse, error) {
	return s.res, s.err
}

func (s *stubClipService) ClipUpload(ctx context.Context, content []byte, filename string, tier authz.TierInfo) (domain.UploadClipResponse, error) {
	return domain.UploadClipResponse{}, s.err
}

func newClipApp(service *stubClipService) *fiber.App {
	utils.InitValidator()
	settings := &utils.Settings{}
	app := fiber.New()
	mw := middleware.NewMiddleware(settings)
	jwtSvc := jwtservice.NewJWTService(context.Background(), "", "")
	handler := NewClipHandler(service, utils.Validate, settings)
	app.Post("/api/clip", mw.OptionalAuthMiddleware(jwtSvc), handler.Clip)
	return app
}

func postClip(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/clip", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestClipEndpointSuccess(t *testing.T) {
	service := &stubClipService{res: domain.ClipResponse{
		Recipe: domain.Recipe{Title: "Pancakes"},
		Cached: true,
	}}
	app := newClipApp(service)

	status, body := postClip(t, app, `{"url": "https://example.com/r"}`)
	require.Equal(t, fiber.StatusOK, status)

	recipe, ok := body["recipe"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Pancakes", recipe["title"])
	assert.Equal(t, true, body["cached"])
}

func TestClipEndpointRejectsBadRequest(t *testing.T) {
	app := newClipApp(&stubClipService{})

	status, _ := postClip(t, app, `{"url": "not a url"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postClip(t, app, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postClip(t, app, `{"url": "https://example.com", "timeout": 120}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestClipEndpointPermissionDenied(t *testing.T) {
	app := newClipApp(&stubClipService{
		err: &authz.UpgradeRequiredError{Feature: string(authz.PermissionClipAI)},
	})

	status, body := postClip(t, app, `{"url": "https://example.com/r", "force_llm": true}`)
	require.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "upgrade_required", body["error_code"])
	assert.Equal(t, "pro", body["required_tier"])
	assert.Equal(t, string(authz.PermissionClipAI), body["feature"])
}

func TestClipEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"network failure", domain.ErrNetworkFailure, fiber.StatusBadGateway},
		{"no recipe found", domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{"parsing failed", domain.ErrRecipeParsing, fiber.StatusInternalServerError},
		{"llm not configured", domain.ErrLLMNotConfigured, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newClipApp(&stubClipService{err: tt.err})
			status, body := postClip(t, app, `{"url": "https://example.com/r"}`)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
		})
	}
}
