package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "pos-test",
		MaxRefreshCount:        10,
	})
}

func issueTokens(t *testing.T, jwtService *auth.JWTService) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "cashier1",
		Role:     "cashier",
	}
	pair, err := jwtService.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

// get serves an authenticated GET through the given engine. An empty
// authHeader sends no Authorization header at all.
func get(engine *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()

	t.Run("valid token reaches the handler with claims", func(t *testing.T) {
		pair, input := issueTokens(t, jwtService)

		var userID, username, role string
		engine := gin.New()
		engine.Use(JWTAuthMiddleware(jwtService))
		engine.GET("/registers", func(c *gin.Context) {
			claims := GetJWTClaims(c)
			require.NotNil(t, claims)
			userID = GetJWTUserID(c)
			username = GetJWTUsername(c)
			role = GetJWTRole(c)
			okHandler(c)
		})

		rec := get(engine, "/registers", "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, input.UserID.String(), userID)
		assert.Equal(t, "cashier1", username)
		assert.Equal(t, "cashier", role)
	})

	t.Run("rejects bad credentials with 401", func(t *testing.T) {
		expiredCfg := config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  -time.Hour,
			RefreshTokenExpiration: 7 * 24 * time.Hour,
			Issuer:                 "pos-test",
		}
		expiredPair, _ := issueTokens(t, auth.NewJWTService(expiredCfg))
		pair, _ := issueTokens(t, jwtService)

		engine := gin.New()
		engine.Use(JWTAuthMiddleware(jwtService))
		engine.GET("/registers", okHandler)

		cases := []struct {
			name   string
			header string
		}{
			{"missing header", ""},
			{"wrong scheme", "Basic dXNlcjpwYXNz"},
			{"empty token", "Bearer "},
			{"garbage token", "Bearer invalid-token"},
			{"expired token", "Bearer " + expiredPair.AccessToken},
			{"refresh token in access slot", "Bearer " + pair.RefreshToken},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rec := get(engine, "/registers", tc.header)
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
			})
		}
	})

	t.Run("default skip paths stay open", func(t *testing.T) {
		engine := gin.New()
		engine.Use(JWTAuthMiddleware(jwtService))

		open := []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		}
		for _, path := range open {
			engine.GET(path, okHandler)
		}
		for _, path := range open {
			rec := get(engine, path, "")
			assert.Equal(t, http.StatusOK, rec.Code, "path %s should not require auth", path)
		}
	})

	t.Run("configured skip paths and prefixes stay open", func(t *testing.T) {
		cfg := DefaultJWTConfig(jwtService)
		cfg.SkipPaths = append(cfg.SkipPaths, "/public")
		cfg.SkipPathPrefixes = append(cfg.SkipPathPrefixes, "/static")

		engine := gin.New()
		engine.Use(JWTAuthMiddlewareWithConfig(cfg))
		engine.GET("/public", okHandler)
		engine.GET("/static/assets/logo.png", okHandler)

		assert.Equal(t, http.StatusOK, get(engine, "/public", "").Code)
		assert.Equal(t, http.StatusOK, get(engine, "/static/assets/logo.png", "").Code)
	})

	t.Run("custom OnError takes over the failure response", func(t *testing.T) {
		called := false
		cfg := DefaultJWTConfig(jwtService)
		cfg.OnError = func(c *gin.Context, err error) {
			called = true
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"custom": "error"})
		}

		engine := gin.New()
		engine.Use(JWTAuthMiddlewareWithConfig(cfg))
		engine.GET("/registers", okHandler)

		rec := get(engine, "/registers", "")

		assert.True(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestClaimAccessorsOutsideAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTUsername(c))
	assert.Empty(t, GetJWTRole(c))
	assert.Panics(t, func() { MustGetJWTClaims(c) })
}

func TestRequireRole(t *testing.T) {
	jwtService := newTestJWTService()

	newEngine := func(roles ...string) *gin.Engine {
		engine := gin.New()
		engine.Use(JWTAuthMiddleware(jwtService))
		engine.GET("/admin", RequireRole(roles...), okHandler)
		return engine
	}

	t.Run("allows a listed role", func(t *testing.T) {
		pair, _ := issueTokens(t, jwtService)
		rec := get(newEngine("cashier", "admin"), "/admin", "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forbids an unlisted role", func(t *testing.T) {
		pair, _ := issueTokens(t, jwtService) // role is cashier
		rec := get(newEngine("admin"), "/admin", "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated requests get 401", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/admin", RequireRole("admin"), okHandler)
		rec := get(engine, "/admin", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()

	var captured *auth.Claims
	engine := gin.New()
	engine.Use(OptionalJWTAuthMiddleware(jwtService))
	engine.GET("/products", func(c *gin.Context) {
		captured = GetJWTClaims(c)
		okHandler(c)
	})

	t.Run("no token still serves the request", func(t *testing.T) {
		captured = nil
		rec := get(engine, "/products", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, captured)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		captured = nil
		pair, input := issueTokens(t, jwtService)
		rec := get(engine, "/products", "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, input.UserID.String(), captured.UserID)
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		captured = nil
		rec := get(engine, "/products", "Bearer invalid-token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, captured)
	})
}
