package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	engine.ServeHTTP(w, req)
	return w
}

func echo(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func TestRouterSetup(t *testing.T) {
	t.Run("mounts registrars under the version prefix", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("catalog", "/catalog")
		group.GET("/products", echo("products"))

		NewRouter(engine).Register(group).Setup()

		w := serve(engine, http.MethodGet, "/api/v1/catalog/products")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "products", w.Body.String())
	})

	t.Run("honors a custom version", func(t *testing.T) {
		engine := gin.New()
		group := NewDomainGroup("catalog", "/catalog")
		group.GET("/products", echo("products"))

		NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/catalog/products").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/catalog/products").Code)
	})

	t.Run("router middleware wraps every group", func(t *testing.T) {
		engine := gin.New()
		var touched []string
		group := NewDomainGroup("cash", "/cash")
		group.GET("/registers", echo("registers"))

		NewRouter(engine).
			Use(func(c *gin.Context) {
				touched = append(touched, c.Request.URL.Path)
				c.Next()
			}).
			Register(group).
			Setup()

		serve(engine, http.MethodGet, "/api/v1/cash/registers")
		assert.Equal(t, []string{"/api/v1/cash/registers"}, touched)
	})
}

func TestDomainGroup(t *testing.T) {
	mount := func(group *DomainGroup) *gin.Engine {
		engine := gin.New()
		group.RegisterRoutes(engine.Group("/api/v1"))
		return engine
	}

	t.Run("all verbs reach their handlers", func(t *testing.T) {
		group := NewDomainGroup("documents", "/documents")
		group.GET("", echo("list")).
			POST("", echo("create")).
			PUT("/:id", echo("replace")).
			PATCH("/:id", echo("amend")).
			DELETE("/:id", echo("remove"))
		engine := mount(group)

		cases := []struct{ method, target, want string }{
			{http.MethodGet, "/api/v1/documents", "list"},
			{http.MethodPost, "/api/v1/documents", "create"},
			{http.MethodPut, "/api/v1/documents/7", "replace"},
			{http.MethodPatch, "/api/v1/documents/7", "amend"},
			{http.MethodDelete, "/api/v1/documents/7", "remove"},
		}
		for _, tc := range cases {
			w := serve(engine, tc.method, tc.target)
			assert.Equal(t, http.StatusOK, w.Code, tc.method)
			assert.Equal(t, tc.want, w.Body.String(), tc.method)
		}
	})

	t.Run("group middleware runs before the handler", func(t *testing.T) {
		var order []string
		group := NewDomainGroup("documents", "/documents")
		group.Use(func(c *gin.Context) {
			order = append(order, "middleware")
			c.Next()
		})
		group.GET("", func(c *gin.Context) {
			order = append(order, "handler")
			c.Status(http.StatusOK)
		})

		serve(mount(group), http.MethodGet, "/api/v1/documents")
		assert.Equal(t, []string{"middleware", "handler"}, order)
	})

	t.Run("subgroups nest under the parent prefix", func(t *testing.T) {
		group := NewDomainGroup("cash", "/cash")
		group.Group("deposits", "/deposits").GET("", echo("deposits"))

		w := serve(mount(group), http.MethodGet, "/api/v1/cash/deposits")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "deposits", w.Body.String())
	})

	t.Run("names identify groups", func(t *testing.T) {
		assert.Equal(t, "catalog", NewDomainGroup("catalog", "/catalog").Name())
	})
}
