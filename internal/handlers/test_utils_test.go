package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"usersapi/config"
	"usersapi/internal/db"
	"usersapi/internal/services"
)

// setupTest создаёт in-memory БД и маршруты для тестов.
func setupTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Open(config.DriverSQLite, "file:"+name+"?mode=memory&cache=shared", true)
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	users := services.NewUserService(gdb)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/healthz", Healthz())
	r.GET("/readyz", Ready(gdb))

	api := r.Group("/api")
	api.POST("/users", CreateUser(users))
	api.GET("/users", ListUsers(users))
	api.GET("/users/:id", GetUser(users))
	api.PUT("/users/:id", UpdateUser(users))
	api.DELETE("/users/:id", DeleteUser(users))

	return gdb, r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}
