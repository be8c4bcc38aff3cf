package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidewater/internal/db"
	"github.com/tidewater/internal/handler"
	"github.com/tidewater/internal/router"
	"github.com/tidewater/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAdminUser = "admin"
	testAdminPass = "handler-secret"
)

// testServer 驱动完整路由，并像浏览器一样保存会话 cookie。
type testServer struct {
	engine    *gin.Engine
	gdb       *gorm.DB
	uploadDir string
	cookies   map[string]*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if _, err := db.CreateUser(gdb, testAdminUser, testAdminPass); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	uploadDir := t.TempDir()
	api := handler.NewAPI(gdb, storage.NewLocalStorage(uploadDir, "/static/uploads"), nil)
	engine := router.SetupRouter(api, router.Options{
		SessionSecret: "test-secret-test-secret",
		UploadDir:     uploadDir,
		UploadURLPath: "/static/uploads",
	})

	return &testServer{engine: engine, gdb: gdb, uploadDir: uploadDir, cookies: map[string]*http.Cookie{}}
}

func (s *testServer) send(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range s.cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	s.engine.ServeHTTP(rr, req)
	for _, cookie := range rr.Result().Cookies() {
		s.cookies[cookie.Name] = cookie
	}
	return rr
}

// do 发送请求；body 为 string 时原样发送，否则编码为 JSON。
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req)
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/admin/login", map[string]string{
		"username": testAdminUser,
		"password": testAdminPass,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rr.Code, rr.Body.String())
	}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rr.Code, rr.Body.String())
	}
}
