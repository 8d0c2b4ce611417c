package handle_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yeisme/scenevault/pkg/configs"
	"github.com/yeisme/scenevault/pkg/internal/model"
	"github.com/yeisme/scenevault/pkg/internal/router"
	"github.com/yeisme/scenevault/pkg/internal/storage"
	dbc "github.com/yeisme/scenevault/pkg/internal/storage/db"
	"github.com/yeisme/scenevault/pkg/internal/storage/media"
	"github.com/yeisme/scenevault/pkg/middleware"
)

// newTestServer 搭一个带隔离存储的最小 API 服务.
func newTestServer(t *testing.T) (*gin.Engine, *storage.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("init config: %v", err)
	}

	g, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := g.AutoMigrate(&model.Entry{}, &model.Settings{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := g.Create(&model.Settings{ID: model.SettingsID}).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	storeCfg := configs.StorageConfig{Backend: configs.StorageLocal, Root: t.TempDir(), Prefix: "images"}

	store, err := media.New(context.Background(), &storeCfg)
	if err != nil {
		t.Fatalf("create media store: %v", err)
	}

	mgr := &storage.Manager{DB: &dbc.Client{DB: g}, Media: store}

	engine := gin.New()
	engine.Use(middleware.BodyLimitMiddleware(configs.GetConfig().Server.MaxBodyBytes))
	engine.Use(middleware.StorageMiddleware(mgr))
	router.RegisterAPIRoutes(engine.Group("/api"))
	router.RegisterMediaRoutes(engine)

	return engine, mgr
}

// seedEntry 直接落库一条条目.
func seedEntry(t *testing.T, mgr *storage.Manager) *model.Entry {
	t.Helper()

	entry := &model.Entry{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		ImagePath:   "images/" + uuid.New().String() + ".png",
		ImageMime:   "image/png",
		Label:       "waterfall",
		Description: "A tall waterfall in the mist.",
		TagsJSON:    `["waterfall","mist"]`,
	}

	if err := mgr.DB.GetDB().Create(entry).Error; err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	return entry
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

// TestPublicEntriesGating 公开开关关闭时隐藏存在性.
func TestPublicEntriesGating(t *testing.T) {
	engine, mgr := newTestServer(t)
	seedEntry(t, mgr)

	// 默认不公开，404
	if w := doJSON(t, engine, http.MethodGet, "/api/public/entries", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when not public, got %d", w.Code)
	}

	// 打开公开开关
	if w := doJSON(t, engine, http.MethodPut, "/api/settings", `{"isPublic":true}`); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on settings update, got %d: %s", w.Code, w.Body.String())
	}

	w := doJSON(t, engine, http.MethodGet, "/api/public/entries", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 when public, got %d", w.Code)
	}

	var rows []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil || len(rows) != 1 {
		t.Errorf("Expected 1 public entry, got %s (%v)", w.Body.String(), err)
	}

	// 再关上
	doJSON(t, engine, http.MethodPut, "/api/settings", `{"isPublic":false}`)

	if w := doJSON(t, engine, http.MethodGet, "/api/public/entries", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after disabling, got %d", w.Code)
	}
}

// TestShareFlow 分享开启、访问、关闭的完整流程.
func TestShareFlow(t *testing.T) {
	engine, mgr := newTestServer(t)
	entry := seedEntry(t, mgr)

	w := doJSON(t, engine, http.MethodPost, "/api/entries/"+entry.ID+"/share", `{"enable":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on share, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Entry struct {
			ShareURL *string `json:"shareUrl"`
		} `json:"entry"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Entry.ShareURL == nil {
		t.Fatalf("Expected share url in response, got %s (%v)", w.Body.String(), err)
	}

	token := (*resp.Entry.ShareURL)[strings.LastIndex(*resp.Entry.ShareURL, "/")+1:]

	if w := doJSON(t, engine, http.MethodGet, "/api/share/"+token, ""); w.Code != http.StatusOK {
		t.Errorf("Expected 200 on shared entry, got %d", w.Code)
	}

	// 关闭分享后令牌失效
	doJSON(t, engine, http.MethodPost, "/api/entries/"+entry.ID+"/share", `{"enable":false}`)

	if w := doJSON(t, engine, http.MethodGet, "/api/share/"+token, ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after unshare, got %d", w.Code)
	}
}

// TestDeleteRestoreStatusCodes 删除/恢复端点的错误码.
func TestDeleteRestoreStatusCodes(t *testing.T) {
	engine, mgr := newTestServer(t)
	entry := seedEntry(t, mgr)

	// 恢复未删除的条目 → 400
	if w := doJSON(t, engine, http.MethodPost, "/api/entries/"+entry.ID+"/restore", ""); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 restoring active entry, got %d", w.Code)
	}

	if w := doJSON(t, engine, http.MethodPost, "/api/entries/"+entry.ID+"/delete", ""); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on delete, got %d", w.Code)
	}

	// 删除后列表为空，详情仍可按 ID 访问
	w := doJSON(t, engine, http.MethodGet, "/api/entries", "")

	var rows []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil || len(rows) != 0 {
		t.Errorf("Expected empty list after delete, got %s", w.Body.String())
	}

	if w := doJSON(t, engine, http.MethodGet, "/api/entries/"+entry.ID, ""); w.Code != http.StatusOK {
		t.Errorf("Expected 200 on deleted entry detail, got %d", w.Code)
	}

	// 重复删除 → 404
	if w := doJSON(t, engine, http.MethodPost, "/api/entries/"+entry.ID+"/delete", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on double delete, got %d", w.Code)
	}

	if w := doJSON(t, engine, http.MethodPost, "/api/entries/"+entry.ID+"/restore", ""); w.Code != http.StatusOK {
		t.Errorf("Expected 200 on restore, got %d", w.Code)
	}

	// 不存在的条目
	if w := doJSON(t, engine, http.MethodGet, "/api/entries/no-such-id", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown id, got %d", w.Code)
	}
}

// TestCreateEntryMissingImage 缺少 image 字段 → 400.
func TestCreateEntryMissingImage(t *testing.T) {
	engine, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("caption", "no image here")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/entries", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without image field, got %d: %s", w.Code, w.Body.String())
	}
}

// TestCreateEntryBodyLimit 超出请求体上限 → 413，而不是报缺图.
func TestCreateEntryBodyLimit(t *testing.T) {
	engine, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("image", "big.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}

	limit := configs.GetConfig().Server.MaxBodyBytes
	if _, err := fw.Write(make([]byte, limit+1)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/entries", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected 413 for oversized body, got %d: %s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "image too large") {
		t.Errorf("Expected too-large message, got %s", w.Body.String())
	}
}

// TestServeMedia 媒体路由按引用回源，未知引用 404.
func TestServeMedia(t *testing.T) {
	engine, mgr := newTestServer(t)

	ref, err := mgr.Media.Save(context.Background(), []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	w := doJSON(t, engine, http.MethodGet, "/media/"+ref, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 serving media, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png content type, got %q", ct)
	}

	if w.Body.String() != "png-bytes" {
		t.Errorf("Expected stored bytes, got %q", w.Body.String())
	}

	if w := doJSON(t, engine, http.MethodGet, "/media/images/missing.png", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown media, got %d", w.Code)
	}
}
