package service_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yeisme/scenevault/pkg/configs"
	ctxPkg "github.com/yeisme/scenevault/pkg/context"
	"github.com/yeisme/scenevault/pkg/internal/model"
	"github.com/yeisme/scenevault/pkg/internal/storage"
	dbc "github.com/yeisme/scenevault/pkg/internal/storage/db"
	"github.com/yeisme/scenevault/pkg/internal/storage/media"
)

// newTestContext 构建一个带隔离存储的测试上下文：
// 文件型 sqlite 数据库 + 临时目录本地图片存储.
func newTestContext(t *testing.T) (context.Context, *storage.Manager) {
	t.Helper()

	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("init config: %v", err)
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")

	g, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := g.AutoMigrate(&model.Entry{}, &model.Settings{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	storeCfg := configs.StorageConfig{
		Backend: configs.StorageLocal,
		Root:    t.TempDir(),
		Prefix:  "images",
	}

	store, err := media.New(context.Background(), &storeCfg)
	if err != nil {
		t.Fatalf("create media store: %v", err)
	}

	mgr := &storage.Manager{DB: &dbc.Client{DB: g}, Media: store}

	return ctxPkg.WithStorageManager(context.Background(), mgr), mgr
}

// insertEntry 直接落库一条测试条目，绕过分类管线.
func insertEntry(t *testing.T, mgr *storage.Manager, mutate func(*model.Entry)) *model.Entry {
	t.Helper()

	entry := &model.Entry{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		ImagePath:   "images/" + uuid.New().String() + ".png",
		ImageMime:   "image/png",
		Label:       "forest",
		Description: "Dense pine forest.",
		TagsJSON:    `["forest","pine","green"]`,
	}

	if mutate != nil {
		mutate(entry)
	}

	if err := mgr.DB.GetDB().Create(entry).Error; err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	return entry
}

// softDeleteAt 将条目置为指定时刻删除的状态.
func softDeleteAt(t *testing.T, mgr *storage.Manager, id string, at time.Time) {
	t.Helper()

	err := mgr.DB.GetDB().Model(&model.Entry{}).Unscoped().
		Where("id = ?", id).
		Update("deleted_at", at).Error
	if err != nil {
		t.Fatalf("soft delete entry: %v", err)
	}
}

// tinyPNG 生成一张合法的 2x3 PNG 图片.
func tinyPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.RGBA{R: 10, G: 120, B: 40, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	return buf.Bytes()
}

var (
	upstreamMu   sync.Mutex
	upstreamFn   http.HandlerFunc
	upstreamOnce sync.Once
	upstreamURL  string
)

// setUpstream 启动模拟分类上游并指向它，handler 可按用例切换.
// 分类客户端是进程级单例，服务器只启动一次.
func setUpstream(t *testing.T, fn http.HandlerFunc) {
	t.Helper()

	upstreamOnce.Do(func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			upstreamMu.Lock()
			h := upstreamFn
			upstreamMu.Unlock()

			h(w, r)
		}))

		upstreamURL = srv.URL
	})

	// InitConfig 会重置全局配置，这里每次都重新指向模拟上游；
	// 熔断器会让连续失败的用例互相干扰，测试中关闭
	configs.GetConfig().Classifier.BaseURL = upstreamURL
	configs.GetConfig().Classifier.APIKey = "test-key"
	configs.GetConfig().Classifier.Breaker.Enabled = false

	upstreamMu.Lock()
	upstreamFn = fn
	upstreamMu.Unlock()
}
