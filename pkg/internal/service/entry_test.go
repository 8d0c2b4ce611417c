package service_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/scenevault/pkg/internal/model"
	"github.com/yeisme/scenevault/pkg/internal/service"
)

// classifierReply 构造 messages API 风格的响应体.
func classifierReply(text string) string {
	return fmt.Sprintf(`{"content":[{"type":"text","text":%q}]}`, text)
}

// TestCreateEntry 上传管线端到端：落图、分类、写库.
func TestCreateEntry(t *testing.T) {
	ctx, mgr := newTestContext(t)
	setUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") == "" {
			t.Error("Expected x-api-key header")
		}

		if r.Header.Get("anthropic-version") == "" {
			t.Error("Expected anthropic-version header")
		}

		fmt.Fprint(w, classifierReply(`{"label": "alpine lake", "description": "A clear mountain lake.", "tags": ["lake", "mountain", "alpine"], "confidence": 0.9}`))
	})

	svc := service.NewEntryService(ctx)

	entry, err := svc.Create(ctx, tinyPNG(t), "image/png")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if entry.Label != "alpine lake" {
		t.Errorf("Expected label 'alpine lake', got %q", entry.Label)
	}

	if entry.ImageWidth == nil || *entry.ImageWidth != 2 || entry.ImageHeight == nil || *entry.ImageHeight != 3 {
		t.Errorf("Expected probed dimensions 2x3, got %v x %v", entry.ImageWidth, entry.ImageHeight)
	}

	tags, err := entry.Tags()
	if err != nil || len(tags) != 3 {
		t.Errorf("Expected 3 tags, got %v (%v)", tags, err)
	}

	// 图片真实落盘
	rc, err := mgr.Media.Open(ctx, entry.ImagePath)
	if err != nil {
		t.Fatalf("Expected stored image, got %v", err)
	}
	rc.Close()

	// 列表可见
	rows, err := svc.List(ctx, false)
	if err != nil || len(rows) != 1 {
		t.Fatalf("Expected 1 listed entry, got %d (%v)", len(rows), err)
	}
}

// TestCreateEntryUpstreamFailure 分类失败时补偿删除已保存的图片.
func TestCreateEntryUpstreamFailure(t *testing.T) {
	ctx, mgr := newTestContext(t)
	setUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	svc := service.NewEntryService(ctx)

	_, err := svc.Create(ctx, tinyPNG(t), "image/png")
	if !errors.Is(err, service.ErrUpstream) {
		t.Fatalf("Expected ErrUpstream, got %v", err)
	}

	// 补偿删除后存储中没有残留文件
	objs, err := mgr.Media.List(ctx)
	if err != nil {
		t.Fatalf("list media: %v", err)
	}

	if len(objs) != 0 {
		t.Errorf("Expected no leftover images, got %d", len(objs))
	}

	// 数据库没有半成品
	rows, _ := svc.List(ctx, true)
	if len(rows) != 0 {
		t.Errorf("Expected no entries, got %d", len(rows))
	}
}

// TestCreateEntryGarbageOutput 模型输出无法解析时同样视为上游失败.
func TestCreateEntryGarbageOutput(t *testing.T) {
	ctx, _ := newTestContext(t)
	setUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, classifierReply("I cannot identify this image."))
	})

	svc := service.NewEntryService(ctx)

	if _, err := svc.Create(ctx, tinyPNG(t), "image/png"); !errors.Is(err, service.ErrUpstream) {
		t.Fatalf("Expected ErrUpstream for garbage output, got %v", err)
	}
}

// TestCreateEntryValidation 入参校验.
func TestCreateEntryValidation(t *testing.T) {
	ctx, _ := newTestContext(t)
	svc := service.NewEntryService(ctx)

	if _, err := svc.Create(ctx, nil, "image/png"); !errors.Is(err, service.ErrMissingImage) {
		t.Errorf("Expected ErrMissingImage, got %v", err)
	}
}

// TestCreateEntryUnknownMime 未知图片类型不在本地拦截，按 jpg 存储并交给上游判定.
func TestCreateEntryUnknownMime(t *testing.T) {
	ctx, mgr := newTestContext(t)
	setUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, classifierReply(`{"label": "meadow", "description": "A grassy meadow.", "tags": ["meadow", "grass", "green"]}`))
	})

	svc := service.NewEntryService(ctx)

	entry, err := svc.Create(ctx, tinyPNG(t), "image/gif")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasSuffix(entry.ImagePath, ".jpg") {
		t.Errorf("Expected unknown mime stored as .jpg, got %q", entry.ImagePath)
	}

	rc, err := mgr.Media.Open(ctx, entry.ImagePath)
	if err != nil {
		t.Fatalf("Expected stored image to open, got %v", err)
	}
	rc.Close()
}

// TestListExcludesDeleted 列表只排除软删除的条目.
func TestListExcludesDeleted(t *testing.T) {
	ctx, mgr := newTestContext(t)
	svc := service.NewEntryService(ctx)

	active := insertEntry(t, mgr, nil)
	deleted := insertEntry(t, mgr, nil)
	softDeleteAt(t, mgr, deleted.ID, time.Now().UTC())

	rows, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(rows) != 1 || rows[0].ID != active.ID {
		t.Fatalf("Expected only the active entry, got %d rows", len(rows))
	}

	// Unscoped 列表两条都在
	all, err := svc.List(ctx, true)
	if err != nil || len(all) != 2 {
		t.Fatalf("Expected 2 entries unscoped, got %d (%v)", len(all), err)
	}

	// 删除的条目仍可按 ID 获取
	got, err := svc.Get(ctx, deleted.ID)
	if err != nil {
		t.Fatalf("Expected deleted entry fetchable by id, got %v", err)
	}

	if !got.DeletedAt.Valid {
		t.Error("Expected DeletedAt set on fetched entry")
	}
}

// TestListOrder 列表按创建时间倒序.
func TestListOrder(t *testing.T) {
	ctx, mgr := newTestContext(t)
	svc := service.NewEntryService(ctx)

	base := time.Now().UTC().Add(-time.Hour)
	insertEntry(t, mgr, func(e *model.Entry) { e.CreatedAt = base })
	insertEntry(t, mgr, func(e *model.Entry) { e.CreatedAt = base.Add(time.Minute) })

	rows, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(rows) < 2 || rows[0].CreatedAt.Before(rows[1].CreatedAt) {
		t.Error("Expected created_at descending order")
	}
}

// TestSoftDeleteAndRestore 删除与窗口内恢复.
func TestSoftDeleteAndRestore(t *testing.T) {
	ctx, mgr := newTestContext(t)
	svc := service.NewEntryService(ctx)

	entry := insertEntry(t, mgr, nil)

	if err := svc.SoftDelete(ctx, entry.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// 重复删除同一条目报 ErrNotFound
	if err := svc.SoftDelete(ctx, entry.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for double delete, got %v", err)
	}

	if err := svc.Restore(ctx, entry.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, err := svc.Get(ctx, entry.ID)
	if err != nil || got.DeletedAt.Valid {
		t.Fatalf("Expected restored entry active, got %v (%v)", got, err)
	}
}

// TestRestoreErrors 恢复操作的错误分类.
func TestRestoreErrors(t *testing.T) {
	ctx, mgr := newTestContext(t)
	svc := service.NewEntryService(ctx)

	// 不存在
	if err := svc.Restore(ctx, "no-such-id"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// 未删除
	active := insertEntry(t, mgr, nil)
	if err := svc.Restore(ctx, active.ID); !errors.Is(err, service.ErrNotDeleted) {
		t.Errorf("Expected ErrNotDeleted, got %v", err)
	}

	// 窗口已过
	expired := insertEntry(t, mgr, nil)
	softDeleteAt(t, mgr, expired.ID, time.Now().UTC().Add(-2*time.Hour))

	if err := svc.Restore(ctx, expired.ID); !errors.Is(err, service.ErrWindowExpired) {
		t.Errorf("Expected ErrWindowExpired, got %v", err)
	}

	// 窗口内（30分钟前删除）可恢复
	inWindow := insertEntry(t, mgr, nil)
	softDeleteAt(t, mgr, inWindow.ID, time.Now().UTC().Add(-30*time.Minute))

	if err := svc.Restore(ctx, inWindow.ID); err != nil {
		t.Errorf("Expected restore within window, got %v", err)
	}
}

// TestSetShare 分享令牌的开启、轮换与关闭.
func TestSetShare(t *testing.T) {
	ctx, mgr := newTestContext(t)
	svc := service.NewEntryService(ctx)

	entry := insertEntry(t, mgr, nil)

	shared, err := svc.SetShare(ctx, entry.ID, true)
	if err != nil || shared.ShareToken == nil {
		t.Fatalf("Expected share token, got %v (%v)", shared, err)
	}

	first := *shared.ShareToken

	// 令牌可用于访问
	got, err := svc.GetByShareToken(ctx, first)
	if err != nil || got.ID != entry.ID {
		t.Fatalf("Expected entry by token, got %v (%v)", got, err)
	}

	// 再次开启生成全新令牌，旧令牌失效
	shared, err = svc.SetShare(ctx, entry.ID, true)
	if err != nil || shared.ShareToken == nil {
		t.Fatalf("re-enable share: %v", err)
	}

	if *shared.ShareToken == first {
		t.Error("Expected fresh token on re-enable")
	}

	if _, err := svc.GetByShareToken(ctx, first); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected old token invalid, got %v", err)
	}

	// 关闭分享
	unshared, err := svc.SetShare(ctx, entry.ID, false)
	if err != nil || unshared.ShareToken != nil {
		t.Fatalf("Expected token cleared, got %v (%v)", unshared, err)
	}

	if _, err := svc.GetByShareToken(ctx, *shared.ShareToken); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected disabled token invalid, got %v", err)
	}

	// 回收站中的条目同样可以分享
	softDeleteAt(t, mgr, entry.ID, time.Now().UTC())

	if _, err := svc.SetShare(ctx, entry.ID, true); err != nil {
		t.Errorf("Expected share on deleted entry, got %v", err)
	}

	// 不存在的条目
	if _, err := svc.SetShare(ctx, "no-such-id", true); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
