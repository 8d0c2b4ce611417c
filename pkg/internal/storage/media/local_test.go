package media_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/yeisme/scenevault/pkg/configs"
	"github.com/yeisme/scenevault/pkg/internal/storage/media"
)

func newLocalStore(t *testing.T) media.Store {
	t.Helper()

	cfg := configs.StorageConfig{
		Backend: configs.StorageLocal,
		Root:    t.TempDir(),
		Prefix:  "images",
	}

	store, err := media.New(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("create local store: %v", err)
	}

	return store
}

// TestLocalSaveOpen 写入后能按引用读回同样的内容.
func TestLocalSaveOpen(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	data := []byte("fake png bytes")

	ref, err := store.Save(ctx, data, "image/png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if !strings.HasPrefix(ref, "images/") || !strings.HasSuffix(ref, ".png") {
		t.Errorf("Expected ref under prefix with .png extension, got %q", ref)
	}

	rc, err := store.Open(ctx, ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil || string(got) != string(data) {
		t.Errorf("Expected stored bytes back, got %q (%v)", got, err)
	}
}

// TestLocalRemove 删除幂等，文件不存在不算错误.
func TestLocalRemove(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	ref, err := store.Save(ctx, []byte("x"), "image/jpeg")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Remove(ctx, ref); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := store.Open(ctx, ref); err == nil {
		t.Error("Expected open to fail after remove")
	}

	if err := store.Remove(ctx, ref); err != nil {
		t.Errorf("Expected removing missing file to succeed, got %v", err)
	}

	if err := store.Remove(ctx, "images/no-such-file.png"); err != nil {
		t.Errorf("Expected removing unknown ref to succeed, got %v", err)
	}
}

// TestLocalList 列表只包含已保存的对象，且带修改时间.
func TestLocalList(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	refs := map[string]bool{}

	for _, mime := range []string{"image/png", "image/jpeg", "image/webp"} {
		ref, err := store.Save(ctx, []byte(mime), mime)
		if err != nil {
			t.Fatalf("save %s: %v", mime, err)
		}

		refs[ref] = true
	}

	objs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(objs) != len(refs) {
		t.Fatalf("Expected %d objects, got %d", len(refs), len(objs))
	}

	for _, obj := range objs {
		if !refs[obj.Ref] {
			t.Errorf("Unexpected object %q", obj.Ref)
		}

		if obj.Size <= 0 || obj.ModTime.IsZero() {
			t.Errorf("Expected size and mod time populated for %q", obj.Ref)
		}
	}
}

// TestLocalPathTraversal 拒绝跳出存储根目录的引用.
func TestLocalPathTraversal(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	for _, ref := range []string{"../etc/passwd", "/etc/passwd", "images/../../x"} {
		if _, err := store.Open(ctx, ref); err == nil {
			t.Errorf("Expected open %q to fail", ref)
		}

		if err := store.Remove(ctx, ref); err == nil {
			t.Errorf("Expected remove %q to fail", ref)
		}
	}
}

// TestExtForMime 未知类型回落到 .jpg.
func TestExtForMime(t *testing.T) {
	cases := map[string]string{
		"image/png":  ".png",
		"image/jpeg": ".jpg",
		"image/webp": ".webp",
		"image/gif":  ".jpg",
		"":           ".jpg",
	}

	for mime, want := range cases {
		if got := media.ExtForMime(mime); got != want {
			t.Errorf("ExtForMime(%q) = %q, want %q", mime, got, want)
		}
	}
}
