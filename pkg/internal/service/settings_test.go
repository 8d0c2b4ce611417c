package service_test

import (
	"testing"

	"github.com/yeisme/scenevault/pkg/internal/service"
)

// TestSettingsEnsure 单行配置初始化是幂等的.
func TestSettingsEnsure(t *testing.T) {
	ctx, _ := newTestContext(t)
	svc := service.NewSettingsService(ctx)

	if err := svc.Ensure(ctx); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	// 已存在时不报错，也不覆盖已有值
	if _, err := svc.Set(ctx, true); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := svc.Ensure(ctx); err != nil {
		t.Fatalf("ensure again: %v", err)
	}

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if !got.IsPublic {
		t.Error("Expected Ensure to keep existing is_public value")
	}
}

// TestSettingsSet 公开开关往返.
func TestSettingsSet(t *testing.T) {
	ctx, _ := newTestContext(t)
	svc := service.NewSettingsService(ctx)

	if err := svc.Ensure(ctx); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.IsPublic {
		t.Error("Expected default is_public=false")
	}

	updated, err := svc.Set(ctx, true)
	if err != nil || !updated.IsPublic {
		t.Fatalf("Expected is_public=true, got %v (%v)", updated, err)
	}

	updated, err = svc.Set(ctx, false)
	if err != nil || updated.IsPublic {
		t.Fatalf("Expected is_public=false, got %v (%v)", updated, err)
	}
}
