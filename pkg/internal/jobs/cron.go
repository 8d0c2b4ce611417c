// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"

	"github.com/yeisme/scenevault/pkg/configs"
	ctxPkg "github.com/yeisme/scenevault/pkg/context"
	"github.com/yeisme/scenevault/pkg/internal/service"
	"github.com/yeisme/scenevault/pkg/internal/storage"
	"github.com/yeisme/scenevault/pkg/log"
	"github.com/yeisme/scenevault/pkg/scheduler"
)

// RegisterJobs 配置业务定时任务：
//   - 每 10 分钟执行回收站过期清理（删除超出恢复窗口的条目及其图片）
//   - 每小时执行孤儿图片扫描（删除没有条目指向、超过宽限期的文件）
func RegisterJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)
	retention := configs.GetConfig().Retention

	if err := sched.AddInterval(JobRetentionSweep, retention.GetSweepInterval(), func(ctx context.Context) {
		runRetentionSweep(baseCtx)
	}, baseCtx); err != nil {
		return err
	}

	if err := sched.AddCron(JobOrphanScan, retention.OrphanScanCron, func(ctx context.Context) {
		runOrphanScan(baseCtx)
	}, baseCtx); err != nil {
		return err
	}

	return nil
}

// runRetentionSweep 执行一轮回收站清理.
func runRetentionSweep(ctx context.Context) {
	l := log.Logger().With().Str("job", JobRetentionSweep).Logger()

	svc := service.NewRetentionService(ctx)

	n, err := svc.Sweep(ctx)
	if err != nil {
		l.Error().Err(err).Msg("retention sweep failed")
		return
	}

	l.Debug().Int("purged", n).Msg("retention sweep finished")
}

// runOrphanScan 执行一轮孤儿图片扫描.
func runOrphanScan(ctx context.Context) {
	l := log.Logger().With().Str("job", JobOrphanScan).Logger()

	svc := service.NewRetentionService(ctx)

	n, err := svc.OrphanScan(ctx)
	if err != nil {
		l.Error().Err(err).Msg("orphan scan failed")
		return
	}

	if n > 0 {
		l.Info().Int("removed", n).Msg("orphan scan finished")
	}
}
