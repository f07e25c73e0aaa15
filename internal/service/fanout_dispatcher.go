package service

import (
	"Chatter/internal/model"
	"context"
	log "log/slog"
	"sync"
	"time"
)

// FanoutDispatcher 把扇出任务交给后台执行，发布结果不等待扇出完成
type FanoutDispatcher interface {
	Dispatch(ctx context.Context, job *model.FanoutJob) error
}

// InlineFanoutDispatcher 在本进程的后台 goroutine 里执行扇出
type InlineFanoutDispatcher struct {
	svc     NotificationFanoutService
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewInlineFanoutDispatcher(svc NotificationFanoutService, timeout time.Duration) *InlineFanoutDispatcher {
	return &InlineFanoutDispatcher{svc: svc, timeout: timeout}
}

// Dispatch 请求结束不会取消扇出，trace_id 仍然保留
func (d *InlineFanoutDispatcher) Dispatch(ctx context.Context, job *model.FanoutJob) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		report, err := d.svc.FanOut(bgCtx, job)
		if err != nil {
			log.ErrorContext(bgCtx, "notification fan-out degraded", "post_id", job.Post.ID, "report", report, "err", err)
			return
		}
		log.InfoContext(bgCtx, "notification fan-out finished", "post_id", job.Post.ID, "report", report)
	}()
	return nil
}

// Wait 等待所有进行中的扇出结束，用于优雅退出
func (d *InlineFanoutDispatcher) Wait() {
	d.wg.Wait()
}
