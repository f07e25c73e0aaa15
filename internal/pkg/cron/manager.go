package cron

import (
	"Chatter/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	mediaCleanupJob *job.MediaCleanupJob
	mediaSweepSpec  string
}

func NewCronManager(mediaCleanupJob *job.MediaCleanupJob, mediaSweepSpec string) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		mediaCleanupJob: mediaCleanupJob,
		mediaSweepSpec:  mediaSweepSpec,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.mediaSweepSpec, s.mediaCleanupJob); err != nil {
		return err
	}
	log.Info("cron job registered", "job", "media_cleanup", "spec", s.mediaSweepSpec)
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
