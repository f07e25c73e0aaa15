package cron

import log "log/slog"

// InitCron 注册失败时引擎不会启动
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		log.Error("Cron Jobs register failed", "err", err)
		return err
	}
	log.Info("Cron Jobs starting...", "jobs", len(mgr.engine.Entries()))
	mgr.Start()
	return nil
}
