package wire

import (
	"Chatter/internal/api"
	"Chatter/internal/api/config"
	"Chatter/internal/api/handler"
	"Chatter/internal/job"
	"Chatter/internal/pkg/content"
	"Chatter/internal/pkg/cron"
	"Chatter/internal/pkg/kafka"
	"Chatter/internal/pkg/minio"
	"Chatter/internal/pkg/mongo"
	"Chatter/internal/pkg/redis"
	"Chatter/internal/repository"
	"Chatter/internal/service"
	"context"
	"io"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
	// KafkaManager 仅在 kafka 扇出模式下存在
	KafkaManager *kafka.ConsumerManager
	// closers 退出时依次关闭
	closers []io.Closer
	inline  *service.InlineFanoutDispatcher
}

func BuildApplication(
	db *gorm.DB,
	rdb *goredis.Client,
	mongoDB *mongodriver.Database,
	storage *minio.Storage,
	cfg *config.Config,
) (*ApplicationContainer, error) {
	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	notificationRepo := mongo.NewNotificationRepo(mongoDB)
	sessionRepo := redis.NewUploadSessionRepo(rdb, cfg.Publish.SessionTTL())

	converter := newConverter(cfg.Converter)
	fanoutSvc := service.NewNotificationFanoutService(notificationRepo, cfg.Publish.FanoutChunkSize)

	app := &ApplicationContainer{DB: db}

	var dispatcher service.FanoutDispatcher
	switch cfg.Publish.FanoutMode {
	case config.FanoutKafka:
		producer, err := kafka.NewFanoutProducer(cfg)
		if err != nil {
			return nil, err
		}
		kafkaMgr, err := kafka.NewConsumerManager(cfg, fanoutSvc)
		if err != nil {
			_ = producer.Close()
			return nil, err
		}
		dispatcher = producer
		app.KafkaManager = kafkaMgr
		app.closers = append(app.closers, producer)
	default:
		inline := service.NewInlineFanoutDispatcher(fanoutSvc, cfg.Publish.FanoutDeadline())
		dispatcher = inline
		app.inline = inline
	}

	coverSvc := service.NewCoverService(storage, postRepo, cfg.Publish.CoverMaxWidth)
	publishSvc := service.NewPublishService(
		service.NewDraftValidator(cfg.Publish.MaxCoverBytes),
		converter,
		storage,
		sessionRepo,
		postRepo,
		userRepo,
		userFollowRepo,
		coverSvc,
		dispatcher,
		cfg.Publish.PublishLockTTL(),
	)
	mediaSvc := service.NewMediaService(storage, sessionRepo, cfg.Publish.MaxCoverBytes)
	editorSvc := service.NewEditorService(converter)

	handlers := &api.HandlersGroup{
		PublishHandler: handler.NewPublishHandler(publishSvc, cfg.Publish.MaxCoverBytes),
		MediaHandler:   handler.NewMediaHandler(mediaSvc, cfg.Publish.MaxCoverBytes),
		EditorHandler:  handler.NewEditorHandler(editorSvc),
	}
	app.Router = api.SetupRouter(cfg, rdb, handlers)

	cleanupJob := job.NewMediaCleanupJob(sessionRepo, storage, cfg.Publish.SessionTTL())
	app.CronMgr = cron.NewCronManager(cleanupJob, cfg.Cron.MediaSweep)

	return app, nil
}

func newConverter(cfg config.ConverterConfig) content.Converter {
	if cfg.RemoteURL == "" {
		return content.NewLocalConverter()
	}
	log.Info("using remote content converter", "url", cfg.RemoteURL)
	return content.NewRemoteConverter(cfg.RemoteURL, time.Duration(cfg.Timeout)*time.Second)
}

// Shutdown 等待进行中的扇出结束并释放资源
func (a *ApplicationContainer) Shutdown(ctx context.Context) {
	if a.inline != nil {
		done := make(chan struct{})
		go func() {
			a.inline.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			log.Warn("fan-out still running at shutdown", "err", ctx.Err())
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.Error("close resource failed", "err", err)
		}
	}
}
