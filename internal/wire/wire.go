package wire

import (
	"Memoria/internal/api"
	"Memoria/internal/api/config"
	"Memoria/internal/api/handler"
	"Memoria/internal/job"
	"Memoria/internal/pkg/cron"
	"Memoria/internal/pkg/minio"
	"Memoria/internal/pkg/security"
	"Memoria/internal/repository"
	"Memoria/internal/service"
	"context"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *mongo.Database
	CronMgr *cron.Manager
}

func BuildApplication(ctx context.Context, db *mongo.Database, rdb *goredis.Client, cfg *config.Config) (*ApplicationContainer, error) {
	groupRepo := repository.NewGroupRepo(db)
	postRepo := repository.NewPostRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	linkRepo := repository.NewCommentLinkRepo(db)
	counterRepo := repository.NewCounterRepo(db)
	orphanRepo := repository.NewOrphanRepo(rdb)
	pendingImageRepo := repository.NewPendingImageRepo(rdb)
	imageRefRepo := repository.NewImageRefRepo(db)

	if err := service.SeedCounters(ctx, counterRepo); err != nil {
		return nil, err
	}

	gate := service.NewAccessGate(security.NewPasswordHasher(cfg.Security.BcryptCost))

	groupService := service.NewGroupService(groupRepo, postRepo, commentRepo, linkRepo, counterRepo, gate)
	postService := service.NewPostService(groupRepo, postRepo, commentRepo, linkRepo, counterRepo, orphanRepo, gate)
	commentService := service.NewCommentService(postRepo, commentRepo, linkRepo, counterRepo, orphanRepo, gate)
	imageService := service.NewImageService(minio.ObjectStore{}, pendingImageRepo, cfg.Upload.MaxBytes, cfg.Upload.MaxImageEdge)

	handlers := &api.HandlersGroup{
		GroupHandler:   handler.NewGroupHandler(groupService, imageService),
		PostHandler:    handler.NewPostHandler(postService, imageService),
		CommentHandler: handler.NewCommentHandler(commentService),
		ImageHandler:   handler.NewImageHandler(imageService),
	}

	router := api.SetupRouter(handlers)
	if cfg.Upload.MaxBytes > 0 {
		router.MaxMultipartMemory = cfg.Upload.MaxBytes
	}

	cronMgr := cron.NewCronManager(
		cfg.Jobs,
		job.NewOwnershipRepairJob(groupRepo, postRepo, commentRepo, linkRepo, orphanRepo),
		job.NewCounterSyncJob(groupRepo, postRepo),
		job.NewImageCleanupJob(pendingImageRepo, imageRefRepo, minio.ObjectStore{}, cfg.Upload.PendingTTL),
	)

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}
