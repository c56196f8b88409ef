package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amoako419/PhotoShare/internal/audit"
	"github.com/Amoako419/PhotoShare/internal/config"
	"github.com/Amoako419/PhotoShare/internal/database"
	"github.com/Amoako419/PhotoShare/internal/domain"
	httpapi "github.com/Amoako419/PhotoShare/internal/http"
	"github.com/Amoako419/PhotoShare/internal/isolation"
	"github.com/Amoako419/PhotoShare/internal/logger"
	"github.com/Amoako419/PhotoShare/internal/metrics"
	"github.com/Amoako419/PhotoShare/internal/repository"
	"github.com/Amoako419/PhotoShare/internal/service"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "photoshare-backend")
	if err != nil {
		log, _ = logger.NewLoggerWithDefaults()
	}
	defer log.Sync()

	registry := prometheus.NewRegistry()
	m := metrics.NewIsolationMetrics("photoshare_backend", registry)

	// 数据层：DB 可用走 Postgres，否则内存 repo 支持本地联测
	var db *sql.DB
	var store *repository.Store
	var tenantsRepo repository.TenantsRepository
	var usersRepo repository.UsersRepository
	var eventsRepo repository.AuditEventsRepository

	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for photoshare-backend")
		} else {
			log.Warn("DB enabled but connection failed, falling back to in-memory repositories", zap.Error(err))
		}
	}
	if db != nil {
		store = &repository.Store{
			Albums: repository.NewPostgresAlbumsStore(db),
			Photos: repository.NewPostgresPhotosStore(db),
			Owners: repository.NewPostgresTenantResolver(db),
		}
		tenantsRepo = repository.NewPostgresTenantsRepository(db)
		usersRepo = repository.NewPostgresUsersRepository(db)
		eventsRepo = repository.NewPostgresAuditEventsRepository(db)
	} else {
		albums := repository.NewMemoryAlbumsStore()
		photos := repository.NewMemoryPhotosStore()
		store = &repository.Store{
			Albums: albums,
			Photos: photos,
			Owners: repository.NewMemoryTenantResolver(albums, photos),
		}
		memTenants := repository.NewMemoryTenantsRepository()
		memUsers := repository.NewMemoryUsersRepository()
		tenantsRepo = memTenants
		usersRepo = memUsers
		eventsRepo = repository.NewMemoryAuditEventsRepository()
		seedDemoData(memTenants, memUsers, log)
	}

	// 审计 sink：zap 日志流始终启用，其余按配置接入
	var sinks []audit.Sink
	if eventsRepo != nil {
		sinks = append(sinks, audit.NewStoreSink(eventsRepo))
	}
	var redisClient *redis.Client
	if cfg.Audit.StreamEnabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sinks = append(sinks, audit.NewRedisStreamSink(redisClient, cfg.Audit.StreamName))
	}
	if cfg.Audit.WebhookEnabled && cfg.Audit.WebhookURL != "" {
		sinks = append(sinks, audit.NewWebhookSink(cfg.Audit.WebhookURL))
	}
	recorder := audit.NewRecorder(log, m, cfg.Audit.BufferSize, sinks...)

	// 隔离层
	resolver := isolation.NewResolver(tenantsRepo, recorder, m, log)
	engine := isolation.NewEngine(recorder, m, log)

	// 服务层
	albumSvc := service.NewAlbumService(store, engine, log)
	photoSvc := service.NewPhotoService(store, engine, log)
	platformSvc := service.NewPlatformService(tenantsRepo, usersRepo, eventsRepo, recorder, log)
	joinSvc := service.NewJoinService(tenantsRepo, usersRepo, recorder, log)

	// HTTP 层
	mw := httpapi.NewTenantContextMiddleware(resolver, log)
	router := httpapi.NewRouter(log)
	router.RegisterTenantRoutes(mw, httpapi.NewAlbumsHandler(albumSvc), httpapi.NewPhotosHandler(photoSvc))
	router.RegisterPlatformRoutes(mw, httpapi.NewPlatformHandler(platformSvc))
	router.RegisterJoinRoutes(httpapi.NewJoinHandler(joinSvc))
	router.RegisterHealthRoutes()
	router.HandleHandler("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case <-errCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = recorder.Close(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}

// seedDemoData 内存模式下的联测数据：一个演示租户 + 管理员 + superadmin
func seedDemoData(tenants *repository.MemoryTenantsRepository, users *repository.MemoryUsersRepository, log *zap.Logger) {
	if os.Getenv("SEED_DEMO") == "false" {
		return
	}

	now := time.Now().UTC()
	demoTenantID := "00000000-0000-0000-0000-000000000001"
	_ = tenants.CreateTenant(context.Background(), &domain.Tenant{
		TenantID:   demoTenantID,
		TenantName: "Demo Church",
		TenantCode: "DEMO2345",
		Status:     domain.TenantStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	})

	users.PutUser(&domain.User{
		UserID:     "00000000-0000-0000-0000-0000000000a1",
		TenantID:   sqlNullString(demoTenantID),
		Email:      "admin@demo.local",
		FirstName:  "Demo",
		LastName:   "Admin",
		Role:       domain.RoleAdmin,
		Status:     "active",
		DateJoined: now,
	})
	users.PutUser(&domain.User{
		UserID:     "00000000-0000-0000-0000-0000000000b1",
		Email:      "root@platform.local",
		FirstName:  "Platform",
		LastName:   "Admin",
		Role:       domain.RoleSuperAdmin,
		Status:     "active",
		DateJoined: now,
	})

	log.Info("seeded demo tenant for in-memory mode",
		zap.String("tenant_id", demoTenantID),
		zap.String("tenant_code", "DEMO2345"),
	)
}

func sqlNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
