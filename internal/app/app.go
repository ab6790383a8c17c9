package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "rental_showcase/internal/app/http"
	"rental_showcase/internal/config"
	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/metrics"
	"rental_showcase/internal/repository"
	analyticsservice "rental_showcase/internal/services/analytics_service"
	"rental_showcase/internal/services/janitor"
	mediaservice "rental_showcase/internal/services/media_service"
	propertyservice "rental_showcase/internal/services/property_service"
	tokenservice "rental_showcase/internal/services/token_service"
	unitservice "rental_showcase/internal/services/unit_service"
	uploadservice "rental_showcase/internal/services/upload_service"
	userservice "rental_showcase/internal/services/user_service"
	filestorage "rental_showcase/internal/storage/filestorage"
	"rental_showcase/internal/storage/postgresql"
	redisapp "rental_showcase/internal/storage/redis"
	httprouters "rental_showcase/internal/transport/http"
)

type App struct {
	log        *slog.Logger
	cfg        *config.Config
	storage    *postgresql.Storage
	redis      *redisapp.Client
	HTTPServer *httpapp.Server
	Janitor    *janitor.Janitor

	Users      *userservice.UserService
	Media      *mediaservice.MediaService
	Properties *propertyservice.PropertyService
	Units      *unitservice.UnitService
}

// New поднимает хранилища и собирает сервисы. Миграции применяются до
// сборки сервисов, чтобы первый запрос не попал в пустую схему.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	storage, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	applied, err := storage.Migrate(ctx)
	if err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(applied) > 0 {
		log.Info("migrations applied", slog.Any("versions", applied))
	}

	rdb := redisapp.NewClient(redisapp.Options{
		Addr:        cfg.Redis.RedisAddr,
		Password:    cfg.Redis.RedisPassword,
		DB:          cfg.Redis.RedisDB,
		DialTimeout: cfg.Redis.DialTimeout,
	})

	objects, err := filestorage.NewLocalObjectStorage(
		cfg.ObjectStorage.BaseDir,
		cfg.ObjectStorage.BaseURL,
		cfg.ObjectStorage.Secret,
		cfg.ObjectStorage.MaxSize,
	)
	if err != nil {
		rdb.Close()
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := repository.NewRepository(storage.Pool())
	tokenRepo := repository.NewRedisTokenRepo(rdb)
	slotRepo := repository.NewRedisUploadSlotRepo(rdb)

	tokenService := tokenservice.NewTokenService(log, tokenRepo, cfg.Token.Secret, cfg.Token.AccessTTL, cfg.Token.RefreshTTL)
	userService := userservice.NewUserService(log, repo.User, tokenService)
	mediaService := mediaservice.NewMediaService(log, repo.Media, objects)
	uploadService := uploadservice.NewUploadService(log, objects, slotRepo, cfg.ObjectStorage.UploadTTL)
	propertyService := propertyservice.NewPropertyService(log, repo.Property, repo.Unit, mediaService, cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	unitService := unitservice.NewUnitService(log, repo.Unit, repo.Property, mediaService, propertyService.Invalidate)
	analyticsService := analyticsservice.NewAnalyticsService(log, repo.View, mediaService)

	// карточки объектов показывают изображения, поэтому любая запись в коллекцию сбрасывает кеш
	mediaService.OnChange(func(parent models.Parent) {
		propertyService.Invalidate()
		metrics.MediaWrites.WithLabelValues(string(parent.Kind)).Inc()
	})

	if _, err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		rdb.Close()
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	routers := httprouters.NewRouter(
		log,
		userService,
		tokenService,
		mediaService,
		uploadService,
		propertyService,
		unitService,
		analyticsService,
	)
	routers.HealthChecks["postgres"] = storage
	routers.HealthChecks["redis"] = rdb

	server := httpapp.New(log, cfg.HTTP, cfg.Session, cfg.ObjectStorage.MaxSize, routers)
	server.BuildRouters()

	return &App{
		log:        log,
		cfg:        cfg,
		storage:    storage,
		redis:      rdb,
		HTTPServer: server,
		Janitor:    janitor.New(log, objects, repo.Media, cfg.Janitor.GracePeriod),
		Users:      userService,
		Media:      mediaService,
		Properties: propertyService,
		Units:      unitService,
	}, nil
}

// Run запускает janitor и блокируется на HTTP-сервере
func (a *App) Run() error {
	const op = "app.Run"

	if a.cfg.Janitor.Enabled {
		if err := a.Janitor.Start(a.cfg.Janitor.Schedule); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return a.HTTPServer.Start()
}

// Stop закрывает всё в обратном порядке; ошибки только логируются
func (a *App) Stop() {
	const op = "app.Stop"

	log := a.log.With(slog.String("op", op))

	if err := a.HTTPServer.Stop(); err != nil {
		log.Error("failed to stop http server", sl.Err(err))
	}

	if a.cfg.Janitor.Enabled {
		a.Janitor.Stop()
	}

	if err := a.redis.Close(); err != nil {
		log.Error("failed to close redis", sl.Err(err))
	}

	a.storage.Stop()

	log.Info("application stopped")
}

// Close освобождает хранилища без запуска сервера (команды seed и migrate)
func (a *App) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.Error("failed to close redis", sl.Err(err))
	}
	a.storage.Stop()
}
