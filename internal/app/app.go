package app

import (
	"context"
	"log/slog"

	httpapp "gallery_app/internal/app/http"
	"gallery_app/internal/config"
	"gallery_app/internal/repository"
	gallery "gallery_app/internal/services/gallery_service"
	token "gallery_app/internal/services/token_service"
	user "gallery_app/internal/services/user_service"
	filestorage "gallery_app/internal/storage/filestorage"
	redisapp "gallery_app/internal/storage/redis"
	httprouters "gallery_app/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	log   *slog.Logger
	repo  *repository.Repository
	redis *redisapp.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	repo, err := repository.NewRepository(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}

	redisClient := redisapp.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.MaxSize)
	if err != nil {
		repo.Close()
		return nil, err
	}

	tokenService := token.NewTokenService(
		repository.NewRedisTokenRepo(redisClient),
		cfg.Token.Secret,
		cfg.Token.AccessTTL,
		cfg.Token.RefreshTTL,
	)
	userService := user.NewUserService(log, repo.User, tokenService)
	galleryService := gallery.NewGalleryService(log, repo.Gallery, fileStorage, cfg.HTTP.PublicBaseURL())

	routers := httprouters.NewRouter(log, userService, galleryService, tokenService)

	server := httpapp.New(log, cfg.Token.Secret, cfg.HTTP.Host, cfg.HTTP.Port, cfg.FileStorage.BaseDir, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		log:        log,
		repo:       repo,
		redis:      redisClient,
	}, nil
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", slog.Any("error", err.Error()))
	}

	a.repo.Close()

	if err := a.redis.Close(); err != nil {
		a.log.Error("failed to close redis client", slog.Any("error", err.Error()))
	}
}
