// Package researchhub is the core of a research-paper assistant: a
// workspace-scoped persistence layer and the pipeline that grounds an
// AI chat in a workspace's imported papers. The UI is an external
// collaborator that embeds an App and calls its services.
package researchhub

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"researchhub/ai"
	"researchhub/app"
	"researchhub/cache"
	"researchhub/config"
	redisClient "researchhub/platform/redis"
	sqliteClient "researchhub/platform/sqlite"
	"researchhub/repository"
	"researchhub/search"
	"researchhub/store"
)

// App wires the store, repositories and services for one session
// context. Each App owns its own store handle and session pointer, so
// independent Apps never share state.
type App struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Redis  *redisv9.Client
	Store  *store.Store

	Auth       *app.AuthService
	Workspaces *app.WorkspaceService
	Chat       *app.ChatService
	Search     *search.Client

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}

	db, err := sqliteClient.New(ctx, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	st, err := store.New(db)
	if err != nil {
		return nil, err
	}

	var redisCli *redisv9.Client
	var historyCache app.HistoryCache
	if cfg.Redis.Addr != "" {
		redisCli, err = redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		historyCache = cache.NewHistoryCache(
			redisCli,
			time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
			time.Duration(cfg.Redis.HistoryDirtyTTLSeconds)*time.Second,
		)
	}

	userRepo := repository.NewUserRepository(st)
	sessionRepo := repository.NewSessionRepository(st)
	workspaceRepo := repository.NewWorkspaceRepository(st)
	paperRepo := repository.NewPaperRepository(st)
	messageRepo := repository.NewMessageRepository(st)

	defaultLLM := ai.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	}

	return &App{
		Config: cfg,
		Log:    logger,
		DB:     db,
		Redis:  redisCli,
		Store:  st,

		Auth:       app.NewAuthService(userRepo, sessionRepo),
		Workspaces: app.NewWorkspaceService(workspaceRepo, paperRepo, historyCache, logger),
		Chat: app.NewChatService(
			workspaceRepo,
			paperRepo,
			messageRepo,
			historyCache,
			defaultLLM,
			cfg.LLM.MaxContextMessage,
			logger,
		),
		Search: search.NewClient(cfg.Search.BaseURL, cfg.Search.Limit, logger),

		StartedAt: time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
	return closeErr
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
