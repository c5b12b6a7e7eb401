package main

import (
	"context"
	"fmt"

	"lingua-bot/internal/adapter"
	"lingua-bot/internal/adapter/telegram"
	"lingua-bot/internal/adapter/tutor"
	"lingua-bot/internal/cache"
	"lingua-bot/internal/config"
	"lingua-bot/internal/database"
	"lingua-bot/internal/domain"
	"lingua-bot/internal/handler"
	"lingua-bot/internal/repository"
	"lingua-bot/internal/service"
	"lingua-bot/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// stores holds the three durable stores. Store paths that name the same file
// share one connection.
type stores struct {
	dbs    map[string]*sqlx.DB
	users  *repository.UserRecordRepository
	plans  *repository.PlanRepository
	essays *repository.EssayTopicRepository
}

func openStores(storageCfg config.StorageConfig) (*stores, error) {
	s := &stores{dbs: make(map[string]*sqlx.DB)}
	open := func(path string) (*sqlx.DB, error) {
		if db, ok := s.dbs[path]; ok {
			return db, nil
		}
		db, err := database.NewSQLiteDB(path)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		s.dbs[path] = db
		return db, nil
	}

	usersDB, err := open(storageCfg.UsersPath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("users store: %w", err)
	}
	plansDB, err := open(storageCfg.PlansPath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("plans store: %w", err)
	}
	essaysDB, err := open(storageCfg.EssaysPath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("essays store: %w", err)
	}

	s.users = repository.NewUserRecordRepository(usersDB)
	s.plans = repository.NewPlanRepository(plansDB)
	s.essays = repository.NewEssayTopicRepository(essaysDB)
	return s, nil
}

func (s *stores) healthChecks() map[string]handler.HealthCheck {
	checks := make(map[string]handler.HealthCheck, len(s.dbs))
	for path, db := range s.dbs {
		checks["sqlite:"+path] = db.PingContext
	}
	return checks
}

func (s *stores) Close() {
	for _, db := range s.dbs {
		db.Close()
	}
}

// app is the fully wired bot.
type app struct {
	stores    *stores
	redis     *redis.Client
	sessions  domain.SessionStore
	locker    service.RunLocker
	botAPI    *tgbotapi.BotAPI
	presenter *telegram.Presenter
	machine   *service.StateMachine
	broadcast *service.BroadcastService
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	st, err := openStores(cfg.Storage)
	if err != nil {
		return nil, err
	}
	a := &app{stores: st}

	switch cfg.Session.Backend {
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		a.sessions = adapter.NewRedisSessionAdapter(client, cfg.Session.TTL)
		a.locker = adapter.NewRedisLockAdapter(client)
		log.Info("Using Redis session store", zap.String("address", cfg.Redis.Address))
	default:
		a.sessions = session.NewMemoryStore()
		log.Info("Using in-memory session store")
	}

	model, err := tutor.NewModel(cfg.LLM)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	llmTutor := tutor.NewLLMTutor(model, cfg.LLM.Temperature, log.Named("tutor"))

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	a.botAPI = botAPI
	log.Info("Authorized on Telegram", zap.String("bot", botAPI.Self.UserName))

	a.presenter = telegram.NewPresenter(map[string]string{"broadcast_time": cfg.Broadcast.Time})
	a.machine = service.NewStateMachine(st.users, st.plans, st.essays, a.sessions, llmTutor, cfg.LLM.Timeout, log.Named("conversation"))
	a.broadcast = service.NewBroadcastService(st.users,
		telegram.NewNotifier(botAPI, a.presenter),
		cfg.Broadcast.Concurrency,
		log.Named("broadcast"))
	return a, nil
}

func (a *app) healthChecks() map[string]handler.HealthCheck {
	checks := a.stores.healthChecks()
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.stores.Close()
}
