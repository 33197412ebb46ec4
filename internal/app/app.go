// Package app wires all avatar-backend subsystems into a running application.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, Run serves the HTTP API, and Shutdown tears everything down in
// order.
//
// For testing, inject implementations via functional options (WithCache,
// WithAttempts, WithImageSources, ...). When an option is not provided, New
// creates real implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/AbhiramValmeekam/adam-project/internal/avatar"
	"github.com/AbhiramValmeekam/adam-project/internal/cache"
	"github.com/AbhiramValmeekam/adam-project/internal/config"
	"github.com/AbhiramValmeekam/adam-project/internal/health"
	"github.com/AbhiramValmeekam/adam-project/internal/imagery"
	"github.com/AbhiramValmeekam/adam-project/internal/observe"
	"github.com/AbhiramValmeekam/adam-project/internal/quizstore"
	"github.com/AbhiramValmeekam/adam-project/internal/server"
	"github.com/AbhiramValmeekam/adam-project/internal/speech"
	"github.com/AbhiramValmeekam/adam-project/internal/study"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image/pexels"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image/placeholder"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image/wikimedia"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// App owns all subsystem lifetimes.
type App struct {
	cfg       *config.Config
	providers *Providers
	log       *slog.Logger
	metrics   *observe.Metrics

	// Subsystems, initialised in New and torn down in Shutdown.
	cache      cache.Store
	attempts   quizstore.Store
	sources    []image.Provider
	sourcesSet bool
	images     *imagery.Pipeline
	responder  *avatar.Responder
	speech     *speech.Assembler
	tutor      *study.Tutor
	checkers   []health.Checker
	server     *server.Server

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithCache injects a reply cache instead of creating one from config.
func WithCache(c cache.Store) Option {
	return func(a *App) { a.cache = c }
}

// WithAttempts injects an attempt store instead of creating one from config.
func WithAttempts(s quizstore.Store) Option {
	return func(a *App) { a.attempts = s }
}

// WithImageSources replaces the configured search tiers. The placeholder
// tier is always appended by the pipeline.
func WithImageSources(sources ...image.Provider) Option {
	return func(a *App) {
		a.sources = sources
		a.sourcesSet = true
	}
}

// WithMetrics sets the metrics sink. Defaults to observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.log = l }
}

// ─── New ─────────────────────────────────────────────────────────────────────

// New creates an App by wiring all subsystems together. The providers struct
// comes from [BuildProviders]. Use Option functions to inject test doubles.
//
// New performs all initialisation synchronously: cache and attempt store
// connection, image pipeline, reply and speech assembly, study tools, and the
// HTTP server.
func New(ctx context.Context, cfg *config.Config, providers *Providers, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config must not be nil")
	}
	if providers == nil || providers.LLM == nil {
		return nil, errors.New("app: llm provider must not be nil")
	}
	a := &App{
		cfg:       cfg,
		providers: providers,
	}
	for _, o := range opts {
		o(a)
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}

	// ── 1. Reply cache ───────────────────────────────────────────────────
	if err := a.initCache(ctx); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("app: init cache: %w", err)
	}

	// ── 2. Attempt store ─────────────────────────────────────────────────
	if err := a.initAttempts(ctx); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("app: init attempts: %w", err)
	}

	// ── 3. Image pipeline ────────────────────────────────────────────────
	if err := a.initImages(); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("app: init images: %w", err)
	}

	// ── 4. Reply, speech and study ───────────────────────────────────────
	if err := a.initAvatar(); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("app: init avatar: %w", err)
	}

	// ── 5. HTTP server ───────────────────────────────────────────────────
	if err := a.initServer(); err != nil {
		a.closeAll()
		return nil, fmt.Errorf("app: init server: %w", err)
	}

	return a, nil
}

func (a *App) initCache(ctx context.Context) error {
	if a.cache != nil {
		return nil
	}
	switch a.cfg.Cache.Backend {
	case config.CacheDisabled:
		a.log.Info("reply cache disabled")
		return nil
	case config.CacheRedis:
		rs, err := cache.NewRedisStore(&redis.Options{
			Addr:     a.cfg.Cache.RedisAddr,
			Password: a.cfg.Cache.RedisPassword,
			DB:       a.cfg.Cache.RedisDB,
		}, a.cfg.Cache.TTL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, rs.Close)
		if err := rs.Ping(ctx); err != nil {
			// Redis may come up after us; readiness reports it until then.
			a.log.Warn("redis not reachable at startup", "addr", a.cfg.Cache.RedisAddr, "err", err)
		}
		a.cache = rs
		a.checkers = append(a.checkers, health.Checker{Name: "cache", Check: rs.Ping})
		a.log.Info("reply cache ready", "backend", "redis", "addr", a.cfg.Cache.RedisAddr, "ttl", a.cfg.Cache.TTL)
	default:
		ms := cache.NewMemoryStore(a.cfg.Cache.TTL)
		a.closers = append(a.closers, ms.Close)
		a.cache = ms
		a.log.Info("reply cache ready", "backend", "memory", "ttl", a.cfg.Cache.TTL)
	}
	return nil
}

func (a *App) initAttempts(ctx context.Context) error {
	if a.attempts != nil {
		return nil
	}
	dsn := a.cfg.Quiz.PostgresDSN
	if dsn == "" {
		a.attempts = quizstore.NewMemoryStore()
		return nil
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})
	st := quizstore.NewPostgresStore(pool)
	if err := st.Migrate(ctx); err != nil {
		return err
	}
	a.attempts = st
	a.checkers = append(a.checkers, health.Checker{Name: "postgres", Check: pool.Ping})
	a.log.Info("attempt store ready", "backend", "postgres")
	return nil
}

func (a *App) initImages() error {
	ic := a.cfg.Images

	var phOpts []placeholder.Option
	if ic.Placeholder.BaseURL != "" {
		phOpts = append(phOpts, placeholder.WithBaseURL(ic.Placeholder.BaseURL))
	}
	ph := placeholder.New(phOpts...)

	if !a.sourcesSet {
		if !ic.Wikimedia.Disabled {
			wopts := []wikimedia.Option{wikimedia.WithLogger(a.log)}
			if ic.Wikimedia.UserAgent != "" {
				wopts = append(wopts, wikimedia.WithUserAgent(ic.Wikimedia.UserAgent))
			}
			if ic.Wikimedia.BaseURL != "" {
				wopts = append(wopts, wikimedia.WithBaseURL(ic.Wikimedia.BaseURL))
			}
			a.sources = append(a.sources, wikimedia.New(wopts...))
		}
		if ic.Pexels.APIKey != "" {
			popts := []pexels.Option{pexels.WithLogger(a.log), pexels.WithPlaceholder(ph)}
			if ic.Pexels.BaseURL != "" {
				popts = append(popts, pexels.WithBaseURL(ic.Pexels.BaseURL))
			}
			a.sources = append(a.sources, pexels.New(ic.Pexels.APIKey, popts...))
		}
	}

	opts := []imagery.Option{
		imagery.WithCount(ic.Count),
		imagery.WithLogger(a.log),
		imagery.WithMetrics(a.metrics),
	}
	if ic.Refine {
		refiner := a.providers.Refine
		if refiner == nil {
			refiner = a.providers.LLM
		}
		opts = append(opts, imagery.WithRefiner(refiner))
	}
	p, err := imagery.New(a.sources, ph, opts...)
	if err != nil {
		return err
	}
	a.images = p
	a.log.Info("image pipeline ready", "sources", len(a.sources), "count", p.Count(), "refine", ic.Refine)
	return nil
}

func (a *App) initAvatar() error {
	r, err := avatar.New(a.providers.LLM,
		avatar.WithImages(a.images),
		avatar.WithLogger(a.log),
		avatar.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}
	a.responder = r

	if a.providers.TTS != nil {
		sp, err := speech.New(a.providers.TTS, a.providers.LipSync,
			speech.WithVoice(a.voice()),
			speech.WithLogger(a.log),
		)
		if err != nil {
			return err
		}
		a.speech = sp
	}

	if ls := a.providers.LipSync; ls != nil {
		if r, ok := ls.(interface{ Ready(context.Context) error }); ok {
			a.checkers = append(a.checkers, health.Checker{Name: "lipsync", Check: r.Ready, Optional: true})
		}
	}

	topts := []study.Option{study.WithLogger(a.log)}
	if a.providers.Quiz != nil {
		topts = append(topts, study.WithQuizModel(a.providers.Quiz))
	}
	t, err := study.New(a.providers.LLM, topts...)
	if err != nil {
		return err
	}
	a.tutor = t
	return nil
}

func (a *App) initServer() error {
	opts := []server.Option{
		server.WithImages(a.images),
		server.WithTutor(a.tutor),
		server.WithAttempts(a.attempts),
		server.WithVoice(a.voice()),
		server.WithDefaultLanguage(avatar.ParseLanguage(a.cfg.Avatar.DefaultLanguage)),
		server.WithHealth(health.New(a.checkers...)),
		server.WithCORSOrigins(a.cfg.Server.CORSOrigins),
		server.WithMetrics(a.metrics),
		server.WithLogger(a.log),
	}
	if a.speech != nil {
		opts = append(opts, server.WithSpeech(a.speech))
	}
	if a.providers.TTS != nil {
		opts = append(opts, server.WithVoices(a.providers.TTS))
	}
	if a.providers.STT != nil {
		opts = append(opts, server.WithTranscriber(a.providers.STT))
	}
	if a.cache != nil {
		opts = append(opts, server.WithCache(a.cache))
	}
	srv, err := server.New(a.responder, opts...)
	if err != nil {
		return err
	}
	a.server = srv
	return nil
}

func (a *App) voice() types.VoiceProfile {
	return types.VoiceProfile{ID: a.cfg.Avatar.VoiceID, Provider: a.cfg.Providers.TTS.Name}
}

// ─── Run ─────────────────────────────────────────────────────────────────────

// Handler returns the HTTP API. Useful for tests and embedding.
func (a *App) Handler() http.Handler { return a.server.Handler() }

// Run serves the HTTP API on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.server.ListenAndServe(ctx, a.cfg.Server.ListenAddr)
}

// ─── Shutdown ────────────────────────────────────────────────────────────────

// Shutdown tears down all subsystems in init order. It respects the context
// deadline: if ctx expires before all closers finish, remaining closers are
// skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		a.log.Info("shutting down", "closers", len(a.closers))

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				a.log.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				a.log.Warn("closer error", "index", i, "err", err)
			}
		}

		a.log.Info("shutdown complete")
	})
	return shutdownErr
}

// closeAll releases whatever New had opened before it failed.
func (a *App) closeAll() {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			a.log.Warn("closer error", "err", err)
		}
	}
	a.closers = nil
}
