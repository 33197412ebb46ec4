// Package server exposes the avatar backend over HTTP.
//
// Routes are mounted on a chi router behind request-id, panic recovery,
// CORS and the OpenTelemetry middleware from [observe.Middleware]. Handlers
// translate component errors into status codes; the components themselves
// never see HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AbhiramValmeekam/adam-project/internal/avatar"
	"github.com/AbhiramValmeekam/adam-project/internal/cache"
	"github.com/AbhiramValmeekam/adam-project/internal/health"
	"github.com/AbhiramValmeekam/adam-project/internal/imagery"
	"github.com/AbhiramValmeekam/adam-project/internal/observe"
	"github.com/AbhiramValmeekam/adam-project/internal/quizstore"
	"github.com/AbhiramValmeekam/adam-project/internal/study"
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/stt"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// maxBodyBytes caps request bodies. Base64 audio is the largest payload.
const maxBodyBytes = 25 << 20

// Responder produces the avatar's reply to a question.
type Responder interface {
	Respond(ctx context.Context, question string, lang avatar.Language) (*avatar.Response, error)
}

// Voicer attaches audio and mouth cues to reply messages in place.
type Voicer interface {
	Voice(ctx context.Context, msgs []avatar.Message, voice types.VoiceProfile, language string) error
}

// ImageFinder runs the image pipeline for a question.
type ImageFinder interface {
	Run(ctx context.Context, question, answer string) imagery.Result
}

// Tutor provides the study tools.
type Tutor interface {
	Summarize(ctx context.Context, history []types.ChatEntry) (string, error)
	GenerateTest(ctx context.Context, history []types.ChatEntry) (*study.RetentionTest, error)
	Feedback(ctx context.Context, results any, history []types.ChatEntry) (string, error)
}

// VoiceLister lists synthesis voices.
type VoiceLister interface {
	ListVoices(ctx context.Context) ([]types.VoiceProfile, error)
}

// Option is a functional option for configuring a Server.
type Option func(*Server)

// WithSpeech sets the assembler that voices replies. Without one, replies
// carry text only.
func WithSpeech(v Voicer) Option { return func(s *Server) { s.speech = v } }

// WithTranscriber enables POST /sts.
func WithTranscriber(p stt.Provider) Option { return func(s *Server) { s.stt = p } }

// WithImages enables POST /images.
func WithImages(f ImageFinder) Option { return func(s *Server) { s.images = f } }

// WithTutor enables the summary and retention-test routes.
func WithTutor(t Tutor) Option { return func(s *Server) { s.tutor = t } }

// WithAttempts persists graded attempts and enables the attempts listing.
func WithAttempts(st quizstore.Store) Option { return func(s *Server) { s.attempts = st } }

// WithCache caches voiced replies.
func WithCache(c cache.Store) Option { return func(s *Server) { s.cache = c } }

// WithVoices lists voices from the TTS provider instead of the built-in list.
func WithVoices(v VoiceLister) Option { return func(s *Server) { s.voices = v } }

// WithVoice sets the voice used to speak replies.
func WithVoice(v types.VoiceProfile) Option { return func(s *Server) { s.voice = v } }

// WithDefaultLanguage sets the reply language used when a request names none.
func WithDefaultLanguage(l avatar.Language) Option { return func(s *Server) { s.defaultLanguage = l } }

// WithHealth mounts /healthz and /readyz.
func WithHealth(h *health.Handler) Option { return func(s *Server) { s.health = h } }

// WithCORSOrigins restricts cross-origin requests. Defaults to any origin.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observe.Metrics) Option { return func(s *Server) { s.metrics = m } }

// WithMetricsHandler overrides the /metrics handler. Defaults to
// promhttp.Handler().
func WithMetricsHandler(h http.Handler) Option { return func(s *Server) { s.metricsHandler = h } }

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.log = l } }

// Server holds the components behind the HTTP API.
type Server struct {
	responder Responder
	speech    Voicer
	stt       stt.Provider
	images    ImageFinder
	tutor     Tutor
	attempts  quizstore.Store
	cache     cache.Store
	voices    VoiceLister
	health    *health.Handler

	voice           types.VoiceProfile
	defaultLanguage avatar.Language
	corsOrigins     []string

	metrics        *observe.Metrics
	metricsHandler http.Handler
	log            *slog.Logger
}

// New creates a Server around r.
func New(r Responder, opts ...Option) (*Server, error) {
	if r == nil {
		return nil, errors.New("server: responder must not be nil")
	}
	s := &Server{
		responder:       r,
		defaultLanguage: avatar.English,
		corsOrigins:     []string{"*"},
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	if s.metricsHandler == nil {
		s.metricsHandler = promhttp.Handler()
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Correlation-ID"},
		MaxAge:         300,
	}))
	r.Use(observe.Middleware(s.metrics))
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.Get("/", s.handleRoot)
	r.Get("/voices", s.handleVoices)
	r.Post("/tts", s.handleTTS)
	r.Post("/sts", s.handleSTS)
	r.Post("/images", s.handleImages)
	r.Post("/summary", s.handleSummary)
	r.Route("/retention-test", func(r chi.Router) {
		r.Post("/generate", s.handleGenerateTest)
		r.Post("/grade", s.handleGrade)
		r.Post("/feedback", s.handleFeedback)
		r.Get("/attempts", s.handleAttempts)
	})

	r.Handle("/metrics", s.metricsHandler)
	if s.health != nil {
		s.health.Register(r)
	}
	return r
}

// ListenAndServe serves Handler on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) language(name string) avatar.Language {
	if name == "" {
		return s.defaultLanguage
	}
	return avatar.ParseLanguage(name)
}
