// Package server exposes the job controller over HTTP.
package server

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"ytxtract/internal/app"
	"ytxtract/internal/contracts"
	"ytxtract/internal/domain/consts"
	"ytxtract/internal/models"
	"ytxtract/internal/utils/logging"
)

// DefaultAddr is where the server listens unless told otherwise.
const DefaultAddr = "127.0.0.1:8827"

// SettingsStore reads and changes persisted settings.
type SettingsStore interface {
	Settings() models.Settings
	Set(key, value string) error
}

// Server serves one controller. It is the sole consumer of the controller's events.
type Server struct {
	ctrl     *app.Controller
	history  contracts.HistoryStore
	stats    contracts.StatsStore
	settings SettingsStore
	app      *fiber.App

	mu       sync.Mutex
	jobID    string
	status   string
	progress float64
	prompt   *app.Prompt
	last     *app.Result
}

// New builds the server and its routes.
func New(ctrl *app.Controller, history contracts.HistoryStore, stats contracts.StatsStore, settings SettingsStore) *Server {
	s := &Server{
		ctrl:     ctrl,
		history:  history,
		stats:    stats,
		settings: settings,
	}

	f := fiber.New(fiber.Config{
		AppName:      "ytxtract",
		ReadTimeout:  consts.ServerIOTimeout,
		WriteTimeout: consts.ServerIOTimeout,
	})
	f.Use(recover.New())
	f.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	api := f.Group("/api/v1")

	jobs := api.Group("/jobs")
	jobs.Post("/", s.handleSubmit)
	jobs.Get("/current", s.handleCurrentJob)
	jobs.Post("/current/cancel", s.handleCancel)
	jobs.Post("/current/prompt", s.handleAnswer)

	api.Get("/history", s.handleHistory)
	api.Get("/stats", s.handleStats)
	api.Get("/settings", s.handleGetSettings)
	api.Put("/settings/:key", s.handleSetSetting)

	f.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app = f
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Consume drains controller events until ctx is done.
func (s *Server) Consume(ctx context.Context) {
	events := s.ctrl.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			s.apply(e)
		}
	}
}

func (s *Server) apply(e app.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.JobID != s.jobID {
		s.jobID = e.JobID
		s.status, s.progress, s.prompt, s.last = "", 0, nil, nil
	}
	switch e.Kind {
	case app.EventStatus:
		s.status = e.Text
	case app.EventProgress:
		s.progress = e.Ratio
	case app.EventPrompt:
		s.prompt = e.Prompt
	case app.EventTerminal:
		s.prompt = nil
		s.last = e.Result
		if e.Result.Outcome.Status == models.OutcomeSuccess {
			s.progress = 1
		}
	}
}

// Listen serves on addr until ctx is done.
func (s *Server) Listen(ctx context.Context, addr string) error {
	go s.Consume(ctx)
	go func() {
		<-ctx.Done()
		logging.I("Shutting down server...")
		if err := s.app.ShutdownWithTimeout(consts.ShutdownGrace); err != nil {
			logging.E("Error shutting down: %v", err)
		}
	}()

	logging.S("ytxtract server running on http://%s", addr)
	return s.app.Listen(addr)
}
