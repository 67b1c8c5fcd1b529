// Package httpapi serves the generated reports and a small JSON API over
// the stored project batches.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/model"
	"github.com/huangzhongping/AIProjectCrawler/internal/storage"
)

const (
	defaultStatsDays = 30
	maxStatsDays     = 365
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Options struct {
	Host            string
	Port            int
	OutputDir       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	store  *storage.Store
	logger zerolog.Logger
	opts   Options
}

type statsDay struct {
	Date     string         `json:"date"`
	Projects int            `json:"projects"`
	AICount  int            `json:"ai_count"`
	Stars    int            `json:"stars"`
	Sources  map[string]int `json:"sources"`
}

func NewServer(store *storage.Store, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8080
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Server{
		store:  store,
		logger: logger,
		opts: Options{
			Host:            host,
			Port:            port,
			OutputDir:       opts.OutputDir,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.buildEcho()

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("radar report server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("radar report server stopped")
	return nil
}

func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	if s.opts.OutputDir != "" {
		e.Static("/", s.opts.OutputDir)
	}

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/dates", s.handleDates)
	api.GET("/projects", s.handleProjects)
	api.GET("/stats", s.handleStats)

	return e
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if v, ok := he.Message.(string); ok && strings.TrimSpace(v) != "" {
			message = v
		} else if text := http.StatusText(status); text != "" {
			message = text
		}
	} else if err != nil {
		message = err.Error()
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		if status >= 500 {
			_ = internalError(c, "Internal server error")
			return
		}
		_ = fail(c, status, message)
		return
	}

	_ = c.String(status, message)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "radar",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleDates(c echo.Context) error {
	dates, err := s.store.Dates(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("query dates failed")
		return internalError(c, "Failed to load dates")
	}
	return success(c, map[string]any{"dates": dates})
}

// handleProjects returns one day's batch. date defaults to today; ai=true
// narrows to AI-classified projects.
func (s *Server) handleProjects(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = globaltime.Date()
	}
	if !dateRe.MatchString(date) {
		return failBadRequest(c, "date must be YYYY-MM-DD")
	}

	aiOnly := false
	if raw := strings.TrimSpace(c.QueryParam("ai")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return failBadRequest(c, "ai must be a boolean")
		}
		aiOnly = parsed
	}

	var (
		projects []model.Project
		err      error
	)
	if aiOnly {
		projects, err = s.store.AIProjectsByDate(c.Request().Context(), date)
	} else {
		projects, err = s.store.ProjectsByDate(c.Request().Context(), date)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("query projects failed")
		return internalError(c, "Failed to load projects")
	}
	if len(projects) == 0 {
		return failNotFound(c, fmt.Sprintf("no projects stored for %s", date))
	}

	return success(c, map[string]any{
		"date":     date,
		"count":    len(projects),
		"projects": projects,
	})
}

func (s *Server) handleStats(c echo.Context) error {
	days := defaultStatsDays
	if raw := strings.TrimSpace(c.QueryParam("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxStatsDays {
			return failBadRequest(c, fmt.Sprintf("days must be an integer in [1,%d]", maxStatsDays))
		}
		days = parsed
	}

	stats, err := s.store.StatsRange(c.Request().Context(), days)
	if err != nil {
		s.logger.Error().Err(err).Msg("query stats failed")
		return internalError(c, "Failed to load stats")
	}

	return success(c, map[string]any{
		"days":  days,
		"stats": bucketStats(stats),
	})
}

// bucketStats folds per-source rows into one bucket per day, oldest first.
func bucketStats(stats []storage.DailyStat) []statsDay {
	byDate := make(map[string]*statsDay)
	order := make([]string, 0)
	for _, stat := range stats {
		day := byDate[stat.Date]
		if day == nil {
			day = &statsDay{Date: stat.Date, Sources: make(map[string]int)}
			byDate[stat.Date] = day
			order = append(order, stat.Date)
		}
		day.Projects += stat.ProjectCount
		day.AICount += stat.AICount
		day.Stars += stat.TotalStars
		day.Sources[stat.Source] = stat.ProjectCount
	}

	out := make([]statsDay, 0, len(order))
	for _, date := range order {
		out = append(out, *byDate[date])
	}
	return out
}
