package httpserver

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dvrpc/tp-updater/internal/catalog"
	"github.com/dvrpc/tp-updater/internal/metrics"
	"github.com/dvrpc/tp-updater/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestIDHeader = "X-Request-ID"

// Config holds the HTTP API settings.
type Config struct {
	Addr     string
	BasePath string
	Catalog  *catalog.Catalog
	// Gatherer serves /metrics when non-nil.
	Gatherer prometheus.Gatherer
	Clock    func() time.Time
}

// Server provides the overlay JSON API.
type Server struct {
	cfg       Config
	store     model.OverlayStore
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(cfg Config, store model.OverlayStore) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8000"
	}
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:       cfg,
		store:     store,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Handler builds the routed gin engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	api := r.Group(s.cfg.BasePath)
	api.GET("/indicators", s.handleList)
	api.POST("/indicators", s.handleAdd)
	api.DELETE("/indicators", s.handleRemove)
	api.GET("/catalog", s.handleCatalog)

	r.GET("/api/health", s.handleHealth)
	if s.cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("httpserver: serve: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// requestID propagates or assigns an X-Request-ID for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) bindName(c *gin.Context) (string, bool) {
	var req model.IndicatorRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid JSON body or missing name field"})
		return "", false
	}
	return req.Name, true
}

func (s *Server) handleAdd(c *gin.Context) {
	name, ok := s.bindName(c)
	if !ok {
		metrics.ObserveMutation("add", metrics.OutcomeInvalid)
		return
	}

	err := s.store.Add(c.Request.Context(), name)
	switch {
	case err == nil:
		metrics.ObserveMutation("add", metrics.OutcomeSuccess)
		c.JSON(http.StatusCreated, model.IndicatorRequest{Name: name})
	case errors.Is(err, model.ErrInvalidIndicator):
		metrics.ObserveMutation("add", metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: model.Describe(err)})
	default:
		metrics.ObserveMutation("add", metrics.OutcomeError)
		log.Printf("httpserver: [%s] add %q: %v", c.GetString(requestIDHeader), name, err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: model.Describe(err)})
	}
}

func (s *Server) handleRemove(c *gin.Context) {
	name, ok := s.bindName(c)
	if !ok {
		metrics.ObserveMutation("remove", metrics.OutcomeInvalid)
		return
	}

	err := s.store.Remove(c.Request.Context(), name)
	switch {
	case err == nil:
		metrics.ObserveMutation("remove", metrics.OutcomeSuccess)
		c.JSON(http.StatusOK, model.IndicatorRequest{Name: name})
	case errors.Is(err, model.ErrNotFound):
		metrics.ObserveMutation("remove", metrics.OutcomeNotFound)
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: model.Describe(err)})
	default:
		metrics.ObserveMutation("remove", metrics.OutcomeError)
		log.Printf("httpserver: [%s] remove %q: %v", c.GetString(requestIDHeader), name, err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: model.Describe(err)})
	}
}

func (s *Server) handleList(c *gin.Context) {
	names, err := s.store.List(c.Request.Context(), s.cfg.Clock())
	if err != nil {
		log.Printf("httpserver: [%s] list: %v", c.GetString(requestIDHeader), err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: model.Describe(err)})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}

func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, model.CatalogResponse{
		Version:    s.cfg.Catalog.Version(),
		Indicators: s.cfg.Catalog.Names(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	names, err := s.store.List(c.Request.Context(), s.cfg.Clock())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read overlay store"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"uptime":          time.Since(s.startTime).String(),
		"overlay_count":   len(names),
		"catalog_version": s.cfg.Catalog.Version(),
	})
}
