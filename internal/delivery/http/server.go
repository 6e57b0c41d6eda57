package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/config"
	"github.com/infrastructure-search/internal/delivery/http/handler"
	"github.com/infrastructure-search/internal/delivery/http/middleware"
	"github.com/infrastructure-search/internal/metrics"
	"github.com/infrastructure-search/internal/pkg/errors"
	"github.com/infrastructure-search/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	searchHandler  *handler.SearchHandler
	catalogHandler *handler.CatalogHandler
	healthHandler  *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	searchHandler *handler.SearchHandler,
	catalogHandler *handler.CatalogHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Infrastructure Search",
		ReadTimeout:  10 * time.Second,
		// поиск может ждать геокодер и несколько серверов запросов подряд
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		searchHandler:  searchHandler,
		catalogHandler: catalogHandler,
		healthHandler:  healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(metrics.Middleware())
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Prometheus
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Health)

	// Search routes
	api.Get("/search", s.searchHandler.Search)
	api.Post("/search", s.searchHandler.SearchPost)
	api.Get("/parse", s.searchHandler.Parse)
	api.Get("/geocode", s.searchHandler.Geocode)

	// Catalog routes
	api.Get("/types", s.catalogHandler.GetTypes)
	api.Get("/operators", s.catalogHandler.GetOperators)
}

// App возвращает fiber приложение (для тестов)
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные хендлерами (404 маршрута, паника),
// в том же формате {"error", "code"}
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if _, ok := errors.AsAppError(err); ok {
			return utils.SendError(c, err)
		}

		e, ok := err.(*fiber.Error)
		if !ok {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.String("request_id", middleware.RequestID(c)),
				zap.Error(err),
			)
			return utils.SendError(c, err)
		}

		return c.Status(e.Code).JSON(utils.ErrorResponse{
			Error: e.Message,
			Code:  statusCode(e.Code),
		})
	}
}

// statusCode - "Not Found" -> "NOT_FOUND"
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(fiberutils.StatusMessage(status), " ", "_"))
}
