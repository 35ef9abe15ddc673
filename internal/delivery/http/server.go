package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	_ "github.com/hkgcity/directory/docs"
	"github.com/hkgcity/directory/internal/config"
	"github.com/hkgcity/directory/internal/delivery/http/handler"
	"github.com/hkgcity/directory/internal/delivery/http/middleware"
	apperrors "github.com/hkgcity/directory/internal/pkg/errors"
)

// Handlers - набор обработчиков HTTP сервера
type Handlers struct {
	Health  *handler.HealthHandler
	Catalog *handler.CatalogHandler
	Session *handler.SessionHandler
	Auth    *handler.AuthHandler
	Admin   *handler.AdminHandler
	Stats   *handler.StatsHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
	users    middleware.UserResolver
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	handlers Handlers,
	users middleware.UserResolver,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "HK City Directory",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
		users:    users,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.GetCORSOrigins()))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	h := s.handlers

	// Swagger UI и doc.json
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", h.Health.Health)

	// Catalog
	api.Get("/categories", h.Catalog.ListCategories)
	api.Get("/categories/:slug/listings", h.Catalog.BrowseListings)
	api.Get("/regions", h.Catalog.GetRegions)
	api.Get("/search", h.Catalog.Search)
	api.Post("/listings/:id/click", h.Catalog.TrackClick)
	api.Get("/announcements", h.Catalog.GetAnnouncements)
	api.Get("/banners", h.Catalog.GetBanners)

	// Stats
	api.Post("/stats/pageview", h.Stats.RecordPageView)

	// Sessions - сохраняемое состояние фильтров и поиска
	sessions := api.Group("/sessions")
	sessions.Post("/", h.Session.Create)
	sessions.Get("/:id/filters", h.Session.GetFilters)
	sessions.Put("/:id/filters/region", h.Session.SetRegion)
	sessions.Put("/:id/filters/subregion", h.Session.SetSubRegion)
	sessions.Put("/:id/filters/facets", h.Session.SetFacet)
	sessions.Put("/:id/filters/sort", h.Session.SetSort)
	sessions.Delete("/:id/filters", h.Session.ClearFilters)
	sessions.Get("/:id/listings", h.Session.GetListings)
	sessions.Put("/:id/search", h.Session.Search)
	sessions.Get("/:id/search", h.Session.GetSearch)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/logout", h.Auth.Logout)
	authGroup.Get("/me", middleware.RequireAdmin(s.users), h.Auth.Me)

	// Admin (bearer token); /stats регистрируется раньше /:collection
	admin := api.Group("/admin", middleware.RequireAdmin(s.users))
	admin.Get("/stats", h.Admin.GetStats)
	admin.Get("/:collection", h.Admin.List)
	admin.Post("/:collection", h.Admin.Create)
	admin.Patch("/:collection/:id", h.Admin.Update)
	admin.Delete("/:collection/:id", h.Admin.Delete)
}

// App returns the underlying fiber app.
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

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := apperrors.ErrInternalServer.Code

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			if code == fiber.StatusNotFound {
				errCode = "NOT_FOUND"
			}
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    errCode,
				"message": err.Error(),
			},
		})
	}
}
