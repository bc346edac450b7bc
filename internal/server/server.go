// server.go
//
// A serialized fiction publishing service on the jam-build data service stack
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of novelsdb.
// novelsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// novelsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with novelsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package server assembles the fiber application: middleware, metrics,
// API docs and the /api routes with their handlers and services.
package server

import (
	"fmt"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/localnerve/novelsdb/internal/config"
	"github.com/localnerve/novelsdb/internal/handlers"
	"github.com/localnerve/novelsdb/internal/middleware"
	"github.com/localnerve/novelsdb/internal/services"
	"github.com/localnerve/novelsdb/internal/store"
	"github.com/localnerve/novelsdb/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	_ "github.com/localnerve/novelsdb/docs/api" // Swagger docs
)

// Services are the application services the routes are served by
type Services struct {
	Auth    *services.AuthService
	Content *services.ContentService
}

// NewServices wires the stores, token issuer, hasher and guard over db
func NewServices(cfg *config.Config, db *gorm.DB) (*Services, error) {
	tokens, err := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	users := store.NewUserStore(db)
	content := store.NewContentStore(db)

	return &Services{
		Auth:    services.NewAuthService(users, tokens, services.NewBcryptHasher(cfg.BcryptCost)),
		Content: services.NewContentService(content, services.NewOwnershipGuard(content)),
	}, nil
}

// New creates the fiber app for cfg over db
func New(cfg *config.Config, db *gorm.DB) (*fiber.App, error) {
	svc, err := NewServices(cfg, db)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "novelsdb",
		ErrorHandler:          utils.ErrorHandler,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: cfg.RateLimitWindow,
			LimitReached: func(c *fiber.Ctx) error {
				return utils.ErrorResponse(c, "Too many requests, please try again later.", fiber.StatusTooManyRequests)
			},
		}))
	}
	app.Use(compress.New())

	// Prometheus metrics, one registry per app
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := fiberprometheus.NewWithRegistry(registry, "novelsdb", "http", "", nil)
	metrics.RegisterAt(app, "/metrics")
	app.Use(metrics.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	registerRoutes(app.Group("/api"), cfg, db, svc)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir, fiber.Static{
			Compress:      true,
			CacheDuration: 10 * time.Second,
		})
	}

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "Not found")
	})

	return app, nil
}

func registerRoutes(api fiber.Router, cfg *config.Config, db *gorm.DB, svc *Services) {
	requireAuth := middleware.RequireAuth(svc.Auth)

	authHandler := &handlers.AuthHandler{Auth: svc.Auth}
	novelHandler := &handlers.NovelHandler{Content: svc.Content}
	chapterHandler := &handlers.ChapterHandler{Content: svc.Content}
	healthHandler := &handlers.HealthHandler{Config: cfg, DB: db}

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/check", requireAuth, authHandler.Check)

	// /search is registered ahead of /:id
	novels := api.Group("/novels")
	novels.Get("/", novelHandler.ListNovels)
	novels.Get("/search", novelHandler.SearchNovels)
	novels.Post("/", requireAuth, novelHandler.CreateNovel)
	novels.Get("/:id", novelHandler.GetNovel)
	novels.Put("/:id", requireAuth, novelHandler.UpdateNovel)
	novels.Delete("/:id", requireAuth, novelHandler.DeleteNovel)

	chapters := api.Group("/chapters")
	chapters.Post("/", requireAuth, chapterHandler.CreateChapter)
	chapters.Get("/chapter/:id", chapterHandler.GetChapter)
	chapters.Get("/:novelId", chapterHandler.ListChapters)
	chapters.Put("/:id", requireAuth, chapterHandler.UpdateChapter)
	chapters.Delete("/:id", requireAuth, chapterHandler.DeleteChapter)

	api.Get("/health", healthHandler.Health)
}
