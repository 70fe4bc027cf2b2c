package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"animehub/internal/config"
	"animehub/internal/database"
	"animehub/internal/middleware"
	"animehub/internal/modules/auth"
	"animehub/internal/modules/catalog"
	"animehub/internal/modules/imagestore"
	"animehub/internal/modules/profile"
	jwtsvc "animehub/internal/pkg/jwt"
	"animehub/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	imageRepo := imagestore.NewRepository(db)
	if err := imageRepo.EnsureSchema(context.Background()); err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	animeRepo := repository.NewAnimeRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	profileService := profile.NewService(userRepo, imageRepo)
	profileHandler := profile.NewHandler(profileService)

	catalogService := catalog.NewService(animeRepo, imageRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	imageHandler := imagestore.NewHandler(imageRepo)
	ingest := imagestore.NewIngestor(imageRepo)

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	// image retrieval lives at the root so stored locators resolve as-is
	imagestore.RegisterRoutes(r, imageHandler)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			profileHandler.RegisterRoutes(protected, ingest)

			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				catalogHandler.RegisterAdminRoutes(admin, ingest)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
