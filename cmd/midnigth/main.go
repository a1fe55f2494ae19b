package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/devdesignchile/midnigth/app/repository"
	"github.com/devdesignchile/midnigth/internal/pkg/cache"
	"github.com/devdesignchile/midnigth/internal/pkg/constants"
	"github.com/devdesignchile/midnigth/internal/pkg/database"
	"github.com/devdesignchile/midnigth/internal/pkg/env"
	"github.com/devdesignchile/midnigth/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:   "midnigth",
		BodyLimit: 2 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// basic flood protection on the public API
	app.Use(constants.APIPrefix, limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
