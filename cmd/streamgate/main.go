package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/LukasDorner/StreamGate/app/controllers"
	"github.com/LukasDorner/StreamGate/app/repository"
	"github.com/LukasDorner/StreamGate/internal/pkg/cache"
	"github.com/LukasDorner/StreamGate/internal/pkg/database"
	"github.com/LukasDorner/StreamGate/internal/pkg/delivery"
	"github.com/LukasDorner/StreamGate/internal/pkg/env"
	"github.com/LukasDorner/StreamGate/internal/pkg/notify"
	"github.com/LukasDorner/StreamGate/internal/pkg/router"
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

	// Media delivery is optional: without bucket credentials the access
	// endpoint still answers, it just cannot issue signed URLs.
	if cfg, err := delivery.LoadConfig(); err != nil {
		log.Printf("media delivery disabled: %v", err)
	} else {
		issuer, err := delivery.NewS3Issuer(cfg)
		if err != nil {
			log.Printf("media delivery disabled: %v", err)
		} else {
			controllers.SetURLIssuer(issuer)
		}
	}

	// In-process notification delivery; larger deployments point a dedicated
	// consumer at the same queue and set NOTIFY_WORKER=false here.
	if env.GetEnv("NOTIFY_WORKER", "true") == "true" {
		notify.NewWorker(nil).Start()
	}

	// Find the correct base path when started from cmd/streamgate
	basePaths := []string{
		"./",
		"../../",
	}
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}
	if basePath == "" {
		basePath = "./"
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1048576, // webhook payloads are small JSON bodies
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}
