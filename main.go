package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"talentflow-backend/config"
	apiv1 "talentflow-backend/controllers/v1"
	"talentflow-backend/fiberlog"
	"talentflow-backend/initializers"
	"talentflow-backend/middleware"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // limit of 20MB
	})
	app.Use(fiberRecover.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))

	//api
	api := fiber.New()
	api.Use(middleware.RequestID())
	api.Use(fiberlog.New(*initializers.LoggerConfig))
	api.Use(middleware.ErrNotify())
	api.Use(middleware.WithBodyLimit(10 * 1024 * 1024))
	api.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.RequestIDHeader,
		AllowMethods:  "GET, POST, PATCH, DELETE, PUT",
		ExposeHeaders: middleware.RequestIDHeader + ", Content-Disposition",
	}))
	app.Mount("/api", api)
	apiv1.InitRouters(api)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		_ = <-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
