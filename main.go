package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/PayFox/app/controllers"
	"github.com/ManuelReschke/PayFox/internal/pkg/config"
	"github.com/ManuelReschke/PayFox/internal/pkg/database"
	"github.com/ManuelReschke/PayFox/internal/pkg/env"
	"github.com/ManuelReschke/PayFox/internal/pkg/payments"
	"github.com/ManuelReschke/PayFox/internal/pkg/router"
	"github.com/ManuelReschke/PayFox/internal/pkg/stripeapi"
)

func main() {
	env.SetupEnvFile()
	cfg := config.Load()

	app := NewApplication(cfg)
	err := app.Listen(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort))
	log.Fatal(err)
}

func NewApplication(cfg *config.Config) *fiber.App {
	database.SetupDatabase(cfg)

	app := fiber.New(fiber.Config{
		AppName: "PayFox",
	})
	app.Use(recover.New(), logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	app.Get("/metrics", monitor.New())

	stripeClient := stripeapi.New(cfg.StripeSecretKey, stripeapi.Options{
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
	})
	recorder := payments.NewServiceFromDB(database.GetDB())

	r := router.New(
		controllers.NewPaymentController(stripeClient),
		controllers.NewWebhookController(recorder, cfg.StripeWebhookSecret),
	)
	r.InstallRouter(app)

	return app
}
