package http

import (
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/artem13815/blog/api/http/presenter"
)

// Options configure the Fiber application.
type Options struct {
	// Debug exposes error chains in responses and panic stack traces.
	Debug       bool
	BodyLimit   int
	CORSOrigins []string
	Log         *slog.Logger
	// AccessLog receives one line per request; nil means stdout.
	AccessLog io.Writer
}

// NewApp builds the Fiber application with the shared middleware stack.
// Routes are added by Register.
func NewApp(opts Options) *fiber.App {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.AccessLog == nil {
		opts.AccessLog = os.Stdout
	}
	app := fiber.New(fiber.Config{
		AppName:               "blog",
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          presenter.ErrorHandler(opts.Debug, opts.Log),
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${latency} ${method} ${path}\n",
		Output: opts.AccessLog,
	}))
	app.Use(recover.New(recover.Config{EnableStackTrace: opts.Debug}))
	app.Use(cors.New(corsConfig(opts.CORSOrigins)))
	return app
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = "*"
	}
	// Fiber refuses credentials together with a wildcard origin.
	cfg.AllowCredentials = cfg.AllowOrigins != "*" && !slices.Contains(origins, "*")
	return cfg
}
