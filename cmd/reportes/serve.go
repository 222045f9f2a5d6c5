package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-reportes/docs"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/database"
	httpRouter "github.com/jhoicas/Inventario-reportes/internal/interfaces/http"
)

const swaggerFile = "./docs/swagger.json"

// serveCmd expone los mismos reportes por HTTP, en modo solo lectura.
func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "API HTTP de solo lectura con los cuatro reportes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.cfg.ValidateHTTP(); err != nil {
				return err
			}
			return c.serve(cmd.Context())
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	svc, closeFn, err := c.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	app := fiber.New(fiber.Config{
		AppName:               c.cfg.App.Name,
		ReadTimeout:           time.Second * 10,
		WriteTimeout:          time.Second * 60,
		IdleTimeout:           time.Second * 60,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		// binario desplegado sin el directorio docs: se sirve la especificación embebida
		app.Get("/docs/doc.json", func(fc *fiber.Ctx) error {
			fc.Type("json")
			return fc.SendString(docs.SwaggerInfo.ReadDoc())
		})
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:   c.cfg.App.Name,
		Reports:   httpRouter.NewReportHandler(svc, c.defaultGranularity(), c.loc, c.log, c.rec),
		Metrics:   c.rec.Registry(),
		JWTSecret: c.cfg.JWT.Secret,
		JWTIssuer: c.cfg.JWT.Issuer,
	})

	errCh := make(chan error, 1)
	go func() {
		c.log.Info().Str("addr", c.cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		errCh <- app.Listen(c.cfg.HTTP.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		c.log.Error().Err(err).Msg("apagado del servidor")
	}
	c.log.Info().Msg("servidor detenido")
	return nil
}

// migrateCmd administra el esquema de reportes en PostgreSQL.
func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Aplica, revierte o lista las migraciones del esquema (solo postgres)",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			if err := database.Migrate(cmd.Context(), c.cfg.DB, direction); err != nil {
				return err
			}
			c.log.Info().Str("direction", direction).Msg("migraciones aplicadas")
			return nil
		},
	}
}
