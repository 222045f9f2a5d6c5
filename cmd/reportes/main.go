// Command reportes genera los reportes de inventario (período, grades, disponibles, dump)
// y opcionalmente expone la API de lectura.
//
// Códigos de salida: 0 éxito (con o sin advertencias), 1 error inesperado,
// 2 configuración inválida, 3 fuente de datos no disponible,
// 4 advertencias de integridad en modo estricto.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/database"
)

const (
	exitOK            = 0
	exitFailure       = 1
	exitConfiguration = 2
	exitDataAccess    = 3
	exitIntegrity     = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, newCLI(database.Open), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run ejecuta el comando y traduce el error a código de salida.
func run(ctx context.Context, c *cli, args []string, stdout, stderr io.Writer) int {
	c.logOut = stderr
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	c.finish(ctx)

	code := exitCode(err)
	if err != nil {
		if c.log != nil {
			c.log.Error().Err(err).Int("exit_code", code).Msg("ejecución fallida")
		} else {
			fmt.Fprintln(stderr, "error:", err)
		}
	}
	return code
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrConfiguration):
		return exitConfiguration
	case errors.Is(err, domain.ErrDataAccess):
		return exitDataAccess
	case errors.Is(err, domain.ErrDataIntegrity):
		return exitIntegrity
	}
	return exitFailure
}
