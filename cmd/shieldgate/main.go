package main

import (
	"os"

	"github.com/spf13/cobra"

	"shieldgate/internal/interfaces/cli/csrftoken"
	"shieldgate/internal/interfaces/cli/server"
	"shieldgate/internal/shared/version"
)

// @title shieldgate API
// @version 1.0
// @description HTTP API served behind tiered rate limiting, CORS, CSRF validation and security headers.
// @BasePath /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:     "shieldgate",
		Short:   "shieldgate - request protection for HTTP APIs",
		Long:    `shieldgate serves an HTTP API behind a protection pipeline: tiered rate limiting, CORS, CSRF validation and security headers.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		csrftoken.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
