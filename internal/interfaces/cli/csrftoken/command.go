package csrftoken

import (
	"fmt"

	"github.com/spf13/cobra"

	"shieldgate/internal/domain/security"
)

func NewCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "csrf-token",
		Short: "Generate CSRF tokens",
		Long:  `Print freshly generated double-submit CSRF tokens, one per line.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}
			for i := 0; i < count; i++ {
				token, err := security.GenerateCSRFToken()
				if err != nil {
					return fmt.Errorf("failed to generate token: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of tokens to print")

	return cmd
}
