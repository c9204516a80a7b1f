package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Status string `json:"status"`
			}
			if err := client.Do(http.MethodGet, "/api/health", nil, &resp); err != nil {
				return err
			}

			output(resp, func() {
				fmt.Println(resp.Status)
			})
			return nil
		},
	}
}
