package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// authResponse mirrors the API's auth payload
type authResponse struct {
	User struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
	Token string `json:"token"`
}

func newRegisterCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a new account and store its token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp authResponse
			err := client.Do(http.MethodPost, "/api/register", map[string]string{
				"name":     args[0],
				"password": password,
			}, &resp)
			if err != nil {
				return err
			}

			if err := cfg.SaveToken(resp.Token); err != nil {
				errorf("warning: could not save token: %v", err)
			}

			output(resp, func() {
				fmt.Printf("registered as %s (id %d)\n", resp.User.Name, resp.User.ID)
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <name>",
		Short: "Log in and store the issued token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp authResponse
			err := client.Do(http.MethodPost, "/api/login", map[string]string{
				"name":     args[0],
				"password": password,
			}, &resp)
			if err != nil {
				return err
			}

			if err := cfg.SaveToken(resp.Token); err != nil {
				errorf("warning: could not save token: %v", err)
			}

			output(resp, func() {
				fmt.Printf("logged in as %s (id %d)\n", resp.User.Name, resp.User.ID)
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
