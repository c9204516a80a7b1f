package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// messageResponse mirrors the API's message payload
type messageResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Message history and mutations",
	}

	cmd.AddCommand(newMessagesListCmd())
	cmd.AddCommand(newMessagesSendCmd())
	cmd.AddCommand(newMessagesEditCmd())
	cmd.AddCommand(newMessagesDeleteCmd())

	return cmd
}

func newMessagesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List room history (oldest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var msgs []messageResponse
			if err := client.Do(http.MethodGet, "/api/messages", nil, &msgs); err != nil {
				return err
			}

			output(msgs, func() {
				for _, m := range msgs {
					fmt.Printf("[%d] %s %s: %s\n",
						m.ID, m.CreatedAt.Format(time.RFC3339), m.Username, m.Content)
				}
			})
			return nil
		},
	}
}

func newMessagesSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <content>",
		Short: "Send a message to the room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var msg messageResponse
			err := client.Do(http.MethodPost, "/api/messages", map[string]string{
				"content": args[0],
			}, &msg)
			if err != nil {
				return err
			}

			output(msg, func() {
				fmt.Printf("sent message %d\n", msg.ID)
			})
			return nil
		},
	}
}

func newMessagesEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <content>",
		Short: "Edit one of your messages",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var msg messageResponse
			err := client.Do(http.MethodPut, "/api/messages/"+args[0], map[string]string{
				"content": args[1],
			}, &msg)
			if err != nil {
				return err
			}

			output(msg, func() {
				fmt.Printf("updated message %d\n", msg.ID)
			})
			return nil
		},
	}
}

func newMessagesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				ID int64 `json:"id"`
			}
			if err := client.Do(http.MethodDelete, "/api/messages/"+args[0], nil, &resp); err != nil {
				return err
			}

			output(resp, func() {
				fmt.Printf("deleted message %d\n", resp.ID)
			})
			return nil
		},
	}
}
