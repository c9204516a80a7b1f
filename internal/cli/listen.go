package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// envelope mirrors the push protocol's tagged wire format
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func newListenCmd() *cobra.Command {
	var sendContent string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Connect to the room and print live events",
		Long: `listen opens a push connection, performs the handshake with the stored
token, and prints every room event until interrupted. With --send it also
sends one message over the push path after the handshake is acknowledged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("no token; run login first")
			}

			wsURL, err := websocketURL(cfg.ServerURL)
			if err != nil {
				return err
			}

			conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer func() { _ = conn.Close() }()

			// Handshake binds this connection to our identity
			if err := writeEvent(conn, "handshake", map[string]string{"token": cfg.Token}); err != nil {
				return err
			}

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

			events := make(chan envelope)
			errs := make(chan error, 1)
			go func() {
				for {
					var env envelope
					if err := conn.ReadJSON(&env); err != nil {
						errs <- err
						return
					}
					events <- env
				}
			}()

			for {
				select {
				case env := <-events:
					printEvent(env)
					if env.Event == "handshake-ack" && sendContent != "" {
						if err := writeEvent(conn, "message", map[string]string{"content": sendContent}); err != nil {
							return err
						}
						sendContent = ""
					}

				case err := <-errs:
					if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
						return nil
					}
					return fmt.Errorf("connection lost: %w", err)

				case <-interrupt:
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
						time.Now().Add(time.Second))
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&sendContent, "send", "", "Send one message after the handshake")

	return cmd
}

// websocketURL derives the /ws endpoint from the HTTP server URL
func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

func writeEvent(conn *websocket.Conn, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(envelope{Event: event, Data: data})
}

func printEvent(env envelope) {
	if cfg.Output == "json" {
		printJSON(env)
		return
	}
	fmt.Printf("%s: %s\n", env.Event, string(env.Data))
}
