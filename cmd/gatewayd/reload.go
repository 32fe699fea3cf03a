package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/wireproxy/gatewayd/internal/config"
)

func newReloadCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Trigger a configuration reload on a running gatewayd instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				cfg, err := loadConfig()
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				addr = cfg.Admin.Addr
			}
			return triggerReload(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "admin server address (defaults to the configured admin.addr)")
	return cmd
}

func triggerReload(addr string) error {
	url := fmt.Sprintf("http://%s/reload", hostPort(addr))
	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("reload request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reload failed: %s: %s", resp.Status, body)
	}
	fmt.Println(string(body))
	return nil
}

// hostPort turns a listen address like ":7070" into a dialable
// "localhost:7070" for the admin CLI client.
func hostPort(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
