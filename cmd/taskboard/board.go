package main

import (
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/client"
	"github.com/sandeepkv93/taskboard/internal/scheduler"
	"github.com/sandeepkv93/taskboard/internal/service"
	"github.com/sandeepkv93/taskboard/internal/storage"
	"github.com/sandeepkv93/taskboard/internal/update"
	"github.com/spf13/cobra"
)

func boardCmd(a *app) *cobra.Command {
	var (
		local  bool
		apiURL string
	)
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the terminal Kanban board",
		Long: `Open the terminal Kanban board.

By default the board talks to a running "taskboard serve" at board.api_url.
With --local it opens the configured store directly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var svc service.Service
			if local {
				store, err := storage.Open(ctx, a.storageConfig())
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				defer store.Close()
				svc = service.New(store)
			} else {
				if apiURL == "" {
					apiURL = a.cfg.Board.APIURL
				}
				svc = client.New(apiURL, client.WithHTTPClient(&http.Client{Timeout: a.cfg.Board.RequestTimeout}))
			}

			opts := []update.Option{
				update.WithLogger(a.logger),
				update.WithRuntime(update.RuntimeConfig{
					RefreshInterval: a.cfg.Board.RefreshInterval,
					RequestTimeout:  a.cfg.Board.RequestTimeout,
					PageSize:        a.cfg.Board.PageSize,
					DesktopAlerts:   a.cfg.Board.DesktopAlerts,
				}),
			}
			if a.cfg.Board.DesktopAlerts {
				opts = append(opts, update.WithNotifier(update.DesktopNotifier{}))
			}
			if a.cfg.Board.DueAlerts {
				alerts := scheduler.NewEngine(a.cfg.Board.AlertBuffer)
				alerts.Start()
				defer func() {
					alerts.Stop()
					if n := alerts.Dropped(); n > 0 {
						a.logger.Warnf("board: %d due alert(s) dropped", n)
					}
				}()
				opts = append(opts, update.WithScheduler(alerts))
			}

			a.logger.Infof("board: starting (local=%t)", local)
			program := tea.NewProgram(update.NewModel(svc, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("board failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "use the configured store instead of the REST API")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "REST API base URL (overrides board.api_url)")
	return cmd
}
