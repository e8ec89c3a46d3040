package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/harbourline/steward/bridge"
	"github.com/harbourline/steward/cli/tui"
	"github.com/harbourline/steward/iox"
	"github.com/harbourline/steward/poll"
	"github.com/harbourline/steward/state"
	"github.com/harbourline/steward/types"
)

// dashboardLogLimit is how many log entries the dashboard refreshes.
const dashboardLogLimit = 50

// DashboardCommand returns the live dashboard command.
func DashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Live server dashboard (status, metrics, clients, logs)",
		Flags: append(CommonFlags(),
			&cli.BoolFlag{
				Name:  "static",
				Usage: "Render one snapshot and exit (no TUI)",
			},
		),
		Action: dashboardAction,
	}
}

func dashboardAction(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	targets := dashboardTargets(env)

	if c.Bool("static") {
		model := tui.NewModel()
		for _, t := range targets {
			next, _ := model.Update(tui.DataMsg{Key: t.Key, Result: t.Fetch(ctx)})
			model = next.(tui.Model)
		}
		fmt.Println(tui.RenderStatic(model))
		return nil
	}

	store := state.NewStore(env.logger)
	program := tui.NewProgram(tui.NewModel())

	// Store subscriptions feed refreshed results into the TUI event loop.
	for _, t := range targets {
		key := t.Key
		unsub := store.Subscribe(key, func(value, _ any) {
			if res, ok := value.(bridge.Result); ok {
				program.Send(tui.DataMsg{Key: key, Result: res})
			}
		})
		defer unsub()
	}

	poller := poll.New(store, env.logger, targets...)
	poller.Start(ctx)
	defer poller.Stop()

	_, err = program.Run()
	return err
}

func dashboardTargets(env *appEnv) []poll.Target {
	refresh := env.cfg.Refresh
	return []poll.Target{
		{
			Key:      tui.KeyServerStatus,
			Interval: refresh.Status.Duration,
			Fetch:    env.bridge.ServerStatus,
		},
		{
			Key:      tui.KeyServerMetrics,
			Interval: refresh.Metrics.Duration,
			Fetch:    env.bridge.ServerMetrics,
		},
		{
			Key:      tui.KeyStorageInfo,
			Interval: refresh.Status.Duration,
			Fetch:    env.bridge.StorageInfo,
		},
		{
			Key:      tui.KeyClients,
			Interval: refresh.Clients.Duration,
			Fetch:    env.bridge.ListClients,
		},
		{
			Key:      tui.KeyLogs,
			Interval: refresh.Logs.Duration,
			Fetch: func(ctx context.Context) bridge.Result {
				return env.bridge.GetLogs(ctx, types.LogLevelInfo, dashboardLogLimit)
			},
		},
	}
}
