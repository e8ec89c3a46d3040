package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/harbourline/steward/bridge"
	"github.com/harbourline/steward/cli/render"
	"github.com/harbourline/steward/iox"
	"github.com/harbourline/steward/metrics"
	"github.com/harbourline/steward/types"
)

// StatusResponse aggregates the dashboard heartbeat reads into one
// status payload.
type StatusResponse struct {
	Mode    bridge.Mode          `json:"mode"`
	Status  *types.ServerStatus  `json:"status"`
	Metrics *types.ServerMetrics `json:"metrics"`
	Storage *types.StorageInfo   `json:"storage"`
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show server status, resource metrics, and storage",
		Flags: append(CommonFlags(),
			&cli.BoolFlag{
				Name:  "counters",
				Usage: "Include per-operation dispatch counters",
			},
		),
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	env, err := setup(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	ctx := c.Context
	retry := bridge.DefaultRetryConfig()

	statusRes := bridge.WithRetry(ctx, retry, env.bridge.ServerStatus)
	if !statusRes.Success {
		return r.RenderResult(statusRes)
	}

	metricsRes := bridge.WithRetry(ctx, retry, env.bridge.ServerMetrics)
	storageRes := bridge.WithRetry(ctx, retry, env.bridge.StorageInfo)

	resp := StatusResponse{Mode: statusRes.Mode}
	if v, ok := statusRes.Data.(*types.ServerStatus); ok {
		resp.Status = v
	}
	if v, ok := metricsRes.Data.(*types.ServerMetrics); ok {
		resp.Metrics = v
	}
	if v, ok := storageRes.Data.(*types.StorageInfo); ok {
		resp.Storage = v
	}

	if c.Bool("counters") {
		return r.Render(struct {
			StatusResponse
			Counters metrics.Snapshot `json:"counters"`
		}{resp, env.collector.Snapshot()})
	}
	return r.Render(resp)
}
