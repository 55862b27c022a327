// Command blitzbridge is a development harness for the bridge: it wires
// a software composition panel and a console host together and runs the
// full lifecycle (attach, input, render loop, fetch) without a real UI
// toolkit or rendering engine.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/blitzbridge/internal/config"
	"github.com/bnema/blitzbridge/internal/logging"
	"github.com/bnema/blitzbridge/pkg/bridge"
	"github.com/bnema/blitzbridge/pkg/compositor"
	"github.com/bnema/blitzbridge/pkg/netfetch"
)

var (
	flagConfig   string
	flagURL      string
	flagWidth    float64
	flagHeight   float64
	flagDuration time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blitzbridge",
		Short: "Run the embedding bridge against a software panel",
		RunE:  run,
	}
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "config file (TOML or YAML)")
	rootCmd.Flags().StringVarP(&flagURL, "url", "u", "", "URL the host fetches after startup")
	rootCmd.Flags().Float64Var(&flagWidth, "width", 800, "panel width")
	rootCmd.Flags().Float64Var(&flagHeight, "height", 600, "panel height")
	rootCmd.Flags().DurationVar(&flagDuration, "duration", 2*time.Second, "how long to run the loop")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	mgr, err := config.NewManager(flagConfig)
	if err != nil {
		return err
	}
	mgr.Watch()
	cfg := mgr.Get()

	logCfg := logging.DefaultConfig()
	if level, ok := logging.ParseLevel(cfg.Logging.Level); ok {
		logCfg.Level = level
	}
	logCfg.Format = cfg.Logging.Format
	log := logging.New(logCfg)
	ctx := logging.WithContext(cmd.Context(), log)

	loop := compositor.NewLoop(cfg.Content.FrameInterval)
	panel := newDemoPanel(flagWidth, flagHeight, 1.0,
		*logging.FromContext(logging.WithComponent(ctx, "demo-panel")))

	view, err := bridge.NewView(bridge.ViewOptions{
		Factory:        newConsoleHost(*logging.FromContext(logging.WithComponent(ctx, "console-host"))),
		Dispatcher:     loop,
		Clock:          loop,
		InitialContent: cfg.Content.InitialHTML,
		Fetch: netfetch.Options{
			Client:        fetchClient(cfg),
			MaxConcurrent: cfg.Fetch.MaxConcurrent,
			MaxBodyBytes:  cfg.Fetch.MaxBodyBytes,
			UserAgent:     cfg.Fetch.UserAgent,
		},
		Logger: &log,
	})
	if err != nil {
		return err
	}

	loop.Invoke(func() {
		view.ApplyTemplate(panel)
		panel.fireLoaded()
		log.Info().Stringer("state", view.State()).Msg("bridge bound")

		// A little synthetic input to show the forwarding path.
		panel.firePointerMoved(compositor.PointerInfo{X: 10, Y: 20})
		panel.fireWheel(compositor.WheelInfo{RawDelta: 120})
		panel.resize(1024, 768)

		if flagURL != "" {
			if f := view.Fetcher(); f != nil {
				f.Fetch(1, 1, flagURL, "GET")
			}
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
		case <-time.After(flagDuration):
		}
		loop.Invoke(func() {
			log.Info().Stringer("state", view.State()).Msg("shutting down")
			view.Close()
		})
		loop.Quit()
	}()

	loop.Run()
	return nil
}

// fetchClient builds the HTTP client for the pipeline. A zero timeout
// keeps the run-to-completion default.
func fetchClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Fetch.Timeout}
}
