// Command uevloopsim hosts an app.App on a wall-clock-driven tick loop, so
// the cooperative, statically-allocated core can be exercised and watched
// from outside a microcontroller build: a background ticker advances the
// scheduler's timer and drains the event loop at a fixed cadence, while an
// optional Prometheus endpoint exposes queue depths and pool occupancy.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/anghd/uevloop/app"
	"github.com/anghd/uevloop/closure"
	"github.com/anghd/uevloop/config"
	"github.com/anghd/uevloop/internal/metrics"
)

var configFile string

func main() {
	root := buildRootCommand()
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func buildRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "uevloopsim",
		Short:   "Run and inspect a uevloop application on a wall-clock tick",
		Version: "0.1.0",
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file (defaults baked in if omitted)")
	root.AddCommand(buildRunCommand())
	root.AddCommand(buildStatusCommand())
	return root
}

func buildStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the resolved configuration and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			fmt.Printf("event pool:    1<<%d\n", cfg.Pools.EventPoolSizeLog2)
			fmt.Printf("node pool:     1<<%d\n", cfg.Pools.NodePoolSizeLog2)
			fmt.Printf("event queue:   1<<%d\n", cfg.Queues.EventQueueSizeLog2)
			fmt.Printf("schedule queue: 1<<%d\n", cfg.Queues.ScheduleQueueSizeLog2)
			fmt.Printf("signal width:  %d (advisory max listeners %d)\n", cfg.Signal.Width, cfg.Signal.MaxListeners)
			fmt.Printf("tick:          every %dms, delta %d\n", cfg.Tick.IntervalMillis, cfg.Tick.DeltaPerTick)
			fmt.Printf("metrics:       enabled=%v addr=%s\n", cfg.Metrics.Enabled, cfg.Metrics.Addr)
			return nil
		},
	}
}

func buildRunCommand() *cobra.Command {
	var emitEvery uint32
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the application, ticking it on a wall-clock timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulator(cmd.Context(), configFile, emitEvery)
		},
	}
	cmd.Flags().Uint32Var(&emitEvery, "emit-every-ticks", 100, "emit signal 0 every N ticks, as a liveness demonstration")
	return cmd
}

func runSimulator(ctx context.Context, configFile string, emitEvery uint32) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	appCfg, err := config.Resolve(
		config.WithEventPoolSizeLog2(cfg.Pools.EventPoolSizeLog2),
		config.WithNodePoolSizeLog2(cfg.Pools.NodePoolSizeLog2),
		config.WithEventQueueSizeLog2(cfg.Queues.EventQueueSizeLog2),
		config.WithScheduleQueueSizeLog2(cfg.Queues.ScheduleQueueSizeLog2),
		config.WithSignalMaxListeners(cfg.Signal.MaxListeners),
	)
	if err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}

	a := app.New(appCfg, cfg.Signal.Width)

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		collector = metrics.NewCollector(reg, a)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("uevloopsim: metrics server stopped: %v", err)
			}
		}()
		defer srv.Close()
		log.Printf("uevloopsim: metrics listening on %s/metrics", cfg.Metrics.Addr)
	}

	a.Relay.Listen(0, closure.New(func(c *closure.Closure) any {
		log.Printf("uevloopsim: heartbeat signal fired (tick=%v)", c.Params)
		return nil
	}, nil, nil))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.Tick.IntervalMillis) * time.Millisecond)
	defer ticker.Stop()

	var tickCount uint32
	for {
		select {
		case <-sigCh:
			log.Printf("uevloopsim: shutting down")
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.UpdateTimer(cfg.Tick.DeltaPerTick)
			a.Tick()
			tickCount++
			if emitEvery > 0 && tickCount%emitEvery == 0 {
				queued := a.Relay.Emit(0, tickCount)
				if collector != nil {
					for i := 0; i < queued; i++ {
						collector.RecordEnqueue()
					}
				}
			}
		}
	}
}
