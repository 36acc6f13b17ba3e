package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config maps the simulator's YAML config file. The pool, queue and
// max-listener fields mirror config.Options; the signal width goes to
// app.New, and the tick and metrics settings are the simulator's own.
type Config struct {
	Pools struct {
		EventPoolSizeLog2  uint `yaml:"event_pool_size_log2"`
		NodePoolSizeLog2   uint `yaml:"node_pool_size_log2"`
	} `yaml:"pools"`
	Queues struct {
		EventQueueSizeLog2    uint `yaml:"event_queue_size_log2"`
		ScheduleQueueSizeLog2 uint `yaml:"schedule_queue_size_log2"`
	} `yaml:"queues"`
	Signal struct {
		Width        uint16 `yaml:"width"`
		MaxListeners uint16 `yaml:"max_listeners"`
	} `yaml:"signal"`
	Tick struct {
		IntervalMillis  uint32 `yaml:"interval_millis"`
		DeltaPerTick    uint32 `yaml:"delta_per_tick"`
	} `yaml:"tick"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`
}

func defaultConfig() *Config {
	c := &Config{}
	c.Pools.EventPoolSizeLog2 = 7
	c.Pools.NodePoolSizeLog2 = 7
	c.Queues.EventQueueSizeLog2 = 5
	c.Queues.ScheduleQueueSizeLog2 = 4
	c.Signal.Width = 8
	c.Signal.MaxListeners = 5
	c.Tick.IntervalMillis = 10
	c.Tick.DeltaPerTick = 10
	c.Metrics.Enabled = true
	c.Metrics.Addr = ":9090"
	return c
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
