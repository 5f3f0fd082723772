// Package watch sets up the kernel daemon from the config file, the
// environment and the command line.
package watch

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"

	"github.com/robotalks/mwatch.go/pkg/config"
	"github.com/robotalks/mwatch.go/pkg/env"
	fx "github.com/robotalks/mwatch.go/pkg/framework"
	"github.com/robotalks/mwatch.go/pkg/kernel"
	"github.com/robotalks/mwatch.go/pkg/link"
	"github.com/robotalks/mwatch.go/pkg/link/keys"
	"github.com/robotalks/mwatch.go/pkg/link/mqtt"
	"github.com/robotalks/mwatch.go/pkg/link/stream"
	"github.com/robotalks/mwatch.go/pkg/link/websocket"
)

// Config is the command line overrides of the kernel config file.
type Config struct {
	// ConfigFile is a TOML file, the built-in defaults when empty.
	ConfigFile string

	ID            string
	Serial        string
	MQTTBrokerURL string
	WebSocketAddr string
	Keys          string
	Description   string
}

var defaultConfig = Config{
	Description: "mwatch kernel",
}

func init() {
	if val := os.Getenv("MWATCH_CONFIG"); val != "" {
		defaultConfig.ConfigFile = val
	}
	if val := os.Getenv("MWATCH_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("MWATCH_ID"); val != "" {
		defaultConfig.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ConfigFile, "config", defaultConfig.ConfigFile, "Kernel config file")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Watch ID")
	flag.StringVar(&defaultConfig.Serial, "serial", defaultConfig.Serial, "Serial device, - for stdin")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.WebSocketAddr, "websocket", defaultConfig.WebSocketAddr, "WebSocket listen address")
	flag.StringVar(&defaultConfig.Keys, "keys", defaultConfig.Keys, "Joystick index for the touch keys, auto to detect")
	flag.StringVar(&defaultConfig.Description, "desc", defaultConfig.Description, "Watch description")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Load reads the config file and applies the overrides.
func (c *Config) Load() (config.Config, error) {
	cfg := config.Default()
	if c.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(c.ConfigFile); err != nil {
			return cfg, err
		}
	}
	if c.ID != "" {
		cfg.Link.ID = c.ID
	}
	if c.Serial != "" {
		cfg.Link.Serial = c.Serial
	}
	if c.MQTTBrokerURL != "" {
		cfg.Link.MQTT = c.MQTTBrokerURL
	}
	if c.WebSocketAddr != "" {
		cfg.Link.WebSocket = c.WebSocketAddr
	}
	if c.Keys != "" {
		cfg.Link.Keys = c.Keys
	}
	if cfg.Link.ID == "" {
		cfg.Link.ID = env.MachineID()
	}
	return cfg, cfg.Validate()
}

// Env is the kernel together with its links.
type Env struct {
	Config config.Config
	Kernel *kernel.Kernel
	Links  []fx.Runnable
}

// NewEnv creates the links of k from its config.
func (c *Config) NewEnv(k *kernel.Kernel) (*Env, error) {
	cfg := k.Config
	e := &Env{Config: cfg, Kernel: k}
	if cfg.Link.Serial != "" {
		r := os.Stdin
		if cfg.Link.Serial != "-" {
			f, err := os.Open(cfg.Link.Serial)
			if err != nil {
				return nil, fmt.Errorf("open serial %s: %w", cfg.Link.Serial, err)
			}
			r = f
		}
		reader := stream.New(cfg.Link.Serial, r, k)
		reader.ChunkSize = cfg.Kernel.ChunkSize
		e.Links = append(e.Links, reader)
	}
	if cfg.Link.MQTT != "" {
		meta := link.Meta{
			Description: c.Description,
			Labels: map[string]string{
				"display": fmt.Sprintf("%dx%d", cfg.Display.Width, cfg.Display.Height),
				"ram":     strconv.Itoa(cfg.Kernel.RAMSize),
			},
		}
		l, err := mqtt.NewLink(cfg.Link.MQTT, cfg.Link.ID, meta, k)
		if err != nil {
			return nil, fmt.Errorf("create MQTT link error: %w", err)
		}
		k.Observe(l)
		e.Links = append(e.Links, l)
	}
	if cfg.Link.WebSocket != "" {
		e.Links = append(e.Links, &websocket.Server{Addr: cfg.Link.WebSocket, Device: k})
	}
	if cfg.Link.Keys != "" {
		index, err := cfg.Link.KeysDevice()
		if err != nil {
			return nil, err
		}
		e.Links = append(e.Links, keys.New(index, k))
	}
	if len(e.Links) == 0 {
		return nil, fmt.Errorf("at least one link is required")
	}
	glog.Infof("watch %s with %d links", cfg.Link.ID, len(e.Links))
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv(k *kernel.Kernel) *Env {
	e, err := c.NewEnv(k)
	if err != nil {
		glog.Fatal(err)
	}
	return e
}

// AddToLoop implements fx.LoopAdder.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(e.Links...)
}
