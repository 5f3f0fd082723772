// Package connector sets up companion side connections to watches.
package connector

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/mwatch.go/pkg/link/mqtt"
)

// Config provides common options to setup Connectors.
type Config struct {
	ID string

	// RegistryURL specifies where watches announce themselves.
	// e.g. mqtt://host:port/topic-prefix
	RegistryURL string
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/mwatch/",
}

func init() {
	if val := os.Getenv("MWATCH_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("MWATCH_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "watch-id", defaultConfig.ID, "Watch ID to connect.")
	flag.StringVar(&defaultConfig.RegistryURL, "watch-reg", defaultConfig.RegistryURL, "Watch Registry URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (*mqtt.Connector, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %w", err)
	}
	switch parsedURL.Scheme {
	case "mqtt", "tcp", "ssl":
		return mqtt.NewConnector(c.RegistryURL)
	default:
		return nil, fmt.Errorf("unknown registry URL scheme: %q", parsedURL.Scheme)
	}
}

// Connect directly connects to the watch.
func (c *Config) Connect() (*mqtt.Conn, error) {
	if c.ID == "" {
		return nil, errors.New("watch id must be specified")
	}
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.TODO(), c.ID)
}

// MustConnect connects to the watch and fails on error.
func (c *Config) MustConnect() *mqtt.Conn {
	conn, err := c.Connect()
	if err != nil {
		glog.Fatal(err)
	}
	return conn
}
