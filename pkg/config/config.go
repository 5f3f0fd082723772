// Package config loads the kernel configuration file.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the kernel configuration.
type Config struct {
	Kernel        KernelConfig        `toml:"kernel"`
	Display       DisplayConfig       `toml:"display"`
	Notifications NotificationsConfig `toml:"notifications"`
	Link          LinkConfig          `toml:"link"`
}

// KernelConfig sizes the kernel resources.
type KernelConfig struct {
	RAMSize     int      `toml:"ram_size"`
	BufferSize  int      `toml:"buffer_size"`
	QueueSize   int      `toml:"queue_size"`
	Tick        Duration `toml:"tick"`
	AutoExecute bool     `toml:"auto_execute"`
	ChunkSize   int      `toml:"chunk_size"`
}

// DisplayConfig is the framebuffer geometry.
type DisplayConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// NotificationsConfig sizes the notification pool.
type NotificationsConfig struct {
	PoolSize int `toml:"pool_size"`
}

// LinkConfig enables the companion links, an empty value disables a link.
type LinkConfig struct {
	// Serial is a device path, "-" for stdin.
	Serial string `toml:"serial"`
	// MQTT is the broker URL, e.g. mqtt://host:port/topic-prefix
	MQTT string `toml:"mqtt"`
	// WebSocket is the listen address.
	WebSocket string `toml:"websocket"`
	// ID identifies the watch, the machine ID when empty.
	ID string `toml:"id"`
	// Keys is the joystick index providing the touch keys, "auto" to
	// detect one.
	Keys string `toml:"keys"`
}

// KeysDevice returns the joystick index of Keys, -1 for "auto".
func (c LinkConfig) KeysDevice() (int, error) {
	if c.Keys == "auto" {
		return -1, nil
	}
	index, err := strconv.Atoi(c.Keys)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("link.keys must be auto or a joystick index: %q", c.Keys)
	}
	return index, nil
}

// Duration is a time.Duration written as a string, e.g. "100ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Kernel: KernelConfig{
			RAMSize:     16384,
			BufferSize:  256,
			QueueSize:   512,
			Tick:        Duration{100 * time.Millisecond},
			AutoExecute: true,
			ChunkSize:   64,
		},
		Display: DisplayConfig{
			Width:  128,
			Height: 128,
		},
		Notifications: NotificationsConfig{
			PoolSize: 8,
		},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Decode parses a TOML document over the defaults.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	k := c.Kernel
	switch {
	case k.RAMSize <= 0:
		return errors.New("kernel.ram_size must be positive")
	case k.BufferSize <= 0:
		return errors.New("kernel.buffer_size must be positive")
	case k.QueueSize <= 0:
		return errors.New("kernel.queue_size must be positive")
	case k.ChunkSize <= 0 || k.ChunkSize > k.QueueSize:
		return fmt.Errorf("kernel.chunk_size must be in (0, %d]", k.QueueSize)
	case k.Tick.Duration <= 0:
		return errors.New("kernel.tick must be positive")
	}
	// pixel coordinates are 8 bit
	if d := c.Display; d.Width <= 0 || d.Width > 256 || d.Height <= 0 || d.Height > 256 {
		return fmt.Errorf("display %dx%d out of range", d.Width, d.Height)
	}
	if c.Notifications.PoolSize <= 0 {
		return errors.New("notifications.pool_size must be positive")
	}
	if c.Link.Keys != "" {
		if _, err := c.Link.KeysDevice(); err != nil {
			return err
		}
	}
	return nil
}
