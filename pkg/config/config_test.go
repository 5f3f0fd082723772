package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 100*time.Millisecond, cfg.Kernel.Tick.Duration)
	require.Equal(t, 16384, cfg.Kernel.RAMSize)
	require.True(t, cfg.Kernel.AutoExecute)
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[kernel]
ram_size = 4096
tick = "50ms"
auto_execute = false

[display]
width = 64

[link]
mqtt = "mqtt://localhost:1883/mwatch/"
id = "w1"
`)
	require.NoError(t, err)
	require.Equal(t, 4096, cfg.Kernel.RAMSize)
	require.Equal(t, 256, cfg.Kernel.BufferSize)
	require.Equal(t, 50*time.Millisecond, cfg.Kernel.Tick.Duration)
	require.False(t, cfg.Kernel.AutoExecute)
	require.Equal(t, 64, cfg.Display.Width)
	require.Equal(t, 128, cfg.Display.Height)
	require.Equal(t, "mqtt://localhost:1883/mwatch/", cfg.Link.MQTT)
	require.Equal(t, "w1", cfg.Link.ID)
}

func TestDecodeInvalid(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "bad tick", doc: "[kernel]\ntick = \"soon\"\n"},
		{name: "zero ram", doc: "[kernel]\nram_size = 0\n"},
		{name: "chunk over queue", doc: "[kernel]\nqueue_size = 32\nchunk_size = 64\n"},
		{name: "wide display", doc: "[display]\nwidth = 300\n"},
		{name: "empty pool", doc: "[notifications]\npool_size = 0\n"},
		{name: "bad keys", doc: "[link]\nkeys = \"js0\"\n"},
		{name: "syntax", doc: "[kernel\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.doc)
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir, err := os.MkdirTemp("", "mwatch-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "mwatch.toml")
	require.NoError(t, os.WriteFile(path, []byte("[notifications]\npool_size = 4\n"), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Notifications.PoolSize)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestKeysDevice(t *testing.T) {
	index, err := LinkConfig{Keys: "auto"}.KeysDevice()
	require.NoError(t, err)
	require.Equal(t, -1, index)
	index, err = LinkConfig{Keys: "2"}.KeysDevice()
	require.NoError(t, err)
	require.Equal(t, 2, index)
	_, err = LinkConfig{Keys: "-3"}.KeysDevice()
	require.Error(t, err)
}
