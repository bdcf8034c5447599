// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

const (
	testGateway    = "0x00000000000000000000000000000000000000a1"
	testGasService = "0x00000000000000000000000000000000000000b2"
	testTrusted    = "0x00000000000000000000000000000000000000c3"
)

func buildTestConfig(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := BuildFlagSet()
	require.NoError(t, fs.Parse(args))
	v, err := BuildViper(fs)
	require.NoError(t, err)
	return NewConfig(v)
}

func TestConfigFromFlags(t *testing.T) {
	require := require.New(t)

	cfg, err := buildTestConfig(t,
		"--"+GatewayAddressKey, testGateway,
		"--"+GasServiceAddressKey, testGasService,
		"--"+TrustedGatewaysKey, testTrusted,
		"--"+LogLevelKey, "debug",
	)
	require.NoError(err)

	require.Equal(slog.LevelDebug, cfg.GetLogLevel())
	require.Equal(defaultAPIPort, cfg.APIPort)
	require.Equal(defaultMetricsPort, cfg.MetricsPort)
	require.Equal(StorageMemory, cfg.StorageLocation)
	require.Equal(ModeLocal, cfg.Mode)
	require.Equal(common.HexToAddress(testGateway), cfg.GetGatewayAddress())
	require.Equal(common.HexToAddress(testGasService), cfg.GetGasServiceAddress())
	require.Equal([]common.Address{common.HexToAddress(testTrusted)}, cfg.GetTrustedGateways())
	require.Equal(300*time.Second, cfg.GetInitialConnectionTimeout())
	require.Equal(30*time.Second, cfg.GetTxInclusionTimeout())
}

func TestConfigFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.json")
	contents := `{
		"api-port": 9000,
		"metrics-port": 9001,
		"gateway-address": "` + testGateway + `",
		"gas-service-address": "` + testGasService + `",
		"storage-location": "redis",
		"redis-url": "redis://localhost:6379/0"
	}`
	require.NoError(os.WriteFile(path, []byte(contents), 0o600))

	// Flags take precedence over the file
	cfg, err := buildTestConfig(t, "--"+ConfigFileKey, path, "--"+MetricsPortKey, "9002")
	require.NoError(err)
	require.Equal(uint16(9000), cfg.APIPort)
	require.Equal(uint16(9002), cfg.MetricsPort)
	require.Equal(StorageRedis, cfg.StorageLocation)
	require.Equal("redis://localhost:6379/0", cfg.RedisURL)
	require.Empty(cfg.GetTrustedGateways())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GATEWAY_ADDRESS", testGateway)
	t.Setenv("GAS_SERVICE_ADDRESS", testGasService)
	t.Setenv("API_PORT", "7000")

	cfg, err := buildTestConfig(t)
	require.NoError(t, err)
	require.Equal(t, uint16(7000), cfg.APIPort)
	require.Equal(t, common.HexToAddress(testGateway), cfg.GetGatewayAddress())
}

func TestMissingConfigFile(t *testing.T) {
	fs := BuildFlagSet()
	require.NoError(t, fs.Parse([]string{"--" + ConfigFileKey, filepath.Join(t.TempDir(), "missing.json")}))
	_, err := BuildViper(fs)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			LogLevel:          "info",
			APIPort:           8080,
			MetricsPort:       8081,
			GatewayAddress:    testGateway,
			GasServiceAddress: testGasService,
			StorageLocation:   StorageMemory,
			Mode:              ModeLocal,
		}
	}

	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
			valid:  true,
		},
		{
			name:   "bad log level",
			modify: func(c *Config) { c.LogLevel = "loud" },
		},
		{
			name:   "same ports",
			modify: func(c *Config) { c.MetricsPort = c.APIPort },
		},
		{
			name:   "bad gateway",
			modify: func(c *Config) { c.GatewayAddress = "0x1234" },
		},
		{
			name:   "missing gas service",
			modify: func(c *Config) { c.GasServiceAddress = "" },
		},
		{
			name:   "bad trusted gateway",
			modify: func(c *Config) { c.TrustedGateways = []string{testTrusted, "gateway"} },
		},
		{
			name:   "redis without url",
			modify: func(c *Config) { c.StorageLocation = StorageRedis },
		},
		{
			name:   "unknown storage",
			modify: func(c *Config) { c.StorageLocation = "disk" },
		},
		{
			name: "evm without rpc",
			modify: func(c *Config) {
				c.Mode = ModeEVM
				c.AccountPrivateKey = "0x01"
			},
		},
		{
			name: "evm without key",
			modify: func(c *Config) {
				c.Mode = ModeEVM
				c.RPCURL = "http://localhost:8545"
			},
		},
		{
			name: "evm",
			modify: func(c *Config) {
				c.Mode = ModeEVM
				c.RPCURL = "http://localhost:8545"
				c.AccountPrivateKey = "0x01"
			},
			valid: true,
		},
		{
			name:   "unknown mode",
			modify: func(c *Config) { c.Mode = "cosmos" },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid()
			test.modify(&cfg)
			err := cfg.Validate()
			if test.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
