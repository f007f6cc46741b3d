package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Node    NodeConfig    `yaml:"node"`
	Wallets WalletsConfig `yaml:"wallets"`
	Payment PaymentConfig `yaml:"payment"`
	Mining  MiningConfig  `yaml:"mining"`
	Pebble  PebbleConfig  `yaml:"pebble"`
	Output  OutputConfig  `yaml:"output"`
}

// NodeConfig represents the connection parameters for the Bitcoin node
type NodeConfig struct {
	Host       string `yaml:"host"`
	User       string `yaml:"user"`
	Pass       string `yaml:"pass"`
	Cert       string `yaml:"cert"`
	DisableTLS bool   `yaml:"disable_tls"`
	HTTPMode   bool   `yaml:"http_mode"` // Use HTTP POST instead of WebSocket (for bitcoind)
	Network    string `yaml:"network"`   // Chain params name: regtest, testnet3, mainnet
}

// WalletsConfig names the two custodial wallets and their address labels
type WalletsConfig struct {
	Miner        string `yaml:"miner"`
	Trader       string `yaml:"trader"`
	RewardLabel  string `yaml:"reward_label"`
	ReceiveLabel string `yaml:"receive_label"`
}

// PaymentConfig represents the value transfer to issue
type PaymentConfig struct {
	AmountBTC float64 `yaml:"amount_btc"`
	Memo      string  `yaml:"memo"`
}

// MiningConfig bounds the coinbase maturation loop
type MiningConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// PebbleConfig represents the audit history database configuration.
// An empty path disables persistence.
type PebbleConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig locates the ten-line record file
type OutputConfig struct {
	Path string `yaml:"path"`
}

// Path returns the config file location. No CLI flags exist; the location
// comes from REGTEST_AUDIT_CONFIG, defaulting to config.yaml.
func Path() string {
	if p := os.Getenv("REGTEST_AUDIT_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

// Load loads configuration from a YAML file and environment variables
func Load(path string) (*Config, error) {
	cfg := &Config{
		Node: NodeConfig{
			Host:       "127.0.0.1:18443",
			User:       "alice",
			Pass:       "password",
			DisableTLS: true,
			HTTPMode:   true,
			Network:    "regtest",
		},
		Wallets: WalletsConfig{
			Miner:        "Miner",
			Trader:       "Trader",
			RewardLabel:  "Mining Reward",
			ReceiveLabel: "Received",
		},
		Payment: PaymentConfig{
			AmountBTC: 20.0,
			Memo:      "Payment to Trader",
		},
		Mining: MiningConfig{
			MaxAttempts: 150,
		},
		Pebble: PebbleConfig{
			Path: "./data/audit",
		},
		Output: OutputConfig{
			Path: "out.txt",
		},
	}

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	cfg.loadEnv()

	return cfg, nil
}

func (c *Config) loadEnv() {
	// Node config
	if host := os.Getenv("NODE_HOST"); host != "" {
		c.Node.Host = host
	}
	if user := os.Getenv("NODE_USER"); user != "" {
		c.Node.User = user
	}
	if pass := os.Getenv("NODE_PASS"); pass != "" {
		c.Node.Pass = pass
	}
	if cert := os.Getenv("NODE_CERT"); cert != "" {
		c.Node.Cert = cert
	}
	if disableTLS := os.Getenv("NODE_DISABLE_TLS"); disableTLS != "" {
		c.Node.DisableTLS = disableTLS == "true" || disableTLS == "1"
	}
	if httpMode := os.Getenv("NODE_HTTP_MODE"); httpMode != "" {
		c.Node.HTTPMode = httpMode == "true" || httpMode == "1"
	}
	if network := os.Getenv("NODE_NETWORK"); network != "" {
		c.Node.Network = network
	}

	// Wallet config
	if miner := os.Getenv("WALLET_MINER"); miner != "" {
		c.Wallets.Miner = miner
	}
	if trader := os.Getenv("WALLET_TRADER"); trader != "" {
		c.Wallets.Trader = trader
	}

	// Payment config
	if amount := os.Getenv("PAYMENT_AMOUNT_BTC"); amount != "" {
		if a, err := strconv.ParseFloat(amount, 64); err == nil {
			c.Payment.AmountBTC = a
		}
	}
	if memo := os.Getenv("PAYMENT_MEMO"); memo != "" {
		c.Payment.Memo = memo
	}

	// Mining config
	if attempts := os.Getenv("MINING_MAX_ATTEMPTS"); attempts != "" {
		if a, err := strconv.Atoi(attempts); err == nil {
			c.Mining.MaxAttempts = a
		}
	}

	// Pebble config
	if path := os.Getenv("PEBBLE_PATH"); path != "" {
		c.Pebble.Path = path
	}

	// Output config
	if path := os.Getenv("OUTPUT_PATH"); path != "" {
		c.Output.Path = path
	}
}
