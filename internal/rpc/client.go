package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"

	"github.com/AHUNAM/regtest-audit/internal/config"
	"github.com/AHUNAM/regtest-audit/pkg/semver"
)

// ErrConnection indicates the node is unreachable or rejected the credentials.
var ErrConnection = errors.New("rpc: node connection failed")

// Compatible btcd JSON-RPC API versions, checked in WebSocket mode only.
// bitcoind (HTTP POST mode) does not implement the version call.
var compatibleNodeAPIs = []semver.Semver{
	semver.New(1, 0, 0),
	semver.New(2, 0, 0),
	semver.New(3, 0, 0),
	semver.New(4, 0, 0),
	semver.New(5, 0, 0),
	semver.New(6, 0, 0),
	semver.New(7, 0, 0),
	semver.New(8, 0, 0),
}

// Client is the node-level RPC client, bound to the base endpoint rather
// than a specific wallet.
type Client struct {
	client *rpcclient.Client
	cfg    *config.NodeConfig
}

// Connect dials the node and fetches blockchain info as a preflight check.
// Any failure here means the node is unreachable or the credentials are bad,
// so it is reported as ErrConnection rather than a pipeline-stage error.
func Connect(cfg *config.NodeConfig) (*Client, *btcjson.GetBlockChainInfoResult, error) {
	c, err := dial(cfg, "")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	info, err := c.GetBlockChainInfo()
	if err != nil {
		c.Shutdown()
		return nil, nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if !cfg.HTTPMode {
		if err := checkAPIVersion(c); err != nil {
			c.Shutdown()
			return nil, nil, err
		}
	}

	return &Client{client: c, cfg: cfg}, info, nil
}

// checkAPIVersion ensures a btcd node advertises a compatible JSON-RPC API.
func checkAPIVersion(c *rpcclient.Client) error {
	ver, err := c.Version()
	if err != nil {
		return fmt.Errorf("%w: querying RPC version: %v", ErrConnection, err)
	}

	api := ver["btcdjsonrpcapi"]
	nodeVer := semver.New(api.Major, api.Minor, api.Patch)
	if !semver.AnyCompatible(compatibleNodeAPIs, nodeVer) {
		return fmt.Errorf("%w: node advertises JSON-RPC API %v but one of %v is required",
			ErrConnection, nodeVer, compatibleNodeAPIs)
	}
	return nil
}

// dial builds the connection for the base endpoint or, when wallet is
// non-empty, the /wallet/<name> endpoint bitcoind scopes wallet calls to.
func dial(cfg *config.NodeConfig, wallet string) (*rpcclient.Client, error) {
	var certs []byte
	var err error

	if !cfg.DisableTLS && cfg.Cert != "" {
		certs, err = os.ReadFile(cfg.Cert)
		if err != nil {
			return nil, fmt.Errorf("failed to read certificate: %w", err)
		}
	}

	host := cfg.Host
	if wallet != "" {
		host = cfg.Host + "/wallet/" + wallet
	}

	var connCfg *rpcclient.ConnConfig
	if cfg.HTTPMode {
		// HTTP POST mode for bitcoind
		connCfg = &rpcclient.ConnConfig{
			Host:         host,
			User:         cfg.User,
			Pass:         cfg.Pass,
			HTTPPostMode: true,
			DisableTLS:   cfg.DisableTLS,
			Certificates: certs,
			Params:       cfg.Network,
		}
	} else {
		// WebSocket mode for btcd
		connCfg = &rpcclient.ConnConfig{
			Host:                 host,
			Endpoint:             "ws",
			User:                 cfg.User,
			Pass:                 cfg.Pass,
			Certificates:         certs,
			DisableTLS:           cfg.DisableTLS,
			DisableAutoReconnect: false,
			Params:               cfg.Network,
		}
	}

	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}
	return client, nil
}

// ChainParams maps a configured network name to its chain parameters.
// Unknown names fall back to regtest, the reference deployment.
func ChainParams(network string) *chaincfg.Params {
	switch network {
	case "mainnet":
		return &chaincfg.MainNetParams
	case "testnet3":
		return &chaincfg.TestNet3Params
	case "simnet":
		return &chaincfg.SimNetParams
	default:
		return &chaincfg.RegressionNetParams
	}
}

// Close closes the RPC client connection
func (c *Client) Close() {
	c.client.Shutdown()
}

// ListWallets returns the names of the wallets currently loaded by the node.
func (c *Client) ListWallets() ([]string, error) {
	res, err := c.client.RawRequest("listwallets", nil)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(res, &names); err != nil {
		return nil, fmt.Errorf("failed to decode wallet list: %w", err)
	}
	return names, nil
}

// CreateWallet asks the node to create and load a wallet with the given name.
// Node rejections come back as *btcjson.RPCError for callers to inspect.
func (c *Client) CreateWallet(name string) error {
	_, err := c.client.CreateWallet(name)
	return err
}

// LoadWallet loads a wallet that exists on the node's disk but is not
// currently loaded.
func (c *Client) LoadWallet(name string) error {
	arg, err := json.Marshal(name)
	if err != nil {
		return err
	}
	_, err = c.client.RawRequest("loadwallet", []json.RawMessage{arg})
	return err
}

// Wallet opens a wallet-scoped client for the named wallet.
func (c *Client) Wallet(name string) (*WalletClient, error) {
	client, err := dial(c.cfg, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet endpoint for %q: %w", name, err)
	}
	return &WalletClient{client: client, name: name}, nil
}
