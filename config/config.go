package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rookgm/deliverystore/internal/models"
)

const (
	defaultServerAddress     = ":8080"
	defaultStoreURL          = ""
	defaultStoreKey          = ""
	defaultChainRPCURL       = "http://127.0.0.1:8545"
	defaultContractAddress   = ""
	defaultWalletKey         = ""
	defaultChannelValue      = "0.25"
	defaultOrderIDPolicy     = "first"
	defaultReconcileInterval = 30 * time.Second
	defaultLogLevel          = "debug"
)

var (
	ErrMissingContract = errors.New("contract address is not set")
	ErrMissingWallet   = errors.New("wallet key is not set")
)

type Config struct {
	ServerAddr        string
	StoreURL          string
	StoreKey          string
	ChainRPCURL       string
	ContractAddress   string
	WalletKey         string
	ChannelValue      string
	OrderIDPolicy     string
	ReconcileInterval time.Duration
	LogLevel          string
}

var (
	once      sync.Once
	singleton *Config
	parseErr  error
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		singleton, parseErr = parse(flag.CommandLine, os.Args[1:], os.Getenv)
	})

	return singleton, parseErr
}

func parse(fs *flag.FlagSet, args []string, getenv func(string) string) (*Config, error) {
	cfg := Config{}

	// initialize flags
	fs.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "storefront server address")
	fs.StringVar(&cfg.StoreURL, "d", defaultStoreURL, "order store URL")
	fs.StringVar(&cfg.StoreKey, "k", defaultStoreKey, "order store key")
	fs.StringVar(&cfg.ChainRPCURL, "r", defaultChainRPCURL, "chain RPC URL")
	fs.StringVar(&cfg.ContractAddress, "c", defaultContractAddress, "DeliveryStore contract address")
	fs.StringVar(&cfg.WalletKey, "w", defaultWalletKey, "wallet private key, hex")
	fs.StringVar(&cfg.ChannelValue, "v", defaultChannelValue, "channel deposit in ether")
	fs.StringVar(&cfg.OrderIDPolicy, "p", defaultOrderIDPolicy, "order id policy: first or latest")
	fs.DurationVar(&cfg.ReconcileInterval, "i", defaultReconcileInterval, "reconcile interval, 0 disables")
	fs.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// if environment variable is set, then using it
	if runAddrEnv := getenv("RUN_ADDRESS"); runAddrEnv != "" {
		cfg.ServerAddr = runAddrEnv
	}
	if storeURLEnv := getenv("STORE_URL"); storeURLEnv != "" {
		cfg.StoreURL = storeURLEnv
	}
	if storeKeyEnv := getenv("STORE_KEY"); storeKeyEnv != "" {
		cfg.StoreKey = storeKeyEnv
	}
	if rpcURLEnv := getenv("CHAIN_RPC_URL"); rpcURLEnv != "" {
		cfg.ChainRPCURL = rpcURLEnv
	}
	if contractEnv := getenv("CONTRACT_ADDRESS"); contractEnv != "" {
		cfg.ContractAddress = contractEnv
	}
	if walletKeyEnv := getenv("WALLET_KEY"); walletKeyEnv != "" {
		cfg.WalletKey = walletKeyEnv
	}
	if channelValueEnv := getenv("CHANNEL_VALUE"); channelValueEnv != "" {
		cfg.ChannelValue = channelValueEnv
	}
	if policyEnv := getenv("ORDER_ID_POLICY"); policyEnv != "" {
		cfg.OrderIDPolicy = policyEnv
	}
	if intervalEnv := getenv("RECONCILE_INTERVAL"); intervalEnv != "" {
		d, err := time.ParseDuration(intervalEnv)
		if err != nil {
			return nil, fmt.Errorf("RECONCILE_INTERVAL: %w", err)
		}
		cfg.ReconcileInterval = d
	}
	if logLevelEnv := getenv("LOG_LEVEL"); logLevelEnv != "" {
		cfg.LogLevel = logLevelEnv
	}

	return &cfg, nil
}

// Validate checks that required settings are present
func (c *Config) Validate() error {
	if c.StoreURL == "" || c.StoreKey == "" {
		return models.ErrMissingStoreConfig
	}
	if c.ContractAddress == "" {
		return ErrMissingContract
	}
	if c.WalletKey == "" {
		return ErrMissingWallet
	}
	return nil
}
