package config

import (
	"flag"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/deliverystore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			want: Config{
				ServerAddr:        ":8080",
				ChainRPCURL:       "http://127.0.0.1:8545",
				ChannelValue:      "0.25",
				OrderIDPolicy:     "first",
				ReconcileInterval: 30 * time.Second,
				LogLevel:          "debug",
			},
		},
		{
			name: "flags",
			args: []string{"-a", ":9090", "-d", "postgres://db/store", "-k", "secret", "-c", "0x01", "-w", "ab", "-i", "0s", "-p", "latest"},
			want: Config{
				ServerAddr:      ":9090",
				StoreURL:        "postgres://db/store",
				StoreKey:        "secret",
				ChainRPCURL:     "http://127.0.0.1:8545",
				ContractAddress: "0x01",
				WalletKey:       "ab",
				ChannelValue:    "0.25",
				OrderIDPolicy:   "latest",
				LogLevel:        "debug",
			},
		},
		{
			name: "env_overrides_flags",
			args: []string{"-a", ":9090", "-l", "info"},
			env: map[string]string{
				"RUN_ADDRESS":        ":7070",
				"STORE_URL":          "postgres://env/store",
				"STORE_KEY":          "env-secret",
				"CHAIN_RPC_URL":      "http://node:8545",
				"CONTRACT_ADDRESS":   "0x02",
				"WALLET_KEY":         "cd",
				"CHANNEL_VALUE":      "1",
				"ORDER_ID_POLICY":    "latest",
				"RECONCILE_INTERVAL": "1m",
				"LOG_LEVEL":          "warn",
			},
			want: Config{
				ServerAddr:        ":7070",
				StoreURL:          "postgres://env/store",
				StoreKey:          "env-secret",
				ChainRPCURL:       "http://node:8545",
				ContractAddress:   "0x02",
				WalletKey:         "cd",
				ChannelValue:      "1",
				OrderIDPolicy:     "latest",
				ReconcileInterval: time.Minute,
				LogLevel:          "warn",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			got, err := parse(fs, tt.args, envOf(tt.env))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_BadInterval(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	_, err := parse(fs, nil, envOf(map[string]string{"RECONCILE_INTERVAL": "soon"}))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{StoreURL: "postgres://db", StoreKey: "k", ContractAddress: "0x01", WalletKey: "ab"}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing_store_url", mutate: func(c *Config) { c.StoreURL = "" }, wantErr: models.ErrMissingStoreConfig},
		{name: "missing_store_key", mutate: func(c *Config) { c.StoreKey = "" }, wantErr: models.ErrMissingStoreConfig},
		{name: "missing_contract", mutate: func(c *Config) { c.ContractAddress = "" }, wantErr: ErrMissingContract},
		{name: "missing_wallet", mutate: func(c *Config) { c.WalletKey = "" }, wantErr: ErrMissingWallet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
