package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minigate/contracts/relay"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/viper"
)

const envPrefix = "SCORINGCTL"

// Configuration keys.
const (
	cfgRPCEndpoint     = "rpc_endpoint"
	cfgScoringContract = "scoring_contract"
	cfgGateContract    = "gate_contract"
	cfgWallet          = "wallet"
	cfgAccount         = "account"
	cfgPassword        = "password"
	cfgTimeout         = "timeout"
)

type config struct {
	rpcEndpoint string
	timeout     time.Duration

	scoring util.Uint160
	gate    util.Uint160

	wallet   string
	account  string
	password string
}

// loadConfig reads optional YAML file and SCORINGCTL_* environment variables.
// Environment has priority over the file. Contract script hashes must be
// quoted in the file.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgRPCEndpoint, "http://localhost:30333")
	v.SetDefault(cfgTimeout, 30*time.Second)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}
	return v, nil
}

func parseConfig(v *viper.Viper) (*config, error) {
	cfg := &config{
		rpcEndpoint: v.GetString(cfgRPCEndpoint),
		timeout:     v.GetDuration(cfgTimeout),
		wallet:      v.GetString(cfgWallet),
		account:     v.GetString(cfgAccount),
		password:    v.GetString(cfgPassword),
	}
	if cfg.rpcEndpoint == "" {
		return nil, errors.New("missing Neo RPC endpoint")
	}
	if cfg.timeout <= 0 {
		return nil, fmt.Errorf("non-positive timeout %s", cfg.timeout)
	}

	var err error
	if cfg.scoring, err = parseContract(v, cfgScoringContract); err != nil {
		return nil, err
	}
	if cfg.gate, err = parseContract(v, cfgGateContract); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseContract decodes optional contract address. YAML turns unquoted
// hex-looking hashes into numbers, so only string values are accepted.
func parseContract(v *viper.Viper, key string) (util.Uint160, error) {
	raw := v.Get(key)
	if raw == nil {
		return util.Uint160{}, nil
	}
	s, ok := raw.(string)
	if !ok {
		return util.Uint160{}, fmt.Errorf("invalid %s: must be a string (quote script hashes in YAML), got %T", key, raw)
	}
	if s == "" {
		return util.Uint160{}, nil
	}
	h, err := relay.ParseAccount(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return h, nil
}

func (c *config) scoringContract() (util.Uint160, error) {
	if c.scoring.Equals(util.Uint160{}) {
		return util.Uint160{}, fmt.Errorf("missing %s", cfgScoringContract)
	}
	return c.scoring, nil
}

func (c *config) gateContract() (util.Uint160, error) {
	if c.gate.Equals(util.Uint160{}) {
		return util.Uint160{}, fmt.Errorf("missing %s", cfgGateContract)
	}
	return c.gate, nil
}
