package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	v, err := loadConfig("")
	require.NoError(t, err)

	cfg, err := parseConfig(v)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:30333", cfg.rpcEndpoint)
	require.Equal(t, 30*time.Second, cfg.timeout)

	_, err = cfg.scoringContract()
	require.Error(t, err)
	_, err = cfg.gateContract()
	require.Error(t, err)
}

func TestConfigFileAndEnv(t *testing.T) {
	scoring, err := util.Uint160DecodeStringLE("a1b2c3d4e5f60718293a4b5c6d7e8f9001122334")
	require.NoError(t, err)
	gate := util.Uint160{3, 2, 1}

	path := filepath.Join(t.TempDir(), "scoringctl.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"rpc_endpoint: http://node:30333\n"+
			"scoring_contract: \"0x"+scoring.StringLE()+"\"\n"+
			"gate_contract: "+address.Uint160ToString(gate)+"\n"+
			"timeout: 5s\n"+
			"wallet: /etc/wallet.json\n"), 0600))

	t.Setenv("SCORINGCTL_TIMEOUT", "1m")
	t.Setenv("SCORINGCTL_PASSWORD", "secret")

	v, err := loadConfig(path)
	require.NoError(t, err)

	cfg, err := parseConfig(v)
	require.NoError(t, err)
	require.Equal(t, "http://node:30333", cfg.rpcEndpoint)
	require.Equal(t, time.Minute, cfg.timeout)
	require.Equal(t, "/etc/wallet.json", cfg.wallet)
	require.Equal(t, "secret", cfg.password)

	h, err := cfg.scoringContract()
	require.NoError(t, err)
	require.Equal(t, scoring, h)
	h, err = cfg.gateContract()
	require.NoError(t, err)
	require.Equal(t, gate, h)
}

func TestConfigUnquotedHash(t *testing.T) {
	// Small LE hash looks like a hex number to YAML.
	h := util.Uint160{1, 2, 3}

	path := filepath.Join(t.TempDir(), "scoringctl.yml")
	require.NoError(t, os.WriteFile(path, []byte("scoring_contract: 0x"+h.StringLE()+"\n"), 0600))

	v, err := loadConfig(path)
	require.NoError(t, err)

	_, err = parseConfig(v)
	require.ErrorContains(t, err, "quote script hashes")

	t.Setenv("SCORINGCTL_SCORING_CONTRACT", "0x"+h.StringLE())
	cfg, err := parseConfig(v)
	require.NoError(t, err)
	res, err := cfg.scoringContract()
	require.NoError(t, err)
	require.Equal(t, h, res)
}

func TestConfigInvalid(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)

	t.Setenv("SCORINGCTL_SCORING_CONTRACT", "bad")
	v, err := loadConfig("")
	require.NoError(t, err)
	_, err = parseConfig(v)
	require.Error(t, err)

	t.Setenv("SCORINGCTL_SCORING_CONTRACT", "")
	t.Setenv("SCORINGCTL_TIMEOUT", "-1s")
	v, err = loadConfig("")
	require.NoError(t, err)
	_, err = parseConfig(v)
	require.Error(t, err)
}
