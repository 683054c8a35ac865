package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// wrapper over Neo RPC client providing services needed for scoringctl commands.
type remoteBlockchain struct {
	rpc *rpcclient.Client

	// set only by newRemoteSigner
	actor   *actor.Actor
	account *wallet.Account
}

// newRemoteReader dials Neo RPC server for read-only commands. Connection and
// all requests are done within configured timeout.
func newRemoteReader(ctx context.Context, cfg *config) (*remoteBlockchain, error) {
	c, err := rpcclient.New(ctx, cfg.rpcEndpoint, rpcclient.Options{
		DialTimeout:    cfg.timeout,
		RequestTimeout: cfg.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}
	return &remoteBlockchain{rpc: c}, nil
}

// newRemoteSigner is the same as newRemoteReader but also opens configured
// wallet account and makes an actor signing transactions by it.
func newRemoteSigner(ctx context.Context, cfg *config) (*remoteBlockchain, error) {
	acc, err := openAccount(cfg)
	if err != nil {
		return nil, err
	}

	b, err := newRemoteReader(ctx, cfg)
	if err != nil {
		return nil, err
	}

	b.actor, err = actor.NewSimple(b.rpc, acc)
	if err != nil {
		b.close()
		return nil, fmt.Errorf("init actor: %w", err)
	}
	b.account = acc

	return b, nil
}

func (x *remoteBlockchain) invoker() *invoker.Invoker {
	return invoker.New(x.rpc, nil)
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// openAccount opens configured wallet and decrypts the account: the one
// specified in configuration or the default one.
func openAccount(cfg *config) (*wallet.Account, error) {
	if cfg.wallet == "" {
		return nil, errors.New("missing wallet")
	}

	w, err := wallet.NewWalletFromFile(cfg.wallet)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var h util.Uint160
	if cfg.account != "" {
		h, err = address.StringToUint160(cfg.account)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
	} else {
		h = w.GetChangeAddress()
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, fmt.Errorf("account %s not found in the wallet", address.Uint160ToString(h))
	}

	err = acc.Decrypt(cfg.password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", address.Uint160ToString(h), err)
	}

	return acc, nil
}
