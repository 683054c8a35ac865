// Command scoringctl operates Scoring and Gate Token contracts deployed on a
// Neo N3 network.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"os"
	"strconv"

	"github.com/minigate/contracts/relay"
	"github.com/minigate/contracts/rpc/gatetoken"
	"github.com/minigate/contracts/rpc/scoring"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func main() {
	app := cli.NewApp()
	app.Name = "scoringctl"
	app.Usage = "Scoring ledger administration tool"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "Path to YAML configuration file"},
		cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
	}
	app.Commands = []cli.Command{
		{
			Name:      "score",
			Usage:     "Print score of the account",
			ArgsUsage: "<account>",
			Action:    withTimeout(scoreAction),
		},
		{
			Name:   "owner",
			Usage:  "Print current Scoring administrator",
			Action: withTimeout(ownerAction),
		},
		{
			Name:   "attest",
			Usage:  "Record quiz attestation of the wallet account",
			Action: withTimeout(attestAction),
		},
		{
			Name:      "newsletter",
			Usage:     "Set newsletter subscription flag (administrator only)",
			ArgsUsage: "<account> <true|false>",
			Action:    withTimeout(flagAction((*relay.Relay).SetNewsletterSubscription)),
		},
		{
			Name:      "call-booked",
			Usage:     "Set call booking flag (administrator only)",
			ArgsUsage: "<account> <true|false>",
			Action:    withTimeout(flagAction((*relay.Relay).SetCallBooked)),
		},
		{
			Name:      "transfer-admin",
			Usage:     "Transfer Scoring administration (administrator only)",
			ArgsUsage: "<account>",
			Action:    withTimeout(transferAdminAction),
		},
		{
			Name:  "renounce-admin",
			Usage: "Renounce Scoring administration forever (administrator only)",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "force", Usage: "Confirm irreversible renunciation"},
			},
			Action: withTimeout(renounceAdminAction),
		},
		{
			Name:      "owns-token",
			Usage:     "Check whether the account holds a gate token",
			ArgsUsage: "<account>",
			Action:    withTimeout(ownsTokenAction),
		},
		{
			Name:      "mint",
			Usage:     "Mint new gate token to the account (administrator only)",
			ArgsUsage: "<account>",
			Action:    withTimeout(mintAction),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type action func(ctx context.Context, c *cli.Context, cfg *config, l *zap.Logger) error

// withTimeout loads configuration and runs the action within configured timeout.
func withTimeout(a action) func(*cli.Context) error {
	return func(c *cli.Context) error {
		v, err := loadConfig(c.GlobalString("config"))
		if err != nil {
			return err
		}
		cfg, err := parseConfig(v)
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		l, err := newLogger(c.GlobalBool("debug"))
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = l.Sync() }()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
		defer cancel()

		return a(ctx, c, cfg, l)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.Sampling = nil
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

func scoreAction(ctx context.Context, c *cli.Context, cfg *config, _ *zap.Logger) error {
	user, err := relay.ParseAccount(c.Args().First())
	if err != nil {
		return err
	}
	h, err := cfg.scoringContract()
	if err != nil {
		return err
	}

	b, err := newRemoteReader(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	s, err := scoring.NewReader(b.invoker(), h).GetUserScore(user)
	if err != nil {
		return fmt.Errorf("get score: %w", err)
	}
	printScore(user, s)
	return nil
}

func ownerAction(ctx context.Context, _ *cli.Context, cfg *config, _ *zap.Logger) error {
	h, err := cfg.scoringContract()
	if err != nil {
		return err
	}

	b, err := newRemoteReader(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	owner, err := scoring.NewReader(b.invoker(), h).Owner()
	if errors.Is(err, scoring.ErrNoOwner) {
		fmt.Println("administration renounced")
		return nil
	} else if err != nil {
		return fmt.Errorf("get owner: %w", err)
	}
	fmt.Println(address.Uint160ToString(owner))
	return nil
}

func attestAction(ctx context.Context, _ *cli.Context, cfg *config, l *zap.Logger) error {
	h, err := cfg.scoringContract()
	if err != nil {
		return err
	}

	b, err := newRemoteSigner(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	user := b.account.ScriptHash()
	// Attestations are not idempotent, the call must never be repeated on failure.
	txHash, vub, err := scoring.New(b.actor, h).SubmitQuizAttestation(user)
	if err != nil {
		return fmt.Errorf("send attestation: %w", err)
	}
	l.Info("attestation sent", zap.Stringer("user", user), zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	res, err := b.actor.WaitAny(ctx, vub, txHash)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", txHash.StringLE(), err)
	}
	if err = checkHalt(res); err != nil {
		return err
	}

	evs, err := scoring.ScoreUpdatedEventsFromApplicationLog(appLog(txHash, res))
	if err != nil {
		return fmt.Errorf("decode notifications of transaction %s: %w", txHash.StringLE(), err)
	}
	if len(evs) != 1 {
		return fmt.Errorf("unexpected number of notifications in transaction %s: %d", txHash.StringLE(), len(evs))
	}
	printScore(user, evs[0].Score)
	return nil
}

func flagAction(set func(*relay.Relay, context.Context, relay.FlagRequest) (*relay.Receipt, error)) action {
	return func(ctx context.Context, c *cli.Context, cfg *config, l *zap.Logger) error {
		if c.NArg() != 2 {
			return errors.New("expected account and flag value")
		}
		value, err := strconv.ParseBool(c.Args().Get(1))
		if err != nil {
			return fmt.Errorf("invalid flag value: %w", err)
		}
		h, err := cfg.scoringContract()
		if err != nil {
			return err
		}

		b, err := newRemoteSigner(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.close()

		r, err := relay.New(relay.Prm{
			Logger: l,
			Ledger: scoring.New(b.actor, h),
			Waiter: b.actor,
		})
		if err != nil {
			return err
		}

		rcpt, err := set(r, ctx, relay.FlagRequest{Target: c.Args().First(), Value: value})
		if err != nil {
			return err
		}
		fmt.Println("transaction:", rcpt.TxHash.StringLE())
		printScore(rcpt.User, &rcpt.Score)
		return nil
	}
}

func transferAdminAction(ctx context.Context, c *cli.Context, cfg *config, l *zap.Logger) error {
	newOwner, err := relay.ParseAccount(c.Args().First())
	if err != nil {
		return err
	}
	h, err := cfg.scoringContract()
	if err != nil {
		return err
	}

	b, err := newRemoteSigner(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	return sendAndWait(ctx, b, l, "transfer administration")(scoring.New(b.actor, h).TransferOwnership(newOwner))
}

func renounceAdminAction(ctx context.Context, c *cli.Context, cfg *config, l *zap.Logger) error {
	if !c.Bool("force") {
		return errors.New("renunciation is irreversible, use --force to confirm")
	}
	h, err := cfg.scoringContract()
	if err != nil {
		return err
	}

	b, err := newRemoteSigner(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	return sendAndWait(ctx, b, l, "renounce administration")(scoring.New(b.actor, h).RenounceOwnership())
}

func ownsTokenAction(ctx context.Context, c *cli.Context, cfg *config, _ *zap.Logger) error {
	acc, err := relay.ParseAccount(c.Args().First())
	if err != nil {
		return err
	}
	h, err := cfg.gateContract()
	if err != nil {
		return err
	}

	b, err := newRemoteReader(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	ok, err := gatetoken.NewReader(b.invoker(), h).OwnsGatingToken(acc)
	if err != nil {
		return err
	}
	fmt.Println(ok)
	return nil
}

func mintAction(ctx context.Context, c *cli.Context, cfg *config, l *zap.Logger) error {
	to, err := relay.ParseAccount(c.Args().First())
	if err != nil {
		return err
	}
	h, err := cfg.gateContract()
	if err != nil {
		return err
	}

	b, err := newRemoteSigner(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	txHash, vub, err := gatetoken.New(b.actor, h).Mint(to)
	if err != nil {
		return fmt.Errorf("send mint transaction: %w", err)
	}
	l.Info("mint sent", zap.Stringer("to", to), zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	res, err := b.actor.WaitAny(ctx, vub, txHash)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", txHash.StringLE(), err)
	}
	if err = checkHalt(res); err != nil {
		return err
	}

	evs, err := gatetoken.TransferEventsFromApplicationLog(appLog(txHash, res))
	if err != nil {
		return fmt.Errorf("decode notifications of transaction %s: %w", txHash.StringLE(), err)
	}
	if len(evs) != 1 {
		return fmt.Errorf("unexpected number of notifications in transaction %s: %d", txHash.StringLE(), len(evs))
	}
	fmt.Printf("token %s minted to %s\n", evs[0].TokenId, address.Uint160ToString(evs[0].To))
	return nil
}

func sendAndWait(ctx context.Context, b *remoteBlockchain, l *zap.Logger, name string) func(util.Uint256, uint32, error) error {
	return func(txHash util.Uint256, vub uint32, err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		l.Info("transaction sent", zap.String("operation", name), zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

		res, err := b.actor.WaitAny(ctx, vub, txHash)
		if err != nil {
			return fmt.Errorf("wait for transaction %s: %w", txHash.StringLE(), err)
		}
		if err = checkHalt(res); err != nil {
			return err
		}
		l.Info("transaction accepted", zap.String("operation", name), zap.Stringer("tx", txHash))
		return nil
	}
}

func checkHalt(res *state.AppExecResult) error {
	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed: %s", res.Container.StringLE(), res.FaultException)
	}
	return nil
}

func appLog(txHash util.Uint256, res *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:  txHash,
		Executions: []state.Execution{res.Execution},
	}
}

func printScore(user util.Uint160, s *scoring.UserScore) {
	quizzes := s.QuizCompletions
	if quizzes == nil {
		quizzes = new(big.Int)
	}
	fmt.Printf("%s: quizzes=%s newsletter=%t call=%t\n",
		address.Uint160ToString(user), quizzes, s.HasSubscribedToNewsletter, s.HasBookedCall)
}
