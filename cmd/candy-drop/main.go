package main

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"os"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/candy-drop/pkg/app"
	"github.com/code-payments/candy-drop/pkg/drop"
	"github.com/code-payments/candy-drop/pkg/drop/mint"
	"github.com/code-payments/candy-drop/pkg/drop/offchain"
	"github.com/code-payments/candy-drop/pkg/drop/submit"
	"github.com/code-payments/candy-drop/pkg/metrics"
	"github.com/code-payments/candy-drop/pkg/solana"
	"github.com/code-payments/candy-drop/pkg/solana/candymachine"
)

func main() {
	err := app.Run(map[string]app.Command{
		"state": runState,
		"items": runItems,
		"mint":  runMint,
		"watch": runWatch,
	})
	if err != nil {
		logrus.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

type environment struct {
	dropID       ed25519.PublicKey
	orchestrator *mint.Orchestrator
}

func setup(config *app.BaseConfig) (*environment, error) {
	if len(config.CandyMachineID) == 0 {
		return nil, errors.New("candy machine id is not configured")
	}
	dropID, err := decodeAddress(config.CandyMachineID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid candy machine id")
	}

	program := candymachine.DEFAULT_PROGRAM_ID
	if len(config.CandyMachineProgramID) > 0 {
		program, err = decodeAddress(config.CandyMachineProgramID)
		if err != nil {
			return nil, errors.Wrap(err, "invalid candy machine program id")
		}
	}

	sc := solana.New(solana.ResolveEndpoint(config.SolanaRPCEndpoint))
	orchestrator := mint.NewOrchestrator(
		sc,
		program,
		offchain.NewClient(offchain.WithEnvConfigs()),
		submit.NewRPCSubmitter(sc, submit.WithEnvConfigs()),
		drop.WithEnvConfigs(),
		mint.WithEnvConfigs(),
	)

	return &environment{
		dropID:       dropID,
		orchestrator: orchestrator,
	}, nil
}

func runState(ctx context.Context, config *app.BaseConfig, _ []string) error {
	env, err := setup(config)
	if err != nil {
		return err
	}

	state, err := env.orchestrator.State(ctx, env.dropID)
	if err != nil {
		return err
	}

	printState(state)
	return nil
}

func runItems(ctx context.Context, config *app.BaseConfig, _ []string) error {
	env, err := setup(config)
	if err != nil {
		return err
	}

	snapshot, err := env.orchestrator.Refresh(ctx, env.dropID)
	if err != nil {
		return err
	}

	printState(snapshot.State)
	for _, item := range snapshot.Items {
		fmt.Printf("%s\t%s\t%s\n", base58.Encode(item.Mint), item.Name, item.Image)
	}
	return nil
}

func runMint(ctx context.Context, config *app.BaseConfig, _ []string) error {
	env, err := setup(config)
	if err != nil {
		return err
	}

	if len(config.PayerKeypairPath) == 0 {
		return errors.New("payer keypair path is not configured")
	}
	raw, err := app.LoadFile(config.PayerKeypairPath)
	if err != nil {
		return errors.Wrap(err, "error loading payer keypair")
	}
	wallet, err := submit.ParseKeypairWallet(raw)
	if err != nil {
		return err
	}

	sigs, err := env.orchestrator.Mint(ctx, env.dropID, wallet)
	for _, sig := range sigs {
		fmt.Println(base58.Encode(sig[:]))
	}
	if code, ok := candymachine.ErrorFromTransaction(err); ok {
		return errors.Wrapf(err, "candy machine rejected the mint (%s)", code)
	}
	return err
}

func runWatch(ctx context.Context, config *app.BaseConfig, _ []string) error {
	env, err := setup(config)
	if err != nil {
		return err
	}

	log := logrus.StandardLogger().WithFields(logrus.Fields{
		"type": "cmd/watch",
		"drop": base58.Encode(env.dropID),
	})

	refresh := func() {
		txnCtx, end := metrics.StartBackgroundTransaction(ctx, "watch_refresh")
		defer end()

		snapshot, err := env.orchestrator.Refresh(txnCtx, env.dropID)
		if err != nil {
			log.WithError(err).Warn("failed to refresh drop")
			return
		}

		log.WithFields(logrus.Fields{
			"redeemed":  snapshot.State.ItemsRedeemed,
			"available": snapshot.State.ItemsAvailable,
			"active":    snapshot.State.IsActive,
			"items":     len(snapshot.Items),
		}).Info("refreshed drop")
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(config.RefreshSchedule, refresh); err != nil {
		return errors.Wrap(err, "invalid refresh schedule")
	}

	refresh()
	scheduler.Start()

	<-ctx.Done()
	<-scheduler.Stop().Done()
	return nil
}

func printState(state *drop.DropState) {
	fmt.Printf("drop:      %s\n", state)
	fmt.Printf("go live:   %s\n", state.GoLiveString())
	fmt.Printf("redeemed:  %d / %d\n", state.ItemsRedeemed, state.ItemsAvailable)
	fmt.Printf("price:     %d\n", state.Price)
	fmt.Printf("active:    %t\n", state.IsActive)
	fmt.Printf("presale:   %t\n", state.IsPresale)
	fmt.Printf("sold out:  %t\n", state.IsSoldOut)
	if state.PaymentMint != nil {
		fmt.Printf("pay with:  %s\n", base58.Encode(state.PaymentMint))
	}
	if state.Hidden != nil {
		fmt.Printf("hidden:    %s\n", state.Hidden.Name)
	}
}

func decodeAddress(value string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(value)
	if err != nil {
		return nil, err
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, errors.Errorf("expected %d bytes, got %d", ed25519.PublicKeySize, len(decoded))
	}
	return decoded, nil
}
