package mint

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/code-payments/candy-drop/pkg/drop"
	"github.com/code-payments/candy-drop/pkg/drop/submit"
	"github.com/code-payments/candy-drop/pkg/metrics"
	"github.com/code-payments/candy-drop/pkg/solana"
	"github.com/code-payments/candy-drop/pkg/sync"
)

const (
	orchestratorMetricsStructName = "mint.orchestrator"

	mintAttemptEventName = "MintAttempt"

	outcomeSuccess     = "success"
	outcomeNotEligible = "not_eligible"
	outcomeFailed      = "failed"
)

// Snapshot is a drop's state together with the items minted from it so far.
type Snapshot struct {
	State *drop.DropState
	Items []*drop.MintedItem
}

// Orchestrator runs mint attempts and refreshes for drops owned by a single
// candy machine program.
type Orchestrator struct {
	log        *logrus.Entry
	reader     *drop.Reader
	assembler  *Assembler
	submitter  submit.Submitter
	payerLocks *sync.StripedLock
}

func NewOrchestrator(
	sc solana.Client,
	program ed25519.PublicKey,
	images drop.ImageFetcher,
	submitter submit.Submitter,
	readerConfigProvider drop.ConfigProvider,
	configProvider ConfigProvider,
	readerOpts ...drop.ReaderOption,
) *Orchestrator {
	conf := configProvider()
	ctx := context.Background()

	cachedImages := newCachingImageFetcher(images, int(conf.imageCacheBudget.Get(ctx)))

	return &Orchestrator{
		log:        logrus.StandardLogger().WithField("type", "mint/orchestrator"),
		reader:     drop.NewReader(sc, program, cachedImages, readerConfigProvider, readerOpts...),
		assembler:  NewAssembler(sc, configProvider),
		submitter:  submitter,
		payerLocks: sync.NewStripedLock(uint(conf.payerLockStripes.Get(ctx))),
	}
}

// State loads the current state of a drop.
func (o *Orchestrator) State(ctx context.Context, dropID ed25519.PublicKey) (*drop.DropState, error) {
	return o.reader.LoadDropState(ctx, dropID)
}

// Refresh loads the drop state and its minted items. It may run concurrently
// with Mint.
func (o *Orchestrator) Refresh(ctx context.Context, dropID ed25519.PublicKey) (*Snapshot, error) {
	tracer := metrics.TraceMethodCall(ctx, orchestratorMetricsStructName, "Refresh")
	defer tracer.End()

	var snapshot Snapshot
	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		state, err := o.reader.LoadDropState(groupCtx, dropID)
		if err != nil {
			return errors.Wrap(err, "error loading drop state")
		}
		snapshot.State = state
		return nil
	})
	g.Go(func() error {
		items, err := o.reader.LoadMintedItems(groupCtx, dropID)
		if err != nil {
			return errors.Wrap(err, "error loading minted items")
		}
		snapshot.Items = items
		return nil
	})
	if err := g.Wait(); err != nil {
		tracer.OnError(err)
		return nil, err
	}

	o.log.WithFields(logrus.Fields{
		"method": "Refresh",
		"drop":   base58.Encode(dropID),
		"items":  len(snapshot.Items),
	}).Debug("refreshed drop")

	return &snapshot, nil
}

// Mint runs a single attempt to mint an item from the drop to the wallet.
// Ineligible drops fail with drop.ErrNotEligible before anything is
// submitted. Attempts are never retried, and attempts for the same payer run
// one at a time.
//
// On a submission failure the signatures of batches confirmed before it are
// returned alongside the error.
func (o *Orchestrator) Mint(ctx context.Context, dropID ed25519.PublicKey, wallet submit.Wallet) ([]solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, orchestratorMetricsStructName, "Mint")
	defer tracer.End()

	attemptID := uuid.New()
	payer := wallet.PublicKey()

	log := o.log.WithFields(logrus.Fields{
		"method":  "Mint",
		"drop":    base58.Encode(dropID),
		"payer":   base58.Encode(payer),
		"attempt": attemptID.String(),
	})

	start := time.Now()
	sigs, mintAddress, err := o.mint(ctx, log, dropID, wallet)

	outcome := outcomeSuccess
	if errors.Is(err, drop.ErrNotEligible) {
		outcome = outcomeNotEligible
	} else if err != nil {
		outcome = outcomeFailed
	}

	event := map[string]interface{}{
		"attempt":   attemptID.String(),
		"drop":      base58.Encode(dropID),
		"payer":     base58.Encode(payer),
		"outcome":   outcome,
		"confirmed": len(sigs),
		"duration":  time.Since(start).Milliseconds(),
	}
	if mintAddress != nil {
		event["mint"] = base58.Encode(mintAddress)
	}
	metrics.RecordEvent(ctx, mintAttemptEventName, event)

	if err != nil {
		tracer.OnError(err)
		log.WithError(err).WithField("outcome", outcome).Info("mint attempt failed")
		return sigs, err
	}

	log.WithField("mint", base58.Encode(mintAddress)).Info("minted item")
	return sigs, nil
}

func (o *Orchestrator) mint(ctx context.Context, log *logrus.Entry, dropID ed25519.PublicKey, wallet submit.Wallet) ([]solana.Signature, ed25519.PublicKey, error) {
	unlock, err := o.payerLocks.Lock(ctx, wallet.PublicKey())
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	state, err := o.reader.LoadDropState(ctx, dropID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error loading drop state")
	}

	if err := state.Eligible(); err != nil {
		return nil, nil, err
	}

	req, err := o.assembler.Assemble(ctx, state, wallet.PublicKey())
	if err != nil {
		return nil, nil, errors.Wrap(err, "error assembling mint request")
	}

	log.WithFields(logrus.Fields{
		"mint":      base58.Encode(req.MintAddress()),
		"remaining": len(req.RemainingAccounts),
	}).Debug("submitting mint request")

	sigs, err := o.submitter.Submit(ctx, wallet, req.Batches())
	return sigs, req.MintAddress(), err
}
