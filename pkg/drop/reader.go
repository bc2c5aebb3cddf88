package drop

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/code-payments/candy-drop/pkg/metrics"
	"github.com/code-payments/candy-drop/pkg/solana"
	"github.com/code-payments/candy-drop/pkg/solana/candymachine"
	"github.com/code-payments/candy-drop/pkg/solana/token"
	"github.com/code-payments/candy-drop/pkg/solana/tokenmetadata"
)

const (
	metricsStructName = "drop.reader"
)

// ImageFetcher resolves the image reference in an item's off-chain metadata
// document.
type ImageFetcher interface {
	FetchImage(ctx context.Context, uri string) (string, error)
}

// Reader loads drop snapshots and previously minted items. It holds no
// cached state.
type Reader struct {
	log     *logrus.Entry
	conf    *conf
	sc      solana.Client
	program ed25519.PublicKey
	images  ImageFetcher
	now     func() time.Time
}

type ReaderOption func(*Reader)

// WithClock overrides the clock eligibility flags are computed against.
func WithClock(now func() time.Time) ReaderOption {
	return func(r *Reader) {
		r.now = now
	}
}

// NewReader returns a Reader for drops owned by program.
func NewReader(
	sc solana.Client,
	program ed25519.PublicKey,
	images ImageFetcher,
	configProvider ConfigProvider,
	opts ...ReaderOption,
) *Reader {
	r := &Reader{
		log:     logrus.StandardLogger().WithField("type", "drop/reader"),
		conf:    configProvider(),
		sc:      sc,
		program: program,
		images:  images,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Program returns the candy machine program drops are read from.
func (r *Reader) Program() ed25519.PublicKey {
	return r.program
}

// LoadDropState fetches and decodes the drop account and derives its
// eligibility flags.
func (r *Reader) LoadDropState(ctx context.Context, dropID ed25519.PublicKey) (*DropState, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "LoadDropState")
	defer tracer.End()

	log := r.log.WithFields(logrus.Fields{
		"method": "LoadDropState",
		"drop":   base58.Encode(dropID),
	})

	state, err := r.loadDropState(ctx, dropID)
	if err != nil {
		log.WithError(err).Debug("failed to load drop state")
		tracer.OnError(err)
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"redeemed":  state.ItemsRedeemed,
		"available": state.ItemsAvailable,
		"active":    state.IsActive,
	}).Trace("loaded drop state")

	return state, nil
}

func (r *Reader) loadDropState(ctx context.Context, dropID ed25519.PublicKey) (*DropState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	commitment, err := r.commitment(ctx)
	if err != nil {
		return nil, err
	}

	info, err := r.sc.GetAccountInfo(dropID, commitment)
	if errors.Is(err, solana.ErrNoAccountInfo) {
		return nil, errors.Wrap(ErrStateDecode, "drop account not found")
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting drop account")
	}

	if !bytes.Equal(info.Owner, r.program) {
		return nil, errors.Wrapf(ErrStateDecode, "drop account is owned by %s", base58.Encode(info.Owner))
	}

	var account candymachine.CandyMachineAccount
	if err := account.Unmarshal(info.Data); err != nil {
		return nil, errors.Wrapf(ErrStateDecode, "%v", err)
	}

	rent, err := r.sc.GetMinimumBalanceForRentExemption(token.MintAccountSize)
	if err != nil {
		return nil, errors.Wrap(err, "error getting mint rent exemption")
	}

	return newDropState(dropID, r.program, &account, rent, r.now())
}

// LoadMintedItems enumerates items minted from the drop. Items whose
// metadata or off-chain document can't be loaded are logged and skipped,
// while failing to enumerate the drop at all is returned as an error.
func (r *Reader) LoadMintedItems(ctx context.Context, dropID ed25519.PublicKey) ([]*MintedItem, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "LoadMintedItems")
	defer tracer.End()

	log := r.log.WithFields(logrus.Fields{
		"method": "LoadMintedItems",
		"drop":   base58.Encode(dropID),
	})

	items, err := r.loadMintedItems(ctx, log, dropID)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	tracer.AddAttribute("items", len(items))
	return items, nil
}

func (r *Reader) loadMintedItems(ctx context.Context, log *logrus.Entry, dropID ed25519.PublicKey) ([]*MintedItem, error) {
	commitment, err := r.commitment(ctx)
	if err != nil {
		return nil, err
	}

	creator, _, err := candymachine.GetCreatorAddress(&candymachine.GetCreatorAddressArgs{
		Program:      r.program,
		CandyMachine: dropID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving drop creator")
	}

	dataSize := uint64(tokenmetadata.MaxMetadataLen)
	accounts, err := r.sc.GetProgramAccounts(tokenmetadata.PROGRAM_ID, commitment, solana.ProgramAccountsQuery{
		DataSize: &dataSize,
		Memcmp: []solana.MemcmpFilter{
			{Offset: tokenmetadata.CreatorArrayStart, Bytes: creator},
		},
		Slice: &solana.DataSlice{
			Offset: tokenmetadata.MintOffset,
			Length: ed25519.PublicKeySize,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error enumerating minted items")
	}

	var items []*MintedItem
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item, err := r.loadMetadata(commitment, account.Data)
		if err != nil {
			log.WithError(err).
				WithField("account", base58.Encode(account.PublicKey)).
				Warn("skipping item with unreadable metadata")
			continue
		}
		items = append(items, item)
	}

	images := make([]string, len(items))
	g, groupCtx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			image, err := r.images.FetchImage(groupCtx, item.URI)
			if err != nil {
				log.WithError(err).
					WithFields(logrus.Fields{
						"mint": base58.Encode(item.Mint),
						"uri":  item.URI,
					}).
					Warn("skipping item with unreadable off-chain metadata")
				return nil
			}

			images[i] = image
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := make([]*MintedItem, 0, len(items))
	for i, item := range items {
		if len(images[i]) == 0 {
			continue
		}

		item.Image = images[i]
		res = append(res, item)
	}
	return res, nil
}

func (r *Reader) loadMetadata(commitment solana.Commitment, mint []byte) (*MintedItem, error) {
	if len(mint) != ed25519.PublicKeySize {
		return nil, errors.Errorf("unexpected mint slice length %d", len(mint))
	}

	address, _, err := tokenmetadata.GetMetadataAddress(&tokenmetadata.GetMetadataAddressArgs{
		Mint: mint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving metadata address")
	}

	info, err := r.sc.GetAccountInfo(address, commitment)
	if err != nil {
		return nil, errors.Wrap(err, "error getting metadata account")
	}

	var metadata tokenmetadata.MetadataAccount
	if err := metadata.Unmarshal(info.Data); err != nil {
		return nil, errors.Wrapf(ErrStateDecode, "%v", err)
	}

	return &MintedItem{
		Mint:     metadata.MintAddress(),
		Metadata: address,
		Name:     metadata.Data.Name,
		Symbol:   metadata.Data.Symbol,
		URI:      metadata.Data.Uri,
	}, nil
}

func (r *Reader) commitment(ctx context.Context) (solana.Commitment, error) {
	commitment, err := solana.CommitmentFromString(r.conf.commitment.Get(ctx))
	if err != nil {
		return "", errors.Wrap(err, "invalid commitment config")
	}
	return commitment, nil
}
