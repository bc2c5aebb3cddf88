package mint

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/candy-drop/pkg/drop"
	"github.com/code-payments/candy-drop/pkg/drop/submit"
	"github.com/code-payments/candy-drop/pkg/metrics"
	"github.com/code-payments/candy-drop/pkg/solana"
	"github.com/code-payments/candy-drop/pkg/solana/candymachine"
	"github.com/code-payments/candy-drop/pkg/solana/gateway"
	"github.com/code-payments/candy-drop/pkg/solana/system"
	"github.com/code-payments/candy-drop/pkg/solana/token"
	"github.com/code-payments/candy-drop/pkg/solana/tokenmetadata"
)

const (
	assemblerMetricsStructName = "mint.assembler"
)

// Assembler turns a drop snapshot into the batches of one mint attempt. It
// trusts the snapshot and does not re-check eligibility.
type Assembler struct {
	log        *logrus.Entry
	conf       *conf
	sc         solana.Client
	newKeypair func() (ed25519.PrivateKey, error)
}

func NewAssembler(sc solana.Client, configProvider ConfigProvider) *Assembler {
	return &Assembler{
		log:        logrus.StandardLogger().WithField("type", "mint/assembler"),
		conf:       configProvider(),
		sc:         sc,
		newKeypair: generateKeypair,
	}
}

func generateKeypair() (ed25519.PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(nil)
	return key, err
}

// Assemble derives every address for a new mint and builds the main and
// cleanup batches. The only network call is the allow-list token account
// lookup for drops that burn on use.
func (a *Assembler) Assemble(ctx context.Context, state *drop.DropState, payer ed25519.PublicKey) (*MintRequest, error) {
	tracer := metrics.TraceMethodCall(ctx, assemblerMetricsStructName, "Assemble")
	defer tracer.End()

	req, err := a.assemble(ctx, state, payer)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return req, nil
}

func (a *Assembler) assemble(ctx context.Context, state *drop.DropState, payer ed25519.PublicKey) (*MintRequest, error) {
	mint, err := a.newKeypair()
	if err != nil {
		return nil, errors.Wrap(err, "error generating mint keypair")
	}
	mintAddress := mint.Public().(ed25519.PublicKey)

	createAtaIxn, tokenAccount, err := token.CreateAssociatedTokenAccount(payer, payer, mintAddress)
	if err != nil {
		return nil, errors.Wrap(err, "error deriving token account")
	}

	payingAccount := payer
	if state.PaymentMint != nil {
		payingAccount, err = token.GetAssociatedAccount(payer, state.PaymentMint)
		if err != nil {
			return nil, errors.Wrap(err, "error deriving paying account")
		}
	}

	req := &MintRequest{
		Mint:          mint,
		Payer:         payer,
		TokenAccount:  tokenAccount,
		PayingAccount: payingAccount,
	}

	gating, err := a.gatingSegment(state, payer)
	if err != nil {
		return nil, err
	}
	allowList, err := a.allowListSegment(ctx, state, payer)
	if err != nil {
		return nil, err
	}
	payment, err := a.paymentSegment(state, req)
	if err != nil {
		return nil, err
	}
	rules := segments{gating, allowList, payment}

	req.Metadata, _, err = tokenmetadata.GetMetadataAddress(&tokenmetadata.GetMetadataAddressArgs{
		Mint: mintAddress,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving metadata address")
	}

	req.MasterEdition, _, err = tokenmetadata.GetMasterEditionAddress(&tokenmetadata.GetMasterEditionAddressArgs{
		Mint: mintAddress,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving master edition address")
	}

	req.Creator, req.CreatorBump, err = candymachine.GetCreatorAddress(&candymachine.GetCreatorAddressArgs{
		Program:      state.Program,
		CandyMachine: state.ID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error deriving creator address")
	}

	req.RemainingAccounts = rules.remainingAccounts()

	mainIxns := []solana.Instruction{
		system.CreateAccount(payer, mintAddress, token.ProgramKey, state.MintRentExemption, token.MintAccountSize),
		token.InitializeMint(mintAddress, payer, payer, 0),
		createAtaIxn,
		token.MintTo(mintAddress, tokenAccount, payer, 1),
	}
	mainIxns = append(mainIxns, rules.instructions()...)
	mainIxns = append(mainIxns, candymachine.NewMintNftInstruction(
		state.Program,
		&candymachine.MintNftInstructionAccounts{
			CandyMachine:        state.ID,
			CandyMachineCreator: req.Creator,
			Payer:               payer,
			Wallet:              state.Treasury,
			Metadata:            req.Metadata,
			Mint:                mintAddress,
			MintAuthority:       payer,
			UpdateAuthority:     payer,
			MasterEdition:       req.MasterEdition,
			RemainingAccounts:   req.RemainingAccounts,
		},
		&candymachine.MintNftInstructionArgs{
			CreatorBump: req.CreatorBump,
		},
	))

	req.Main = submit.Batch{
		Instructions: mainIxns,
		Signers:      append([]ed25519.PrivateKey{mint}, rules.signers()...),
	}
	req.Cleanup = submit.Batch{
		Instructions: rules.cleanup(),
	}

	a.log.WithFields(logrus.Fields{
		"method":    "Assemble",
		"drop":      base58.Encode(state.ID),
		"payer":     base58.Encode(payer),
		"mint":      base58.Encode(mintAddress),
		"remaining": len(req.RemainingAccounts),
	}).Trace("assembled mint request")

	return req, nil
}

func (a *Assembler) gatingSegment(state *drop.DropState, payer ed25519.PublicKey) (segment, error) {
	var seg segment
	if state.Gatekeeper == nil {
		return seg, nil
	}

	gatewayToken, _, err := gateway.GetGatewayTokenAddress(&gateway.GetGatewayTokenAddressArgs{
		Wallet:            payer,
		GatekeeperNetwork: state.Gatekeeper.Network,
	})
	if err != nil {
		return seg, errors.Wrap(err, "error deriving gateway token address")
	}
	seg.remainingAccounts = append(seg.remainingAccounts, solana.NewAccountMeta(gatewayToken, false))

	if state.Gatekeeper.ExpireOnUse {
		expire, _, err := gateway.GetExpireAddress(&gateway.GetExpireAddressArgs{
			GatekeeperNetwork: state.Gatekeeper.Network,
		})
		if err != nil {
			return seg, errors.Wrap(err, "error deriving gateway expire address")
		}

		seg.remainingAccounts = append(
			seg.remainingAccounts,
			solana.NewReadonlyAccountMeta(gateway.PROGRAM_ID, false),
			solana.NewReadonlyAccountMeta(expire, false),
		)
	}

	return seg, nil
}

func (a *Assembler) allowListSegment(ctx context.Context, state *drop.DropState, payer ed25519.PublicKey) (segment, error) {
	var seg segment
	if state.AllowList == nil {
		return seg, nil
	}

	allowListToken, err := token.GetAssociatedAccount(payer, state.AllowList.Mint)
	if err != nil {
		return seg, errors.Wrap(err, "error deriving allow list token account")
	}
	seg.remainingAccounts = append(seg.remainingAccounts, solana.NewAccountMeta(allowListToken, false))

	if !state.AllowList.BurnOnUse {
		return seg, nil
	}

	burnAuthority, err := a.newKeypair()
	if err != nil {
		return seg, errors.Wrap(err, "error generating burn authority")
	}
	burnAuthorityAddress := burnAuthority.Public().(ed25519.PublicKey)

	seg.remainingAccounts = append(
		seg.remainingAccounts,
		solana.NewAccountMeta(state.AllowList.Mint, false),
		solana.NewReadonlyAccountMeta(burnAuthorityAddress, true),
	)
	seg.signers = append(seg.signers, burnAuthority)

	if a.allowListTokenExists(ctx, state.AllowList.Mint, allowListToken) {
		seg.instructions = append(seg.instructions, token.Approve(allowListToken, burnAuthorityAddress, payer, 1))
		seg.cleanup = append(seg.cleanup, token.Revoke(allowListToken, payer))
	}

	return seg, nil
}

// allowListTokenExists treats any lookup failure as a missing account. The
// program rejects the mint if the account is actually required.
func (a *Assembler) allowListTokenExists(ctx context.Context, mint, address ed25519.PublicKey) bool {
	commitment, err := solana.CommitmentFromString(a.conf.commitment.Get(ctx))
	if err != nil {
		commitment = solana.CommitmentConfirmed
	}

	_, err = token.NewClient(a.sc, mint).GetAccount(address, commitment)
	if err != nil {
		a.log.WithError(err).
			WithField("account", base58.Encode(address)).
			Debug("allow list token account not found")
		return false
	}
	return true
}

func (a *Assembler) paymentSegment(state *drop.DropState, req *MintRequest) (segment, error) {
	var seg segment
	if state.PaymentMint == nil {
		return seg, nil
	}

	transferAuthority, err := a.newKeypair()
	if err != nil {
		return seg, errors.Wrap(err, "error generating transfer authority")
	}
	transferAuthorityAddress := transferAuthority.Public().(ed25519.PublicKey)

	seg.signers = append(seg.signers, transferAuthority)
	seg.remainingAccounts = append(
		seg.remainingAccounts,
		solana.NewAccountMeta(req.PayingAccount, false),
		solana.NewReadonlyAccountMeta(transferAuthorityAddress, true),
	)
	seg.instructions = append(seg.instructions, token.Approve(req.PayingAccount, transferAuthorityAddress, req.Payer, state.Price))
	seg.cleanup = append(seg.cleanup, token.Revoke(req.PayingAccount, req.Payer))

	return seg, nil
}
