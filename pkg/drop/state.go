package drop

import (
	"crypto/ed25519"
	"time"

	"github.com/pkg/errors"

	"github.com/code-payments/candy-drop/pkg/pointer"
	"github.com/code-payments/candy-drop/pkg/solana/candymachine"
)

// newDropState converts a decoded candy machine account into a snapshot and
// computes its eligibility flags against now.
func newDropState(
	id ed25519.PublicKey,
	program ed25519.PublicKey,
	account *candymachine.CandyMachineAccount,
	mintRentExemption uint64,
	now time.Time,
) (*DropState, error) {
	data := account.Data

	if account.ItemsRedeemed > data.ItemsAvailable {
		return nil, errors.Wrapf(
			ErrStateDecode,
			"items redeemed (%d) exceeds items available (%d)",
			account.ItemsRedeemed,
			data.ItemsAvailable,
		)
	}

	state := &DropState{
		ID:                   id,
		Program:              program,
		Authority:            account.Authority,
		ItemsAvailable:       data.ItemsAvailable,
		ItemsRedeemed:        account.ItemsRedeemed,
		ItemsRemaining:       data.ItemsAvailable - account.ItemsRedeemed,
		Treasury:             account.Wallet,
		PaymentMint:          account.TokenMint,
		Price:                data.Price,
		Symbol:               data.Symbol,
		SellerFeeBasisPoints: data.SellerFeeBasisPoints,
		MintRentExemption:    mintRentExemption,
		ObservedAt:           now,
	}

	if data.GoLiveDate != nil {
		state.GoLiveDate = pointer.To(time.Unix(*data.GoLiveDate, 0))
	}

	if data.Gatekeeper != nil {
		state.Gatekeeper = &GatekeeperRule{
			Network:     data.Gatekeeper.GatekeeperNetwork,
			ExpireOnUse: data.Gatekeeper.ExpireOnUse,
		}
	}

	if data.WhitelistMintSettings != nil {
		state.AllowList = &AllowListRule{
			Mint:          data.WhitelistMintSettings.Mint,
			BurnOnUse:     data.WhitelistMintSettings.Mode == candymachine.WhitelistMintModeBurnEveryTime,
			Presale:       data.WhitelistMintSettings.Presale,
			DiscountPrice: pointer.Copy(data.WhitelistMintSettings.DiscountPrice),
		}
	}

	if data.EndSettings != nil {
		state.EndCondition = &EndCondition{
			Value: data.EndSettings.Number,
		}
		switch data.EndSettings.Type {
		case candymachine.EndSettingTypeDate:
			state.EndCondition.Kind = EndConditionDate
		case candymachine.EndSettingTypeAmount:
			state.EndCondition.Kind = EndConditionAmountSold
		default:
			return nil, errors.Wrapf(ErrStateDecode, "unknown end setting type %d", data.EndSettings.Type)
		}
	}

	if data.HiddenSettings != nil {
		state.Hidden = &HiddenSettings{
			Name: data.HiddenSettings.Name,
			URI:  data.HiddenSettings.Uri,
			Hash: data.HiddenSettings.Hash,
		}
	}

	for _, c := range data.Creators {
		state.Creators = append(state.Creators, Creator{
			Address:  c.Address,
			Verified: c.Verified,
			Share:    c.Share,
		})
	}

	if err := state.validate(); err != nil {
		return nil, errors.Wrapf(ErrStateDecode, "%v", err)
	}

	state.IsSoldOut = state.ItemsRemaining == 0
	state.IsPresale = state.AllowList != nil &&
		state.AllowList.Presale &&
		(state.GoLiveDate == nil || state.GoLiveDate.After(now))

	goLivePassed := state.GoLiveDate != nil && state.GoLiveDate.Before(now)
	state.IsActive = (state.IsPresale || goLivePassed) &&
		state.EndCondition.isOpen(now, state.ItemsRedeemed)

	return state, nil
}

func (s *DropState) validate() error {
	if s.Gatekeeper != nil {
		if err := s.Gatekeeper.Validate(); err != nil {
			return err
		}
	}
	if s.AllowList != nil {
		if err := s.AllowList.Validate(); err != nil {
			return err
		}
	}
	if s.EndCondition != nil {
		if err := s.EndCondition.Validate(); err != nil {
			return err
		}
	}
	if s.PaymentMint != nil && len(s.PaymentMint) != ed25519.PublicKeySize {
		return errors.New("payment mint is not a valid address")
	}
	return nil
}
