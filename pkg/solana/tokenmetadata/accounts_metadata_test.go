package tokenmetadata

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataAccount_RoundTrip(t *testing.T) {
	mint := newKey(t)
	creator := newKey(t)
	nonce := uint8(254)

	var account MetadataAccount
	account.Key = uint8(KeyMetadataV1)
	copy(account.UpdateAuthority[:], newKey(t))
	copy(account.Mint[:], mint)
	account.Data = Data{
		Name:                 PadName("Drop #12"),
		Symbol:               PadSymbol("DROP"),
		Uri:                  PadUri("https://arweave.net/abc"),
		SellerFeeBasisPoints: 500,
		Creators:             &[]Creator{{Verified: true, Share: 0}, {Share: 100}},
	}
	copy((*account.Data.Creators)[0].Address[:], creator)
	account.IsMutable = true
	account.EditionNonce = &nonce

	data, err := account.Marshal()
	require.NoError(t, err)
	require.Len(t, data, MaxMetadataLen)

	// The fixed offsets used by program account queries line up with the
	// encoded layout.
	assert.EqualValues(t, 326, CreatorArrayStart)
	assert.Equal(t, []byte(creator), data[CreatorArrayStart:CreatorArrayStart+32])
	assert.Equal(t, []byte(mint), data[MintOffset:MintOffset+32])

	var decoded MetadataAccount
	require.NoError(t, decoded.Unmarshal(data))
	assert.Equal(t, "Drop #12", decoded.Data.Name)
	assert.Equal(t, "DROP", decoded.Data.Symbol)
	assert.Equal(t, "https://arweave.net/abc", decoded.Data.Uri)
	assert.EqualValues(t, 500, decoded.Data.SellerFeeBasisPoints)
	require.NotNil(t, decoded.Data.Creators)
	assert.Len(t, *decoded.Data.Creators, 2)
	assert.EqualValues(t, mint, decoded.MintAddress())
	require.NotNil(t, decoded.EditionNonce)
	assert.EqualValues(t, 254, *decoded.EditionNonce)
	assert.Nil(t, decoded.TokenStandard)
	assert.Nil(t, decoded.Collection)
}

func TestMetadataAccount_Invalid(t *testing.T) {
	var account MetadataAccount
	assert.True(t, errors.Is(account.Unmarshal(nil), ErrInvalidAccountData))
	assert.True(t, errors.Is(account.Unmarshal([]byte{byte(KeyMasterEditionV1), 0, 0}), ErrInvalidAccountData))
	assert.True(t, errors.Is(account.Unmarshal([]byte{byte(KeyMetadataV1), 1, 2, 3}), ErrInvalidAccountData))
}

func TestPad(t *testing.T) {
	assert.Len(t, PadName("a"), MaxNameLength)
	assert.Len(t, PadSymbol("a"), MaxSymbolLength)
	assert.Len(t, PadUri("a"), MaxUriLength)
	assert.Equal(t, "a", trimPadding(PadUri("a")))
}

func TestDisplayText(t *testing.T) {
	// "e" followed by a combining acute accent composes to "é".
	assert.Equal(t, "Caf\u00e9 #1", displayText(PadName("Cafe\u0301 #1")))
	assert.Equal(t, "CAFE", displayText(PadSymbol("CAFE")))
}
