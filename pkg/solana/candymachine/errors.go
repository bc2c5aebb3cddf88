package candymachine

import (
	"errors"
	"fmt"

	"github.com/code-payments/candy-drop/pkg/solana"
)

type CandyMachineError uint32

const (
	ErrIncorrectOwner CandyMachineError = iota + 0x1770
	ErrUninitialized
	ErrMintMismatch
	ErrIndexGreaterThanLength
	ErrNumericalOverflow
	ErrTooManyCreators
	ErrUuidMustBeExactly6Length
	ErrNotEnoughTokens
	ErrNotEnoughSOL
	ErrTokenTransferFailed
	ErrCandyMachineEmpty
	ErrCandyMachineNotLive
	ErrHiddenSettingsConfigsDoNotHaveConfigLines
	ErrCannotChangeNumberOfLines
	ErrDerivedKeyInvalid
	ErrPublicKeyMismatch
	ErrNoWhitelistToken
	ErrTokenBurnFailed
	ErrGatewayAppMissing
	ErrGatewayTokenMissing
	ErrGatewayTokenExpireTimeInvalid
	ErrNetworkExpireFeatureMissing
	ErrCannotFindUsableConfigLine
	ErrInvalidString
	ErrSuspiciousTransaction
)

var errorMessages = map[CandyMachineError]string{
	ErrIncorrectOwner:                            "account does not have correct owner",
	ErrUninitialized:                             "account is not initialized",
	ErrMintMismatch:                              "mint mismatch",
	ErrIndexGreaterThanLength:                    "index greater than length",
	ErrNumericalOverflow:                         "numerical overflow",
	ErrTooManyCreators:                           "too many creators",
	ErrUuidMustBeExactly6Length:                  "uuid must be exactly 6 characters",
	ErrNotEnoughTokens:                           "not enough tokens to pay for this minting",
	ErrNotEnoughSOL:                              "not enough SOL to pay for this minting",
	ErrTokenTransferFailed:                       "token transfer failed",
	ErrCandyMachineEmpty:                         "candy machine is empty",
	ErrCandyMachineNotLive:                       "candy machine is not live",
	ErrHiddenSettingsConfigsDoNotHaveConfigLines: "hidden settings configs do not have config lines",
	ErrCannotChangeNumberOfLines:                 "cannot change number of lines unless is a hidden config",
	ErrDerivedKeyInvalid:                         "derived key invalid",
	ErrPublicKeyMismatch:                         "public key mismatch",
	ErrNoWhitelistToken:                          "no whitelist token present",
	ErrTokenBurnFailed:                           "token burn failed",
	ErrGatewayAppMissing:                         "missing gateway app when required",
	ErrGatewayTokenMissing:                       "missing gateway token when required",
	ErrGatewayTokenExpireTimeInvalid:             "invalid gateway token expire time",
	ErrNetworkExpireFeatureMissing:               "missing gateway network expire feature when required",
	ErrCannotFindUsableConfigLine:                "unable to find an unused config line near the index",
	ErrInvalidString:                             "invalid string",
	ErrSuspiciousTransaction:                     "suspicious transaction detected",
}

func (e CandyMachineError) Error() string {
	msg, ok := errorMessages[e]
	if !ok {
		return fmt.Sprintf("candy machine error: %d", uint32(e))
	}
	return fmt.Sprintf("candy machine error %d: %s", uint32(e), msg)
}

// ErrorFromTransaction extracts a candy machine program error from a failed
// transaction, if the failing instruction returned one.
func ErrorFromTransaction(err error) (CandyMachineError, bool) {
	var custom solana.CustomError
	if !errors.As(err, &custom) {
		return 0, false
	}

	code := CandyMachineError(custom)
	if _, ok := errorMessages[code]; !ok {
		return 0, false
	}
	return code, true
}
