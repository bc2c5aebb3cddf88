package solana

import (
	"crypto/ed25519"
	"encoding/base64"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/candy-drop/pkg/retry"
	"github.com/code-payments/candy-drop/pkg/retry/backoff"
)

const (
	// PollRate is how often signature statuses are polled, about twice per
	// slot.
	PollRate = 250 * time.Millisecond

	// sigStatusPollLimit bounds confirmation polling to roughly 32 slots.
	sigStatusPollLimit = 64

	// blockhashReuse is the nominal time a fetched blockhash is handed out
	// again before the node is asked for a fresh one.
	blockhashReuse = 2 * time.Second

	// Reference: https://github.com/solana-labs/solana/blob/71e9958e061493d7545bd28d4ac7a85aaed6ffbb/client/src/rpc_custom_error.rs#L11
	rpcNodeUnhealthyCode = -32005
)

var (
	ErrNoAccountInfo       = errors.New("no account info")
	ErrSignatureNotFound   = errors.New("signature not found")
	ErrConfirmationTimeout = errors.New("confirmation not reached in time")

	errRateLimited  = errors.New("rate limited")
	errServiceError = errors.New("service error")
)

// AccountInfo is the raw state of an account.
type AccountInfo struct {
	Data       []byte
	Owner      ed25519.PublicKey
	Lamports   uint64
	Executable bool
}

// ProgramAccount is a single result of a getProgramAccounts query. Data only
// holds the requested slice when the query specifies one.
type ProgramAccount struct {
	PublicKey ed25519.PublicKey
	Data      []byte
}

// MemcmpFilter matches accounts whose data at Offset equals Bytes.
type MemcmpFilter struct {
	Offset uint
	Bytes  []byte
}

// DataSlice limits the returned account data to [Offset, Offset+Length).
type DataSlice struct {
	Offset uint `json:"offset"`
	Length uint `json:"length"`
}

// ProgramAccountsQuery filters a getProgramAccounts request. Every filter
// must match for an account to be returned.
type ProgramAccountsQuery struct {
	DataSize *uint64
	Memcmp   []MemcmpFilter
	Slice    *DataSlice
}

// Client is the part of the Solana JSON-RPC API needed to read drop state and
// submit mint transactions.
//
// Reference: https://docs.solana.com/api/http
type Client interface {
	GetAccountInfo(account ed25519.PublicKey, commitment Commitment) (AccountInfo, error)
	GetMinimumBalanceForRentExemption(size uint64) (lamports uint64, err error)
	GetLatestBlockhash() (Blockhash, error)
	GetProgramAccounts(program ed25519.PublicKey, commitment Commitment, query ProgramAccountsQuery) ([]ProgramAccount, error)
	GetSignatureStatus(sig Signature, commitment Commitment) (*SignatureStatus, error)
	GetSignatureStatuses(sigs []Signature) ([]*SignatureStatus, error)
	SubmitTransaction(txn Transaction, commitment Commitment) (Signature, error)
}

// rpcAccount is the base64 encoded account object returned by the node.
type rpcAccount struct {
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
	Data       []string `json:"data"`
	Executable bool     `json:"executable"`
}

// data decodes the [payload, encoding] pair. A missing pair decodes to nil.
func (a rpcAccount) data() ([]byte, error) {
	if len(a.Data) == 0 {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(a.Data[0])
	if err != nil {
		return nil, errors.Wrap(err, "invalid base64 encoded data")
	}
	return data, nil
}

type rpcFilter struct {
	DataSize *uint64    `json:"dataSize,omitempty"`
	Memcmp   *rpcMemcmp `json:"memcmp,omitempty"`
}

type rpcMemcmp struct {
	Offset uint   `json:"offset"`
	Bytes  string `json:"bytes"`
}

type rpcQueryConfig struct {
	Commitment Commitment  `json:"commitment,omitempty"`
	Encoding   string      `json:"encoding,omitempty"`
	Filters    []rpcFilter `json:"filters,omitempty"`
	DataSlice  *DataSlice  `json:"dataSlice,omitempty"`
}

type client struct {
	log     *logrus.Entry
	rpc     jsonrpc.RPCClient
	retrier retry.Retrier

	blockhash blockhashCache
}

// New returns a client for the JSON-RPC endpoint.
func New(endpoint string) Client {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithRPCOptions returns a client for the JSON-RPC endpoint using opts,
// for example to supply a custom HTTP client.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) Client {
	return &client{
		log: logrus.StandardLogger().WithField("type", "solana/client"),
		rpc: jsonrpc.NewClientWithOpts(endpoint, opts),
		retrier: retry.NewRetrier(
			retry.RetriableErrors(errRateLimited, errServiceError),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
	}
}

// call invokes method, retrying rate limits and node side failures.
func (c *client) call(out interface{}, method string, params ...interface{}) error {
	_, err := c.retrier.Retry(func() error {
		return c.classify(method, c.rpc.CallFor(out, method, params...))
	})
	return err
}

func (c *client) classify(method string, err error) error {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}

	switch {
	case rpcErr.Code == http.StatusTooManyRequests:
		c.log.WithField("method", method).Warn("rate limited")
		return errRateLimited
	case rpcErr.Code >= http.StatusInternalServerError, rpcErr.Code == rpcNodeUnhealthyCode:
		return errServiceError
	default:
		return err
	}
}

func (c *client) GetMinimumBalanceForRentExemption(size uint64) (uint64, error) {
	var lamports uint64
	if err := c.call(&lamports, "getMinimumBalanceForRentExemption", size); err != nil {
		return 0, errors.Wrap(err, "getMinimumBalanceForRentExemption() failed to send request")
	}
	return lamports, nil
}

// GetLatestBlockhash returns a recent blockhash. A fetched hash is reused for
// a short, jittered window so that a burst of transactions shares one request.
func (c *client) GetLatestBlockhash() (Blockhash, error) {
	if hash, ok := c.blockhash.get(time.Now()); ok {
		return hash, nil
	}

	var resp struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := c.call(&resp, "getLatestBlockhash"); err != nil {
		return Blockhash{}, errors.Wrap(err, "getLatestBlockhash() failed to send request")
	}

	decoded, err := base58.Decode(resp.Value.Blockhash)
	if err != nil {
		return Blockhash{}, errors.Wrap(err, "invalid base58 encoded blockhash")
	}

	var hash Blockhash
	if len(decoded) != len(hash) {
		return Blockhash{}, errors.Errorf("invalid blockhash length: %d", len(decoded))
	}
	copy(hash[:], decoded)
	c.blockhash.set(hash, time.Now())

	return hash, nil
}

// SubmitTransaction sends txn with preflight simulation at commitment. A
// failed simulation is returned as an *InstructionError when an instruction
// failed, and as a *TransactionError otherwise.
func (c *client) SubmitTransaction(txn Transaction, commitment Commitment) (Signature, error) {
	sig := txn.Signatures[0]

	config := struct {
		SkipPreflight       bool       `json:"skipPreflight"`
		PreflightCommitment Commitment `json:"preflightCommitment"`
	}{
		PreflightCommitment: commitment,
	}

	var ignored string
	err := c.call(&ignored, "sendTransaction", base58.Encode(txn.Marshal()), config)
	if err == nil {
		return sig, nil
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return sig, errors.Wrap(err, "sendTransaction() failed to send request")
	}

	txErr, parseErr := ParseRPCError(rpcErr)
	switch {
	case parseErr != nil || txErr == nil:
		return sig, err
	case txErr.InstructionError() != nil:
		return sig, txErr.InstructionError()
	default:
		return sig, txErr
	}
}

func (c *client) GetAccountInfo(account ed25519.PublicKey, commitment Commitment) (AccountInfo, error) {
	var resp struct {
		Value *rpcAccount `json:"value"`
	}
	config := rpcQueryConfig{Commitment: commitment, Encoding: "base64"}
	if err := c.call(&resp, "getAccountInfo", base58.Encode(account), config); err != nil {
		return AccountInfo{}, errors.Wrap(err, "getAccountInfo() failed to send request")
	}

	if resp.Value == nil {
		return AccountInfo{}, ErrNoAccountInfo
	}

	owner, err := base58.Decode(resp.Value.Owner)
	if err != nil {
		return AccountInfo{}, errors.Wrap(err, "invalid base58 encoded owner")
	}
	if len(resp.Value.Data) == 0 {
		return AccountInfo{}, errors.New("missing account data")
	}
	data, err := resp.Value.data()
	if err != nil {
		return AccountInfo{}, err
	}

	return AccountInfo{
		Data:       data,
		Owner:      owner,
		Lamports:   resp.Value.Lamports,
		Executable: resp.Value.Executable,
	}, nil
}

func (c *client) GetProgramAccounts(program ed25519.PublicKey, commitment Commitment, query ProgramAccountsQuery) ([]ProgramAccount, error) {
	config := rpcQueryConfig{
		Commitment: commitment,
		Encoding:   "base64",
		DataSlice:  query.Slice,
	}
	if query.DataSize != nil {
		config.Filters = append(config.Filters, rpcFilter{DataSize: query.DataSize})
	}
	for _, m := range query.Memcmp {
		config.Filters = append(config.Filters, rpcFilter{
			Memcmp: &rpcMemcmp{Offset: m.Offset, Bytes: base58.Encode(m.Bytes)},
		})
	}

	var resp []struct {
		PubKey  string     `json:"pubkey"`
		Account rpcAccount `json:"account"`
	}
	if err := c.call(&resp, "getProgramAccounts", base58.Encode(program), config); err != nil {
		return nil, errors.Wrap(err, "getProgramAccounts() failed to send request")
	}

	accounts := make([]ProgramAccount, len(resp))
	for i, entry := range resp {
		key, err := base58.Decode(entry.PubKey)
		if err != nil {
			return nil, errors.Wrap(err, "invalid base58 encoded account")
		}
		data, err := entry.Account.data()
		if err != nil {
			return nil, err
		}
		accounts[i] = ProgramAccount{PublicKey: key, Data: data}
	}
	return accounts, nil
}

// GetSignatureStatus polls until the signature reaches commitment or its
// transaction fails. If the poll limit is hit first, ErrConfirmationTimeout
// is returned along with the last observed status.
func (c *client) GetSignatureStatus(sig Signature, commitment Commitment) (*SignatureStatus, error) {
	errPending := errors.New("commitment not reached")

	var status *SignatureStatus
	_, err := retry.Retry(
		func() error {
			statuses, err := c.GetSignatureStatuses([]Signature{sig})
			if err != nil {
				return err
			}

			status = statuses[0]
			switch {
			case status == nil:
				return ErrSignatureNotFound
			case status.ErrorResult != nil, status.Reached(commitment):
				return nil
			default:
				return errPending
			}
		},
		retry.RetriableErrors(ErrSignatureNotFound, errPending),
		retry.Limit(sigStatusPollLimit),
		retry.Backoff(backoff.Constant(PollRate), PollRate),
	)
	if errors.Is(err, errPending) {
		return status, ErrConfirmationTimeout
	}
	return status, err
}

// GetSignatureStatuses returns one status per signature, nil for signatures
// the node has no record of.
func (c *client) GetSignatureStatuses(sigs []Signature) ([]*SignatureStatus, error) {
	encoded := make([]string, len(sigs))
	for i, sig := range sigs {
		encoded[i] = base58.Encode(sig[:])
	}

	config := struct {
		SearchTransactionHistory bool `json:"searchTransactionHistory"`
	}{
		SearchTransactionHistory: true,
	}

	var resp struct {
		Value []*struct {
			Slot               uint64      `json:"slot"`
			Confirmations      *int        `json:"confirmations"`
			ConfirmationStatus string      `json:"confirmationStatus"`
			Err                interface{} `json:"err"`
		} `json:"value"`
	}
	if err := c.call(&resp, "getSignatureStatuses", encoded, config); err != nil {
		return nil, errors.Wrap(err, "getSignatureStatuses() failed to send request")
	}

	statuses := make([]*SignatureStatus, len(sigs))
	for i, v := range resp.Value {
		if v == nil || i >= len(statuses) {
			continue
		}

		txErr, err := ParseTransactionError(v.Err)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse transaction result")
		}

		statuses[i] = &SignatureStatus{
			Slot:               v.Slot,
			Confirmations:      v.Confirmations,
			ConfirmationStatus: v.ConfirmationStatus,
			ErrorResult:        txErr,
		}
	}
	return statuses, nil
}

// blockhashCache holds the most recently fetched blockhash until it expires.
type blockhashCache struct {
	mu      sync.Mutex
	hash    Blockhash
	expires time.Time
}

func (b *blockhashCache) get(now time.Time) (Blockhash, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.expires.IsZero() || now.After(b.expires) {
		return Blockhash{}, false
	}
	return b.hash, true
}

// set stores hash for blockhashReuse, jittered by up to 20% either way.
func (b *blockhashCache) set(hash Blockhash, now time.Time) {
	ttl := time.Duration(float64(blockhashReuse) * (0.8 + 0.4*rand.Float64()))

	b.mu.Lock()
	defer b.mu.Unlock()

	b.hash = hash
	b.expires = now.Add(ttl)
}
