package testutil

import (
	"bytes"
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/candy-drop/pkg/solana"
)

// SolanaClient is an in-memory solana.Client. Program accounts are stored
// with their full data and the query filters are applied on read.
type SolanaClient struct {
	sync.Mutex

	Accounts        map[string]solana.AccountInfo
	AccountErrors   map[string]error
	ProgramAccounts map[string][]solana.ProgramAccount
	ProgramErrors   map[string]error
	RentExemption   uint64
	Blockhash       solana.Blockhash

	// SubmitErrors and StatusErrors are keyed by the zero based index of the
	// submission they apply to.
	SubmitErrors map[int]error
	StatusErrors map[int]*solana.TransactionError

	Submitted   []solana.Transaction
	Queries     []solana.ProgramAccountsQuery
	RentQueries []uint64
}

func NewSolanaClient() *SolanaClient {
	return &SolanaClient{
		Accounts:        make(map[string]solana.AccountInfo),
		AccountErrors:   make(map[string]error),
		ProgramAccounts: make(map[string][]solana.ProgramAccount),
		ProgramErrors:   make(map[string]error),
		RentExemption:   1461600,
		Blockhash:       solana.Blockhash{1, 2, 3},
		SubmitErrors:    make(map[int]error),
		StatusErrors:    make(map[int]*solana.TransactionError),
	}
}

func (c *SolanaClient) SetAccount(address ed25519.PublicKey, info solana.AccountInfo) {
	c.Lock()
	defer c.Unlock()
	c.Accounts[base58.Encode(address)] = info
}

func (c *SolanaClient) AddProgramAccount(program ed25519.PublicKey, account solana.ProgramAccount) {
	c.Lock()
	defer c.Unlock()
	key := base58.Encode(program)
	c.ProgramAccounts[key] = append(c.ProgramAccounts[key], account)
}

func (c *SolanaClient) SubmittedTransactions() []solana.Transaction {
	c.Lock()
	defer c.Unlock()
	return append([]solana.Transaction(nil), c.Submitted...)
}

func (c *SolanaClient) GetAccountInfo(address ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	c.Lock()
	defer c.Unlock()

	key := base58.Encode(address)
	if err, ok := c.AccountErrors[key]; ok {
		return solana.AccountInfo{}, err
	}

	info, ok := c.Accounts[key]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return info, nil
}

func (c *SolanaClient) GetMinimumBalanceForRentExemption(size uint64) (uint64, error) {
	c.Lock()
	defer c.Unlock()
	c.RentQueries = append(c.RentQueries, size)
	return c.RentExemption, nil
}

func (c *SolanaClient) GetLatestBlockhash() (solana.Blockhash, error) {
	c.Lock()
	defer c.Unlock()
	return c.Blockhash, nil
}

func (c *SolanaClient) GetProgramAccounts(program ed25519.PublicKey, _ solana.Commitment, query solana.ProgramAccountsQuery) ([]solana.ProgramAccount, error) {
	c.Lock()
	defer c.Unlock()

	key := base58.Encode(program)
	c.Queries = append(c.Queries, query)
	if err, ok := c.ProgramErrors[key]; ok {
		return nil, err
	}

	var res []solana.ProgramAccount
	for _, account := range c.ProgramAccounts[key] {
		if !matchesQuery(account.Data, query) {
			continue
		}

		data := account.Data
		if query.Slice != nil {
			data = sliceData(data, query.Slice)
		}

		res = append(res, solana.ProgramAccount{
			PublicKey: account.PublicKey,
			Data:      append([]byte(nil), data...),
		})
	}
	return res, nil
}

func (c *SolanaClient) GetSignatureStatus(sig solana.Signature, _ solana.Commitment) (*solana.SignatureStatus, error) {
	statuses, err := c.GetSignatureStatuses([]solana.Signature{sig})
	if err != nil {
		return nil, err
	}
	if statuses[0] == nil {
		return nil, solana.ErrSignatureNotFound
	}
	return statuses[0], nil
}

func (c *SolanaClient) GetSignatureStatuses(sigs []solana.Signature) ([]*solana.SignatureStatus, error) {
	c.Lock()
	defer c.Unlock()

	statuses := make([]*solana.SignatureStatus, len(sigs))
	for i, sig := range sigs {
		for j, txn := range c.Submitted {
			if txn.Signatures[0] != sig {
				continue
			}

			statuses[i] = &solana.SignatureStatus{
				Slot:               uint64(j + 1),
				ConfirmationStatus: "finalized",
				ErrorResult:        c.StatusErrors[j],
			}
		}
	}
	return statuses, nil
}

func (c *SolanaClient) SubmitTransaction(txn solana.Transaction, _ solana.Commitment) (solana.Signature, error) {
	c.Lock()
	defer c.Unlock()

	if len(txn.Signatures) == 0 {
		return solana.Signature{}, errors.New("transaction has no signatures")
	}
	if !txn.IsSigned() {
		return txn.Signatures[0], solana.NewTransactionError(solana.TransactionErrorSignatureFailure)
	}

	index := len(c.Submitted)
	if err, ok := c.SubmitErrors[index]; ok {
		delete(c.SubmitErrors, index)
		return txn.Signatures[0], err
	}

	c.Submitted = append(c.Submitted, txn)
	return txn.Signatures[0], nil
}

func matchesQuery(data []byte, query solana.ProgramAccountsQuery) bool {
	if query.DataSize != nil && uint64(len(data)) != *query.DataSize {
		return false
	}

	for _, m := range query.Memcmp {
		end := int(m.Offset) + len(m.Bytes)
		if end > len(data) || !bytes.Equal(data[m.Offset:end], m.Bytes) {
			return false
		}
	}
	return true
}

func sliceData(data []byte, slice *solana.DataSlice) []byte {
	start := int(slice.Offset)
	if start > len(data) {
		return nil
	}

	end := start + int(slice.Length)
	if end > len(data) {
		end = len(data)
	}
	return data[start:end]
}
