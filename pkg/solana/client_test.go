package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"
)

type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     json.RawMessage   `json:"id"`
}

// rpcServer answers JSON-RPC calls by method name and records every request.
type rpcServer struct {
	t *testing.T

	sync.Mutex
	handlers map[string]func(params []json.RawMessage) (result interface{}, rpcErr interface{})
	requests []rpcRequest
}

func newRPCServer(t *testing.T) (*rpcServer, Client) {
	s := &rpcServer{
		t:        t,
		handlers: make(map[string]func([]json.RawMessage) (interface{}, interface{})),
	}

	server := httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(server.Close)

	return s, New(server.URL)
}

func (s *rpcServer) handle(method string, handler func(params []json.RawMessage) (interface{}, interface{})) {
	s.Lock()
	defer s.Unlock()
	s.handlers[method] = handler
}

func (s *rpcServer) calls(method string) []rpcRequest {
	s.Lock()
	defer s.Unlock()

	var matched []rpcRequest
	for _, r := range s.requests {
		if r.Method == method {
			matched = append(matched, r)
		}
	}
	return matched
}

func (s *rpcServer) serve(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	require.NoError(s.t, json.NewDecoder(r.Body).Decode(&req))

	s.Lock()
	s.requests = append(s.requests, req)
	handler, ok := s.handlers[req.Method]
	s.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
	} else if result, rpcErr := handler(req.Params); rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	require.NoError(s.t, json.NewEncoder(w).Encode(resp))
}

func TestClient_GetAccountInfo(t *testing.T) {
	server, client := newRPCServer(t)

	account := make(ed25519.PublicKey, ed25519.PublicKeySize)
	account[0] = 1
	owner := make(ed25519.PublicKey, ed25519.PublicKeySize)
	owner[0] = 2

	server.handle("getAccountInfo", func(params []json.RawMessage) (interface{}, interface{}) {
		var requested string
		require.NoError(t, json.Unmarshal(params[0], &requested))
		if requested != base58.Encode(account) {
			return map[string]interface{}{"value": nil}, nil
		}

		return map[string]interface{}{
			"value": map[string]interface{}{
				"lamports":   1461600,
				"owner":      base58.Encode(owner),
				"data":       []string{base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), "base64"},
				"executable": false,
			},
		}, nil
	})

	info, err := client.GetAccountInfo(account, CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, info.Data)
	assert.Equal(t, owner, info.Owner)
	assert.EqualValues(t, 1461600, info.Lamports)

	var config map[string]string
	require.NoError(t, json.Unmarshal(server.calls("getAccountInfo")[0].Params[1], &config))
	assert.Equal(t, "confirmed", config["commitment"])
	assert.Equal(t, "base64", config["encoding"])

	_, err = client.GetAccountInfo(owner, CommitmentConfirmed)
	assert.Equal(t, ErrNoAccountInfo, err)
}

func TestClient_GetProgramAccounts(t *testing.T) {
	server, client := newRPCServer(t)

	program := make(ed25519.PublicKey, ed25519.PublicKeySize)
	creator := bytes.Repeat([]byte{7}, ed25519.PublicKeySize)
	mint := bytes.Repeat([]byte{9}, ed25519.PublicKeySize)
	account := bytes.Repeat([]byte{3}, ed25519.PublicKeySize)

	server.handle("getProgramAccounts", func(params []json.RawMessage) (interface{}, interface{}) {
		return []interface{}{
			map[string]interface{}{
				"pubkey": base58.Encode(account),
				"account": map[string]interface{}{
					"data": []string{base64.StdEncoding.EncodeToString(mint), "base64"},
				},
			},
		}, nil
	})

	dataSize := uint64(679)
	accounts, err := client.GetProgramAccounts(program, CommitmentFinalized, ProgramAccountsQuery{
		DataSize: &dataSize,
		Memcmp:   []MemcmpFilter{{Offset: 326, Bytes: creator}},
		Slice:    &DataSlice{Offset: 33, Length: 32},
	})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.EqualValues(t, account, accounts[0].PublicKey)
	assert.Equal(t, mint, accounts[0].Data)

	calls := server.calls("getProgramAccounts")
	require.Len(t, calls, 1)

	var config struct {
		Commitment string `json:"commitment"`
		Encoding   string `json:"encoding"`
		Filters    []struct {
			DataSize *uint64 `json:"dataSize"`
			Memcmp   *struct {
				Offset uint   `json:"offset"`
				Bytes  string `json:"bytes"`
			} `json:"memcmp"`
		} `json:"filters"`
		DataSlice struct {
			Offset uint `json:"offset"`
			Length uint `json:"length"`
		} `json:"dataSlice"`
	}
	require.NoError(t, json.Unmarshal(calls[0].Params[1], &config))
	assert.Equal(t, "finalized", config.Commitment)
	require.Len(t, config.Filters, 2)
	assert.EqualValues(t, 679, *config.Filters[0].DataSize)
	assert.EqualValues(t, 326, config.Filters[1].Memcmp.Offset)
	assert.Equal(t, base58.Encode(creator), config.Filters[1].Memcmp.Bytes)
	assert.EqualValues(t, 33, config.DataSlice.Offset)
	assert.EqualValues(t, 32, config.DataSlice.Length)
}

func TestClient_GetLatestBlockhash_Reused(t *testing.T) {
	server, client := newRPCServer(t)

	expected := Blockhash{1, 2, 3}
	server.handle("getLatestBlockhash", func([]json.RawMessage) (interface{}, interface{}) {
		return map[string]interface{}{
			"value": map[string]interface{}{"blockhash": base58.Encode(expected[:])},
		}, nil
	})

	for i := 0; i < 3; i++ {
		actual, err := client.GetLatestBlockhash()
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}
	assert.Len(t, server.calls("getLatestBlockhash"), 1)
}

func TestClient_SubmitTransaction_SimulationFailure(t *testing.T) {
	server, client := newRPCServer(t)

	server.handle("sendTransaction", func([]json.RawMessage) (interface{}, interface{}) {
		return nil, map[string]interface{}{
			"code":    -32002,
			"message": "Transaction simulation failed",
			"data": map[string]interface{}{
				"err": map[string]interface{}{
					"InstructionError": []interface{}{4, map[string]interface{}{"Custom": 6010}},
				},
			},
		}
	})

	txn := signedTransaction(t)
	sig, err := client.SubmitTransaction(txn, CommitmentConfirmed)
	assert.Equal(t, txn.Signatures[0], sig)

	var instructionErr *InstructionError
	require.True(t, errors.As(err, &instructionErr))
	assert.Equal(t, 4, instructionErr.Index)

	var custom CustomError
	require.True(t, errors.As(err, &custom))
	assert.EqualValues(t, 6010, custom)

	var encoded string
	require.NoError(t, json.Unmarshal(server.calls("sendTransaction")[0].Params[0], &encoded))
	raw, err := base58.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, txn.Marshal(), raw)
}

func TestClient_SubmitTransaction_Success(t *testing.T) {
	server, client := newRPCServer(t)

	txn := signedTransaction(t)
	server.handle("sendTransaction", func([]json.RawMessage) (interface{}, interface{}) {
		return base58.Encode(txn.Signatures[0][:]), nil
	})

	sig, err := client.SubmitTransaction(txn, CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, txn.Signatures[0], sig)
}

func TestClient_GetSignatureStatuses(t *testing.T) {
	server, client := newRPCServer(t)

	server.handle("getSignatureStatuses", func([]json.RawMessage) (interface{}, interface{}) {
		return map[string]interface{}{
			"value": []interface{}{
				map[string]interface{}{"slot": 10, "confirmations": 1, "confirmationStatus": "confirmed", "err": nil},
				nil,
				map[string]interface{}{
					"slot":               11,
					"confirmations":      nil,
					"confirmationStatus": "finalized",
					"err":                map[string]interface{}{"InstructionError": []interface{}{0, "MissingRequiredSignature"}},
				},
			},
		}, nil
	})

	statuses, err := client.GetSignatureStatuses([]Signature{{1}, {2}, {3}})
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.True(t, statuses[0].Confirmed())
	assert.False(t, statuses[0].Finalized())
	assert.Nil(t, statuses[0].ErrorResult)

	assert.Nil(t, statuses[1])

	assert.True(t, statuses[2].Finalized())
	require.NotNil(t, statuses[2].ErrorResult)
	assert.Equal(t, InstructionErrorMissingRequiredSignature, statuses[2].ErrorResult.InstructionError().ErrorKey())

	status, err := client.GetSignatureStatus(Signature{1}, CommitmentConfirmed)
	require.NoError(t, err)
	assert.EqualValues(t, 10, status.Slot)
}

func TestSignatureStatus_Reached(t *testing.T) {
	zero, one := 0, 1

	for _, tc := range []struct {
		status    SignatureStatus
		confirmed bool
		finalized bool
	}{
		{status: SignatureStatus{Confirmations: &zero}},
		{status: SignatureStatus{Confirmations: &zero, ConfirmationStatus: confirmationStatusProcessed}},
		{status: SignatureStatus{Confirmations: &one}, confirmed: true},
		{status: SignatureStatus{Confirmations: &zero, ConfirmationStatus: confirmationStatusConfirmed}, confirmed: true},
		{status: SignatureStatus{Confirmations: &zero, ConfirmationStatus: confirmationStatusFinalized}, confirmed: true, finalized: true},
		{status: SignatureStatus{}, confirmed: true, finalized: true},
	} {
		assert.True(t, tc.status.Reached(CommitmentProcessed))
		assert.Equal(t, tc.confirmed, tc.status.Reached(CommitmentConfirmed))
		assert.Equal(t, tc.finalized, tc.status.Reached(CommitmentFinalized))
	}
}

func TestCommitmentFromString(t *testing.T) {
	for level, expected := range map[string]Commitment{
		"processed": CommitmentProcessed,
		"confirmed": CommitmentConfirmed,
		"finalized": CommitmentFinalized,
	} {
		actual, err := CommitmentFromString(level)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}

	_, err := CommitmentFromString("max")
	assert.Error(t, err)
}

func signedTransaction(t *testing.T) Transaction {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	program, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	txn := NewTransaction(pub, NewInstruction(program, []byte{1}, NewAccountMeta(pub, true)))
	txn.SetBlockhash(Blockhash{9})
	require.NoError(t, txn.Sign(priv))
	return txn
}

func TestClient_Classify(t *testing.T) {
	c := &client{log: logrus.NewEntry(logrus.StandardLogger())}

	assert.Equal(t, errRateLimited, c.classify("getAccountInfo", &jsonrpc.RPCError{Code: http.StatusTooManyRequests}))
	assert.Equal(t, errServiceError, c.classify("getAccountInfo", &jsonrpc.RPCError{Code: http.StatusBadGateway}))
	assert.Equal(t, errServiceError, c.classify("getAccountInfo", &jsonrpc.RPCError{Code: rpcNodeUnhealthyCode}))

	invalidParams := &jsonrpc.RPCError{Code: -32602}
	assert.Equal(t, invalidParams, c.classify("getAccountInfo", invalidParams))

	transport := errors.New("connection refused")
	assert.Equal(t, transport, c.classify("getAccountInfo", transport))
	assert.NoError(t, c.classify("getAccountInfo", nil))
}

func TestBlockhashCache(t *testing.T) {
	var cache blockhashCache
	now := time.Now()

	_, ok := cache.get(now)
	assert.False(t, ok)

	cache.set(Blockhash{4}, now)
	hash, ok := cache.get(now.Add(blockhashReuse * 7 / 10))
	require.True(t, ok)
	assert.Equal(t, Blockhash{4}, hash)

	_, ok = cache.get(now.Add(blockhashReuse * 13 / 10))
	assert.False(t, ok)
}
