package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"slices"
	"strings"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
)

const (
	// MaxTransactionSize taken from: https://github.com/solana-labs/solana/blob/39b3ac6a8d29e14faa1de73d8b46d390ad41797b/sdk/src/packet.rs#L9-L13
	MaxTransactionSize = 1232
)

type Signature [ed25519.SignatureSize]byte
type Blockhash [sha256.Size]byte

type Header struct {
	NumSignatures     byte
	NumReadonlySigned byte
	NumReadOnly       byte
}

// Message is a legacy transaction message. Versioned messages and address
// lookup tables are not supported.
type Message struct {
	Header          Header
	Accounts        []ed25519.PublicKey
	RecentBlockhash Blockhash
	Instructions    []CompiledInstruction
}

type Transaction struct {
	Signatures []Signature
	Message    Message
}

// NewTransaction compiles the instructions into a legacy transaction paid for
// by payer. Signatures are left empty until Sign is called.
//
// Accounts are deduplicated with their permissions merged, then ordered: the
// payer, writable signers, read-only signers, writable accounts, read-only
// accounts and finally the invoked programs.
func NewTransaction(payer ed25519.PublicKey, instructions ...Instruction) Transaction {
	accounts := collectAccounts(payer, instructions)
	slices.SortFunc(accounts, compareAccountMeta)

	m := Message{
		Accounts:     make([]ed25519.PublicKey, len(accounts)),
		Instructions: make([]CompiledInstruction, len(instructions)),
	}

	positions := make(map[string]byte, len(accounts))
	for i, account := range accounts {
		positions[string(account.PublicKey)] = byte(i)

		m.Accounts[i] = account.PublicKey
		if len(account.PublicKey) == 0 {
			m.Accounts[i] = make(ed25519.PublicKey, ed25519.PublicKeySize)
		}

		switch {
		case account.IsSigner && !account.IsWritable:
			m.Header.NumSignatures++
			m.Header.NumReadonlySigned++
		case account.IsSigner:
			m.Header.NumSignatures++
		case !account.IsWritable:
			m.Header.NumReadOnly++
		}
	}

	for i, ix := range instructions {
		compiled := CompiledInstruction{
			ProgramIndex: positions[string(ix.Program)],
			Accounts:     make([]byte, len(ix.Accounts)),
			Data:         ix.Data,
		}
		for j, account := range ix.Accounts {
			compiled.Accounts[j] = positions[string(account.PublicKey)]
		}
		m.Instructions[i] = compiled
	}

	return Transaction{
		Signatures: make([]Signature, m.Header.NumSignatures),
		Message:    m,
	}
}

// collectAccounts lists every account the instructions reference, with the
// payer first, merging repeated keys.
func collectAccounts(payer ed25519.PublicKey, instructions []Instruction) []AccountMeta {
	all := []AccountMeta{{PublicKey: payer, IsSigner: true, IsWritable: true, isPayer: true}}
	for _, ix := range instructions {
		all = append(all, AccountMeta{PublicKey: ix.Program, isProgram: true})
		all = append(all, ix.Accounts...)
	}
	return filterUnique(all)
}

func (t *Transaction) Signature() []byte {
	return t.Signatures[0][:]
}

// String renders the transaction in a multi-line form for debug logging.
func (t *Transaction) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "signatures (%d):\n", len(t.Signatures))
	for i, s := range t.Signatures {
		fmt.Fprintf(&sb, "  [%d] %s\n", i, base58.Encode(s[:]))
	}

	h := t.Message.Header
	fmt.Fprintf(&sb, "header: signatures=%d readonly_signed=%d readonly=%d\n", h.NumSignatures, h.NumReadonlySigned, h.NumReadOnly)

	fmt.Fprintf(&sb, "accounts (%d):\n", len(t.Message.Accounts))
	for i, a := range t.Message.Accounts {
		fmt.Fprintf(&sb, "  [%d] %s\n", i, base58.Encode(a))
	}

	fmt.Fprintf(&sb, "instructions (%d):\n", len(t.Message.Instructions))
	for i, ix := range t.Message.Instructions {
		fmt.Fprintf(&sb, "  [%d] program=%d accounts=%v data=%x\n", i, ix.ProgramIndex, ix.Accounts, ix.Data)
	}

	return sb.String()
}

// RequiredSigners returns the accounts whose signatures the message requires,
// payer first.
func (t *Transaction) RequiredSigners() []ed25519.PublicKey {
	return t.Message.Accounts[:t.Message.Header.NumSignatures]
}

// IsSigned reports whether every required signature has been provided.
func (t *Transaction) IsSigned() bool {
	for _, s := range t.Signatures {
		if s == (Signature{}) {
			return false
		}
	}
	return true
}

func (t *Transaction) SetBlockhash(bh Blockhash) {
	t.Message.RecentBlockhash = bh
}

func (t *Transaction) Sign(signers ...ed25519.PrivateKey) error {
	messageBytes := t.Message.Marshal()

	for _, s := range signers {
		pub := s.Public().(ed25519.PublicKey)
		index := indexOf(t.Message.Accounts, pub)
		if index < 0 {
			return errors.Errorf("signing account %s is not in the account list", base58.Encode(pub))
		}
		if index >= len(t.Signatures) {
			return errors.Errorf("signing account %s is not in the list of signers", base58.Encode(pub))
		}

		copy(t.Signatures[index][:], ed25519.Sign(s, messageBytes))
	}

	return nil
}

// filterUnique merges repeated accounts, keeping the first occurrence's
// position and the union of their permissions.
func filterUnique(accounts []AccountMeta) []AccountMeta {
	filtered := make([]AccountMeta, 0, len(accounts))
	seen := make(map[string]int, len(accounts))

	for _, account := range accounts {
		key := string(account.PublicKey)

		i, ok := seen[key]
		if !ok {
			seen[key] = len(filtered)
			filtered = append(filtered, account)
			continue
		}

		filtered[i].IsSigner = filtered[i].IsSigner || account.IsSigner
		filtered[i].IsWritable = filtered[i].IsWritable || account.IsWritable
		filtered[i].isPayer = filtered[i].isPayer || account.isPayer
	}

	return filtered
}

func indexOf(keys []ed25519.PublicKey, key ed25519.PublicKey) int {
	return slices.IndexFunc(keys, func(k ed25519.PublicKey) bool {
		return bytes.Equal(k, key)
	})
}
