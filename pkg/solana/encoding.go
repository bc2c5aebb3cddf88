package solana

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/candy-drop/pkg/solana/shortvec"
)

func (s Signature) ToBase58() string {
	return base58.Encode(s[:])
}

// Marshal encodes the transaction in the legacy wire format. Lengths beyond
// the compact-u16 range cannot occur for transactions within
// MaxTransactionSize, so encoding errors are not reported.
func (t Transaction) Marshal() []byte {
	b := make([]byte, 0, MaxTransactionSize)

	b, _ = shortvec.AppendLen(b, len(t.Signatures))
	for _, s := range t.Signatures {
		b = append(b, s[:]...)
	}

	return append(b, t.Message.Marshal()...)
}

func (t *Transaction) Unmarshal(b []byte) error {
	r := &wireReader{buf: b}

	count := r.len("signature count")
	t.Signatures = make([]Signature, 0, count)
	for i := 0; i < count && r.err == nil; i++ {
		var s Signature
		copy(s[:], r.bytes(len(s), "signature"))
		t.Signatures = append(t.Signatures, s)
	}
	if r.err != nil {
		return r.err
	}

	return t.Message.Unmarshal(r.buf)
}

func (m Message) Marshal() []byte {
	b := []byte{m.Header.NumSignatures, m.Header.NumReadonlySigned, m.Header.NumReadOnly}

	b, _ = shortvec.AppendLen(b, len(m.Accounts))
	for _, a := range m.Accounts {
		b = append(b, a...)
	}

	b = append(b, m.RecentBlockhash[:]...)

	b, _ = shortvec.AppendLen(b, len(m.Instructions))
	for _, ix := range m.Instructions {
		b = append(b, ix.ProgramIndex)
		b, _ = shortvec.AppendLen(b, len(ix.Accounts))
		b = append(b, ix.Accounts...)
		b, _ = shortvec.AppendLen(b, len(ix.Data))
		b = append(b, ix.Data...)
	}

	return b
}

// Unmarshal decodes a legacy message. Versioned messages are rejected.
func (m *Message) Unmarshal(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty message")
	}
	if b[0]&0x80 != 0 {
		return errors.New("versioned messages not supported")
	}

	r := &wireReader{buf: b}

	m.Header.NumSignatures = r.byte("num signatures")
	m.Header.NumReadonlySigned = r.byte("num readonly signed")
	m.Header.NumReadOnly = r.byte("num readonly")

	accountCount := r.len("account count")
	m.Accounts = make([]ed25519.PublicKey, 0, accountCount)
	for i := 0; i < accountCount && r.err == nil; i++ {
		key := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(key, r.bytes(ed25519.PublicKeySize, "account"))
		m.Accounts = append(m.Accounts, key)
	}

	copy(m.RecentBlockhash[:], r.bytes(len(m.RecentBlockhash), "recent blockhash"))

	instructionCount := r.len("instruction count")
	m.Instructions = make([]CompiledInstruction, 0, instructionCount)
	for i := 0; i < instructionCount && r.err == nil; i++ {
		var ix CompiledInstruction
		ix.ProgramIndex = r.byte("program index")
		ix.Accounts = append([]byte{}, r.bytes(r.len("instruction account count"), "instruction accounts")...)
		ix.Data = append([]byte{}, r.bytes(r.len("instruction data length"), "instruction data")...)
		if r.err != nil {
			break
		}

		if int(ix.ProgramIndex) >= len(m.Accounts) {
			return errors.Errorf("instruction %d: program index %d out of range", i, ix.ProgramIndex)
		}
		for _, index := range ix.Accounts {
			if int(index) >= len(m.Accounts) {
				return errors.Errorf("instruction %d: account index %d out of range", i, index)
			}
		}

		m.Instructions = append(m.Instructions, ix)
	}

	return r.err
}

// wireReader consumes a byte slice front to back, recording the first
// failure. Reads after a failure return zero values.
type wireReader struct {
	buf []byte
	err error
}

func (r *wireReader) byte(field string) byte {
	b := r.bytes(1, field)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *wireReader) len(field string) int {
	if r.err != nil {
		return 0
	}

	n, size, err := shortvec.ReadLen(r.buf)
	if err != nil {
		r.err = errors.Wrapf(err, "failed to read %s", field)
		return 0
	}
	r.buf = r.buf[size:]
	return n
}

func (r *wireReader) bytes(n int, field string) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf) < n {
		r.err = errors.Errorf("failed to read %s: need %d bytes, have %d", field, n, len(r.buf))
		return nil
	}

	b := r.buf[:n]
	r.buf = r.buf[n:]
	return b
}
