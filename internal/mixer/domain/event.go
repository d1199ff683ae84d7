package domain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Address is a 20-byte account address.
type Address [20]byte

// String returns the 0x-prefixed lowercase hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the zero address.
// Withdrawals without a relayer carry the zero address in the relayer slot.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalJSON serializes the address as its hex string form.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON parses the 0x-prefixed hex string form.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress decodes a 0x-prefixed 40-hex-char address string.
// Casing is irrelevant; providers are inconsistent about it.
func ParseAddress(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != 40 {
		return a, fmt.Errorf("address must be 20 bytes, got %q", s)
	}
	raw, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return a, fmt.Errorf("invalid address hex: %w", err)
	}
	copy(a[:], raw)
	return a, nil
}

// TxID is a 32-byte transaction hash.
type TxID [32]byte

func (t TxID) String() string {
	return "0x" + hex.EncodeToString(t[:])
}

func (t TxID) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TxID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTxID(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTxID decodes a 0x-prefixed 64-hex-char transaction hash.
func ParseTxID(s string) (TxID, error) {
	var t TxID
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != 64 {
		return t, fmt.Errorf("tx hash must be 32 bytes, got %q", s)
	}
	raw, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return t, fmt.Errorf("invalid tx hash hex: %w", err)
	}
	copy(t[:], raw)
	return t, nil
}

// Hash32 is an opaque 32-byte identifier: a deposit commitment or a
// withdrawal nullifier. Neither is linkable to the other on-chain.
type Hash32 [32]byte

func (h Hash32) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash32) IsZero() bool {
	return h == Hash32{}
}

func (h Hash32) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash32) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHash32(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash32 decodes a 0x-prefixed 64-hex-char opaque identifier.
func ParseHash32(s string) (Hash32, error) {
	var h Hash32
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != 64 {
		return h, fmt.Errorf("identifier must be 32 bytes, got %q", s)
	}
	raw, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return h, fmt.Errorf("invalid identifier hex: %w", err)
	}
	copy(h[:], raw)
	return h, nil
}

// PoolID identifies one fixed-denomination mixing instance.
// Anonymity sets never cross pools, so nothing is comparable across PoolIDs.
type PoolID string

// RawRecord is one loosely-typed provider record, exactly as the indexer
// hands it over. Every field is optional at this stage; normalization is the
// only place allowed to look at a RawRecord.
type RawRecord struct {
	Type       string `json:"type"` // "deposit" or "withdrawal"
	Pool       string `json:"pool"` // pool id or pool contract address
	TxHash     string `json:"tx_hash"`
	BlockTime  any    `json:"block_time"` // epoch seconds (number or string) or RFC3339
	Address    string `json:"address"`    // submitting account
	Amount     string `json:"amount"`     // decimal or 0x-hex string
	Commitment string `json:"commitment,omitempty"`
	Nullifier  string `json:"nullifier,omitempty"`
	Recipient  string `json:"recipient,omitempty"`
	Relayer    string `json:"relayer,omitempty"`
	Fee        string `json:"fee,omitempty"`
}

// Event is the canonical form shared by deposits and withdrawals.
type Event struct {
	PoolID    PoolID          `json:"pool_id"`
	TxHash    TxID            `json:"tx_hash"`
	BlockTime int64           `json:"block_time"` // unix seconds
	Address   Address         `json:"address"`
	Amount    decimal.Decimal `json:"amount"`
}

// DepositEvent is a canonical deposit. The commitment is unique per pool;
// a repeat within one pool means corrupted input data.
type DepositEvent struct {
	Event
	Commitment Hash32 `json:"commitment"`
}

// WithdrawalEvent is a canonical withdrawal. The nullifier is unique per
// pool; a repeat within one pool is a double-spend or replay signal and is
// never legitimate. Recipient may differ from Address when a relayer
// submitted the transaction.
type WithdrawalEvent struct {
	Event
	Nullifier Hash32          `json:"nullifier"`
	Recipient Address         `json:"recipient"`
	Relayer   Address         `json:"relayer,omitempty"` // zero address when none
	Fee       decimal.Decimal `json:"fee"`
}

// HasRelayer reports whether a nonzero relayer submitted the withdrawal.
func (w WithdrawalEvent) HasRelayer() bool {
	return !w.Relayer.IsZero()
}

// EventBatch is the canonical, normalized output of one normalization pass.
// Both slices are sorted ascending by (BlockTime, TxHash).
type EventBatch struct {
	Deposits    []DepositEvent    `json:"deposits"`
	Withdrawals []WithdrawalEvent `json:"withdrawals"`
}

// Len returns the total number of canonical events in the batch.
func (b EventBatch) Len() int {
	return len(b.Deposits) + len(b.Withdrawals)
}
