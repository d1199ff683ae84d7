package app

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

// Normalizer converts loosely-typed provider records into canonical events.
// It is the only component allowed to touch a RawRecord; nothing
// loosely-typed flows past it.
type Normalizer struct {
	poolByContract map[string]domain.PoolID
}

// NewNormalizer builds a normalizer resolving pool contracts through the
// configured pool registry.
func NewNormalizer(cfg domain.AnalysisConfig) *Normalizer {
	return &Normalizer{poolByContract: cfg.PoolByContract()}
}

// Normalize converts the raw batch. Malformed records are dropped, counted
// and reported as findings; they never fail the batch. Exact-duplicate tx
// hashes are collapsed so re-queried inputs stay idempotent. Output slices
// are sorted ascending by (BlockTime, TxHash).
func (n *Normalizer) Normalize(records []domain.RawRecord) (domain.EventBatch, []domain.Finding, domain.BatchStats) {
	var (
		batch    domain.EventBatch
		findings []domain.Finding
		stats    = domain.BatchStats{RawRecords: len(records)}
		seen     = make(map[domain.TxID]struct{}, len(records))
	)

	for i, rec := range records {
		switch strings.ToLower(strings.TrimSpace(rec.Type)) {
		case "deposit":
			dep, err := n.normalizeDeposit(rec)
			if err != nil {
				stats.Malformed++
				findings = append(findings, malformedFinding(rec, i, err))
				continue
			}
			if _, dup := seen[dep.TxHash]; dup {
				stats.Deduplicated++
				continue
			}
			seen[dep.TxHash] = struct{}{}
			batch.Deposits = append(batch.Deposits, dep)
		case "withdrawal", "withdraw":
			wit, err := n.normalizeWithdrawal(rec)
			if err != nil {
				stats.Malformed++
				findings = append(findings, malformedFinding(rec, i, err))
				continue
			}
			if _, dup := seen[wit.TxHash]; dup {
				stats.Deduplicated++
				continue
			}
			seen[wit.TxHash] = struct{}{}
			batch.Withdrawals = append(batch.Withdrawals, wit)
		default:
			stats.Malformed++
			findings = append(findings, malformedFinding(rec, i, fmt.Errorf("unknown record type %q", rec.Type)))
		}
	}

	sort.Slice(batch.Deposits, func(i, j int) bool {
		return lessEvent(batch.Deposits[i].Event, batch.Deposits[j].Event)
	})
	sort.Slice(batch.Withdrawals, func(i, j int) bool {
		return lessEvent(batch.Withdrawals[i].Event, batch.Withdrawals[j].Event)
	})

	stats.Normalized = batch.Len()
	return batch, findings, stats
}

func lessEvent(a, b domain.Event) bool {
	if a.BlockTime != b.BlockTime {
		return a.BlockTime < b.BlockTime
	}
	return a.TxHash.String() < b.TxHash.String()
}

func malformedFinding(rec domain.RawRecord, idx int, err error) domain.Finding {
	f := domain.Finding{
		Kind:   domain.FindingMalformedEvent,
		PoolID: domain.PoolID(rec.Pool),
		Detail: fmt.Sprintf("record %d dropped: %v", idx, err),
	}
	if rec.TxHash != "" {
		f.TxHashes = []string{rec.TxHash}
	}
	return f
}

func (n *Normalizer) normalizeCommon(rec domain.RawRecord) (domain.Event, error) {
	var ev domain.Event

	if rec.Pool == "" {
		return ev, fmt.Errorf("missing pool")
	}
	ev.PoolID = n.resolvePool(rec.Pool)

	txID, err := domain.ParseTxID(rec.TxHash)
	if err != nil {
		return ev, fmt.Errorf("tx hash: %w", err)
	}
	ev.TxHash = txID

	ts, err := parseBlockTime(rec.BlockTime)
	if err != nil {
		return ev, fmt.Errorf("block time: %w", err)
	}
	ev.BlockTime = ts

	addr, err := domain.ParseAddress(rec.Address)
	if err != nil {
		return ev, fmt.Errorf("address: %w", err)
	}
	ev.Address = addr

	amount, err := parseAmount(rec.Amount)
	if err != nil {
		return ev, fmt.Errorf("amount: %w", err)
	}
	ev.Amount = amount

	return ev, nil
}

func (n *Normalizer) normalizeDeposit(rec domain.RawRecord) (domain.DepositEvent, error) {
	var dep domain.DepositEvent

	ev, err := n.normalizeCommon(rec)
	if err != nil {
		return dep, err
	}
	dep.Event = ev

	commitment, err := domain.ParseHash32(rec.Commitment)
	if err != nil {
		return dep, fmt.Errorf("commitment: %w", err)
	}
	dep.Commitment = commitment
	return dep, nil
}

func (n *Normalizer) normalizeWithdrawal(rec domain.RawRecord) (domain.WithdrawalEvent, error) {
	var wit domain.WithdrawalEvent

	ev, err := n.normalizeCommon(rec)
	if err != nil {
		return wit, err
	}
	wit.Event = ev

	nullifier, err := domain.ParseHash32(rec.Nullifier)
	if err != nil {
		return wit, fmt.Errorf("nullifier: %w", err)
	}
	wit.Nullifier = nullifier

	// Recipient defaults to the submitting account when the provider leaves
	// it out (direct withdrawal, no relayer).
	if rec.Recipient != "" {
		recipient, err := domain.ParseAddress(rec.Recipient)
		if err != nil {
			return wit, fmt.Errorf("recipient: %w", err)
		}
		wit.Recipient = recipient
	} else {
		wit.Recipient = ev.Address
	}

	if rec.Relayer != "" {
		relayer, err := domain.ParseAddress(rec.Relayer)
		if err != nil {
			return wit, fmt.Errorf("relayer: %w", err)
		}
		wit.Relayer = relayer
	}

	if rec.Fee != "" {
		fee, err := parseAmount(rec.Fee)
		if err != nil {
			return wit, fmt.Errorf("fee: %w", err)
		}
		wit.Fee = fee
	} else {
		wit.Fee = decimal.Zero
	}

	return wit, nil
}

func (n *Normalizer) resolvePool(raw string) domain.PoolID {
	key := strings.ToLower(strings.TrimSpace(raw))
	if id, ok := n.poolByContract[key]; ok {
		return id
	}
	return domain.PoolID(strings.TrimSpace(raw))
}

// parseBlockTime accepts epoch seconds as JSON number, integer/float string,
// or an RFC3339 timestamp. Providers disagree on all three.
func parseBlockTime(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing")
	case float64:
		return int64(t), nil
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, fmt.Errorf("missing")
		}
		if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
			return sec, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), nil
		}
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts.Unix(), nil
		}
		// Bitquery emits "2006-01-02 15:04:05" without a zone marker.
		if ts, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
			return ts.Unix(), nil
		}
		return 0, fmt.Errorf("unrecognized timestamp %q", s)
	default:
		return 0, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

// parseAmount accepts decimal strings and 0x-prefixed hex. Negative and
// non-numeric amounts are malformed.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("missing")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return decimal.Zero, fmt.Errorf("invalid hex amount %q", s)
		}
		return decimal.NewFromBigInt(n, 0), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %q", s)
	}
	return d, nil
}
