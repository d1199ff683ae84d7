package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

func rawDeposit(pool string, tx byte, at any) domain.RawRecord {
	return domain.RawRecord{
		Type:       "deposit",
		Pool:       pool,
		TxHash:     txid(tx).String(),
		BlockTime:  at,
		Address:    addr(tx).String(),
		Amount:     "1",
		Commitment: hash(tx).String(),
	}
}

func rawWithdrawal(pool string, tx byte, at any) domain.RawRecord {
	return domain.RawRecord{
		Type:      "withdrawal",
		Pool:      pool,
		TxHash:    txid(tx).String(),
		BlockTime: at,
		Address:   addr(tx).String(),
		Amount:    "1",
		Nullifier: hash(tx).String(),
	}
}

func TestNormalizeBasic(t *testing.T) {
	n := NewNormalizer(testCfg())

	w := rawWithdrawal("eth-1", 2, int64(150))
	w.Recipient = addr(7).String()
	w.Relayer = addr(8).String()
	w.Fee = "0.3"

	batch, findings, stats := n.Normalize([]domain.RawRecord{
		w,
		rawDeposit("eth-1", 1, int64(100)),
	})

	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %v", findings)
	}
	if stats.Normalized != 2 || stats.Malformed != 0 || stats.RawRecords != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(batch.Deposits) != 1 || len(batch.Withdrawals) != 1 {
		t.Fatalf("batch sizes = %d/%d", len(batch.Deposits), len(batch.Withdrawals))
	}

	d := batch.Deposits[0]
	if d.PoolID != "eth-1" || d.BlockTime != 100 || d.TxHash != txid(1) || d.Commitment != hash(1) {
		t.Errorf("deposit = %+v", d)
	}
	got := batch.Withdrawals[0]
	if got.Recipient != addr(7) || got.Relayer != addr(8) || !got.Fee.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("withdrawal = %+v", got)
	}
	if !got.HasRelayer() {
		t.Error("expected HasRelayer")
	}
}

func TestNormalizeRecipientDefaultsToSubmitter(t *testing.T) {
	n := NewNormalizer(testCfg())
	batch, _, _ := n.Normalize([]domain.RawRecord{rawWithdrawal("eth-1", 2, int64(150))})
	if len(batch.Withdrawals) != 1 {
		t.Fatalf("withdrawals = %d", len(batch.Withdrawals))
	}
	w := batch.Withdrawals[0]
	if w.Recipient != w.Address {
		t.Errorf("recipient %s, want submitting address %s", w.Recipient, w.Address)
	}
	if w.HasRelayer() {
		t.Error("no relayer was supplied")
	}
	if !w.Fee.IsZero() {
		t.Errorf("fee = %s, want zero", w.Fee)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	mutate := func(fn func(*domain.RawRecord)) domain.RawRecord {
		rec := rawDeposit("eth-1", 1, int64(100))
		fn(&rec)
		return rec
	}

	cases := []struct {
		name string
		rec  domain.RawRecord
	}{
		{"unknown type", mutate(func(r *domain.RawRecord) { r.Type = "transfer" })},
		{"missing pool", mutate(func(r *domain.RawRecord) { r.Pool = "" })},
		{"short tx hash", mutate(func(r *domain.RawRecord) { r.TxHash = "0xabc" })},
		{"bad timestamp", mutate(func(r *domain.RawRecord) { r.BlockTime = "not a time" })},
		{"missing timestamp", mutate(func(r *domain.RawRecord) { r.BlockTime = nil })},
		{"bad address", mutate(func(r *domain.RawRecord) { r.Address = "0x1234" })},
		{"negative amount", mutate(func(r *domain.RawRecord) { r.Amount = "-1" })},
		{"non-numeric amount", mutate(func(r *domain.RawRecord) { r.Amount = "lots" })},
		{"missing commitment", mutate(func(r *domain.RawRecord) { r.Commitment = "" })},
		{"withdrawal missing nullifier", func() domain.RawRecord {
			rec := rawWithdrawal("eth-1", 2, int64(150))
			rec.Nullifier = ""
			return rec
		}()},
	}

	n := NewNormalizer(testCfg())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			batch, findings, stats := n.Normalize([]domain.RawRecord{tc.rec})
			if batch.Len() != 0 {
				t.Fatalf("malformed record survived: %+v", batch)
			}
			if stats.Malformed != 1 {
				t.Errorf("malformed count = %d, want 1", stats.Malformed)
			}
			if len(findings) != 1 || findings[0].Kind != domain.FindingMalformedEvent {
				t.Errorf("findings = %v", findings)
			}
		})
	}
}

func TestNormalizeDeduplicates(t *testing.T) {
	n := NewNormalizer(testCfg())
	rec := rawDeposit("eth-1", 1, int64(100))
	batch, findings, stats := n.Normalize([]domain.RawRecord{rec, rec, rec})

	if len(batch.Deposits) != 1 {
		t.Fatalf("deposits = %d, want 1", len(batch.Deposits))
	}
	if stats.Deduplicated != 2 {
		t.Errorf("deduplicated = %d, want 2", stats.Deduplicated)
	}
	if len(findings) != 0 {
		t.Errorf("duplicates must not be findings: %v", findings)
	}
}

func TestNormalizeSortsByTimeThenHash(t *testing.T) {
	n := NewNormalizer(testCfg())
	batch, _, _ := n.Normalize([]domain.RawRecord{
		rawDeposit("eth-1", 3, int64(200)),
		rawDeposit("eth-1", 2, int64(100)),
		rawDeposit("eth-1", 1, int64(100)),
	})

	if len(batch.Deposits) != 3 {
		t.Fatalf("deposits = %d", len(batch.Deposits))
	}
	want := []domain.TxID{txid(1), txid(2), txid(3)}
	for i, d := range batch.Deposits {
		if d.TxHash != want[i] {
			t.Errorf("deposit %d = %s, want %s", i, d.TxHash, want[i])
		}
	}
}

func TestNormalizeTimestampFormats(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int64
	}{
		{"json number", float64(1700000000), 1700000000},
		{"integer string", "1700000000", 1700000000},
		{"float string", "1700000000.9", 1700000000},
		{"rfc3339", "2023-11-14T22:13:20Z", 1700000000},
		{"bitquery layout", "2023-11-14 22:13:20", 1700000000},
	}

	n := NewNormalizer(testCfg())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			batch, findings, _ := n.Normalize([]domain.RawRecord{rawDeposit("eth-1", 1, tc.in)})
			if len(findings) != 0 {
				t.Fatalf("findings: %v", findings)
			}
			if batch.Deposits[0].BlockTime != tc.want {
				t.Errorf("block time = %d, want %d", batch.Deposits[0].BlockTime, tc.want)
			}
		})
	}
}

func TestNormalizeHexAmount(t *testing.T) {
	n := NewNormalizer(testCfg())
	rec := rawDeposit("eth-1", 1, int64(100))
	rec.Amount = "0xde0b6b3a7640000" // 1e18 wei

	batch, findings, _ := n.Normalize([]domain.RawRecord{rec})
	if len(findings) != 0 {
		t.Fatalf("findings: %v", findings)
	}
	want := decimal.RequireFromString("1000000000000000000")
	if !batch.Deposits[0].Amount.Equal(want) {
		t.Errorf("amount = %s, want %s", batch.Deposits[0].Amount, want)
	}
}

func TestNormalizeResolvesPoolContract(t *testing.T) {
	cfg := testCfg()
	cfg.Pools = []domain.PoolDefinition{
		{ID: "eth-1", Asset: "ETH", Denomination: "1", Contract: "0x12D66f87A04A9E220743712cE6d9bB1B5616B8Fc"},
	}
	n := NewNormalizer(cfg)

	batch, _, _ := n.Normalize([]domain.RawRecord{
		rawDeposit("0x12d66f87a04a9e220743712ce6d9bb1b5616b8fc", 1, int64(100)),
		rawDeposit("unregistered-pool", 2, int64(200)),
	})

	if batch.Deposits[0].PoolID != "eth-1" {
		t.Errorf("contract did not resolve: %s", batch.Deposits[0].PoolID)
	}
	// Unregistered pools pass through verbatim.
	if batch.Deposits[1].PoolID != "unregistered-pool" {
		t.Errorf("unregistered pool = %s", batch.Deposits[1].PoolID)
	}
}
