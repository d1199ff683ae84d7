package app

import (
	"math"
	"testing"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

func TestMatchPoolWindow(t *testing.T) {
	cfg := testCfg() // 200s window
	p := PoolPartition{
		PoolID:   "eth-1",
		Deposits: []domain.DepositEvent{dep("eth-1", 1, 100, 1)},
		Withdrawals: []domain.WithdrawalEvent{
			wit("eth-1", 2, 150, 2), // delta 50, inside
			wit("eth-1", 3, 500, 3), // delta 400, outside
		},
	}

	links, findings := MatchPool(p, cfg)
	if len(findings) != 0 {
		t.Fatalf("findings: %v", findings)
	}
	if len(links) != 1 {
		t.Fatalf("links = %d, want 1", len(links))
	}
	l := links[0]
	if l.DepositTx != txid(1) || l.WithdrawalTx != txid(2) || l.TimeDelta != 50 || l.Contending != 1 {
		t.Errorf("link = %+v", l)
	}
	want := MatchScore(50, 1, cfg.MaxDelaySeconds, cfg.ScoreFloor)
	if math.Abs(l.Confidence-want) > 1e-12 {
		t.Errorf("confidence = %g, want %g", l.Confidence, want)
	}
}

func TestMatchPoolBoundaryInclusive(t *testing.T) {
	cfg := testCfg()
	deposits := []domain.DepositEvent{dep("eth-1", 1, 100, 1)}

	atBoundary := PoolPartition{PoolID: "eth-1", Deposits: deposits,
		Withdrawals: []domain.WithdrawalEvent{wit("eth-1", 2, 300, 2)}} // delta exactly 200
	links, _ := MatchPool(atBoundary, cfg)
	if len(links) != 1 {
		t.Fatalf("delta == window must link, got %d links", len(links))
	}

	pastBoundary := PoolPartition{PoolID: "eth-1", Deposits: deposits,
		Withdrawals: []domain.WithdrawalEvent{wit("eth-1", 2, 301, 2)}} // delta 201
	links, _ = MatchPool(pastBoundary, cfg)
	if len(links) != 0 {
		t.Fatalf("delta == window+1 must not link, got %v", links)
	}
}

func TestMatchPoolAnonymitySetDilutes(t *testing.T) {
	cfg := testCfg()
	p := PoolPartition{
		PoolID: "eth-1",
		Deposits: []domain.DepositEvent{
			dep("eth-1", 1, 100, 1),
			dep("eth-1", 2, 150, 2),
		},
		Withdrawals: []domain.WithdrawalEvent{wit("eth-1", 3, 200, 3)},
	}

	links, _ := MatchPool(p, cfg)
	if len(links) != 2 {
		t.Fatalf("links = %d, want 2", len(links))
	}
	for _, l := range links {
		if l.Contending != 2 {
			t.Errorf("contending = %d, want 2", l.Contending)
		}
		solo := MatchScore(l.TimeDelta, 1, cfg.MaxDelaySeconds, cfg.ScoreFloor)
		if math.Abs(l.Confidence-solo/2) > 1e-12 {
			t.Errorf("confidence = %g, want half of %g", l.Confidence, solo)
		}
	}
}

func TestMatchPoolManyToMany(t *testing.T) {
	cfg := testCfg()
	p := PoolPartition{
		PoolID:   "eth-1",
		Deposits: []domain.DepositEvent{dep("eth-1", 1, 100, 1)},
		Withdrawals: []domain.WithdrawalEvent{
			wit("eth-1", 2, 150, 2),
			wit("eth-1", 3, 180, 3),
		},
	}

	// One deposit explains both withdrawals; matching never picks a winner.
	links, _ := MatchPool(p, cfg)
	if len(links) != 2 {
		t.Fatalf("links = %d, want 2", len(links))
	}
	for _, l := range links {
		if l.DepositTx != txid(1) {
			t.Errorf("link source = %s, want %s", l.DepositTx, txid(1))
		}
	}
}

func TestMatchPoolAnomalousWithdrawal(t *testing.T) {
	cfg := testCfg()
	p := PoolPartition{
		PoolID:      "eth-1",
		Deposits:    []domain.DepositEvent{dep("eth-1", 1, 500, 1)},
		Withdrawals: []domain.WithdrawalEvent{wit("eth-1", 2, 100, 2)},
	}

	links, findings := MatchPool(p, cfg)
	if len(links) != 0 {
		t.Fatalf("anomalous withdrawal must not link: %v", links)
	}
	if len(findings) != 1 || findings[0].Kind != domain.FindingAnomalousWithdrawal {
		t.Fatalf("findings = %v", findings)
	}
	if findings[0].TxHashes[0] != txid(2).String() {
		t.Errorf("finding names %v", findings[0].TxHashes)
	}
}

func TestMatchPoolNoWithdrawals(t *testing.T) {
	links, findings := MatchPool(PoolPartition{
		PoolID:   "eth-1",
		Deposits: []domain.DepositEvent{dep("eth-1", 1, 100, 1)},
	}, testCfg())
	if links != nil || findings != nil {
		t.Errorf("got %v, %v, want nothing", links, findings)
	}
}

func TestMatchPoolDeterministicOrder(t *testing.T) {
	cfg := testCfg()
	p := PoolPartition{
		PoolID: "eth-1",
		Deposits: []domain.DepositEvent{
			dep("eth-1", 1, 100, 1),
			dep("eth-1", 2, 110, 2),
		},
		Withdrawals: []domain.WithdrawalEvent{
			wit("eth-1", 4, 150, 4),
			wit("eth-1", 3, 120, 3),
		},
	}

	links, _ := MatchPool(p, cfg)
	for i := 1; i < len(links); i++ {
		prev, cur := links[i-1], links[i]
		if prev.DepositTx.String() > cur.DepositTx.String() {
			t.Fatalf("links out of deposit order at %d", i)
		}
		if prev.DepositTx == cur.DepositTx && prev.WithdrawalTx.String() > cur.WithdrawalTx.String() {
			t.Fatalf("links out of withdrawal order at %d", i)
		}
	}
}

func TestCrossPoolHints(t *testing.T) {
	cfg := testCfg()
	batch := domain.EventBatch{
		Deposits: []domain.DepositEvent{
			dep("eth-1", 1, 100, 5),  // addr 5 in eth-1
			dep("eth-10", 2, 150, 5), // addr 5 again in eth-10, 50s later
			dep("eth-1", 3, 100, 6),  // addr 6 stays in one pool
		},
	}

	findings := CrossPoolHints(batch, cfg)
	if len(findings) != 1 {
		t.Fatalf("findings = %v, want one hint", findings)
	}
	f := findings[0]
	if f.Kind != domain.FindingCrossPoolHint || f.Address != addr(5).String() {
		t.Errorf("finding = %+v", f)
	}
}

func TestCrossPoolHintsOutsideWindow(t *testing.T) {
	cfg := testCfg()
	batch := domain.EventBatch{
		Deposits: []domain.DepositEvent{
			dep("eth-1", 1, 100, 5),
			dep("eth-10", 2, 100+cfg.MaxDelaySeconds+1, 5),
		},
	}
	if findings := CrossPoolHints(batch, cfg); len(findings) != 0 {
		t.Errorf("sightings outside the window must not hint: %v", findings)
	}
}
