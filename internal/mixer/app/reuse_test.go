package app

import (
	"reflect"
	"testing"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

func TestDetectReuseTransitive(t *testing.T) {
	cfg := testCfg()
	// Relayer 2 serves recipients 1 and 3 in separate transactions; the
	// shared relayer chains all three into one cluster.
	batch := domain.EventBatch{
		Withdrawals: []domain.WithdrawalEvent{
			relayedWit("eth-1", 10, 100, 1, 2, "0.1"),
			relayedWit("eth-1", 11, 200, 3, 2, "0.1"),
		},
	}

	clusters, _ := DetectReuse(batch, cfg)
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(clusters))
	}
	want := []domain.Address{addr(1), addr(2), addr(3)}
	if !reflect.DeepEqual(clusters[0].Addresses, want) {
		t.Errorf("addresses = %v, want %v", clusters[0].Addresses, want)
	}
	if clusters[0].TxCount != 2 {
		t.Errorf("tx count = %d, want 2", clusters[0].TxCount)
	}
}

func TestDetectReuseRoleSeed(t *testing.T) {
	cfg := testCfg()
	cfg.ReuseMinTxCount = 5 // too high to seed by count alone
	// Address 1 deposits and later receives: two roles seed it regardless of
	// the transaction count threshold.
	batch := domain.EventBatch{
		Deposits:    []domain.DepositEvent{dep("eth-1", 10, 100, 1)},
		Withdrawals: []domain.WithdrawalEvent{wit("eth-1", 11, 200, 1)},
	}

	clusters, _ := DetectReuse(batch, cfg)
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(clusters))
	}
	c := clusters[0]
	if len(c.Addresses) != 1 || c.Addresses[0] != addr(1) {
		t.Errorf("addresses = %v", c.Addresses)
	}
	wantRoles := []domain.Role{domain.RoleDepositor, domain.RoleRecipient}
	if !reflect.DeepEqual(c.Roles, wantRoles) {
		t.Errorf("roles = %v, want %v", c.Roles, wantRoles)
	}
}

func TestDetectReuseBelowThreshold(t *testing.T) {
	cfg := testCfg()
	batch := domain.EventBatch{
		Deposits: []domain.DepositEvent{dep("eth-1", 10, 100, 1)},
	}
	clusters, _ := DetectReuse(batch, cfg)
	if len(clusters) != 0 {
		t.Errorf("single occurrence must not cluster: %v", clusters)
	}
}

func TestDetectReuseCountSeed(t *testing.T) {
	cfg := testCfg() // ReuseMinTxCount 2
	batch := domain.EventBatch{
		Deposits: []domain.DepositEvent{
			dep("eth-1", 10, 100, 1),
			dep("eth-1", 11, 200, 1),
		},
	}
	clusters, _ := DetectReuse(batch, cfg)
	if len(clusters) != 1 || clusters[0].TxCount != 2 {
		t.Fatalf("clusters = %v, want one with 2 txs", clusters)
	}
}

func TestDetectReuseOrderIndependent(t *testing.T) {
	cfg := testCfg()
	events := []domain.WithdrawalEvent{
		relayedWit("eth-1", 10, 100, 1, 2, "0.1"),
		relayedWit("eth-1", 11, 200, 3, 2, "0.1"),
		relayedWit("eth-10", 12, 300, 4, 5, "0.2"),
		relayedWit("eth-10", 13, 400, 4, 5, "0.2"),
	}
	reversed := make([]domain.WithdrawalEvent, len(events))
	for i, w := range events {
		reversed[len(events)-1-i] = w
	}

	forward, fwdPairs := DetectReuse(domain.EventBatch{Withdrawals: events}, cfg)
	backward, bwdPairs := DetectReuse(domain.EventBatch{Withdrawals: reversed}, cfg)

	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("clusters differ across input orders:\n%v\n%v", forward, backward)
	}
	if !reflect.DeepEqual(fwdPairs, bwdPairs) {
		t.Errorf("pair counts differ across input orders:\n%v\n%v", fwdPairs, bwdPairs)
	}
}

func TestDetectReusePairCounts(t *testing.T) {
	cfg := testCfg()
	batch := domain.EventBatch{
		Withdrawals: []domain.WithdrawalEvent{
			relayedWit("eth-1", 10, 100, 1, 2, "0.1"),
			relayedWit("eth-1", 11, 200, 1, 2, "0.1"),
		},
	}

	_, pairs := DetectReuse(batch, cfg)
	if len(pairs) != 1 {
		t.Fatalf("pairs = %v, want 1", pairs)
	}
	p := pairs[0]
	if p.A != addr(1) || p.B != addr(2) || p.Count != 2 {
		t.Errorf("pair = %+v", p)
	}
}
