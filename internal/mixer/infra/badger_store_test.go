package infra

import (
	"testing"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

func openTestStore(t *testing.T) *BadgerArtifactStore {
	t.Helper()
	store, err := NewBadgerArtifactStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(id string, at int64) *domain.RunResult {
	return &domain.RunResult{
		RunID:       id,
		GeneratedAt: at,
		Pools: []domain.PoolResult{
			{PoolID: "eth-1", Status: domain.PoolStatusOK, DepositCount: 2, WithdrawalCount: 1, LinkCount: 2},
		},
		Findings: []domain.Finding{
			{Kind: domain.FindingEmptyPool, PoolID: "eth-100", Detail: "no events"},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	want := sampleRun("run-a", 1000)
	if err := store.SaveRun(want); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetRun("run-a")
	if err != nil {
		t.Fatal(err)
	}
	if got.RunID != "run-a" || got.GeneratedAt != 1000 {
		t.Errorf("run = %+v", got)
	}
	if len(got.Pools) != 1 || got.Pools[0].PoolID != "eth-1" {
		t.Errorf("pools = %+v", got.Pools)
	}
	if len(got.Findings) != 1 || got.Findings[0].Kind != domain.FindingEmptyPool {
		t.Errorf("findings = %+v", got.Findings)
	}
}

func TestStoreLatestRun(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.LatestRun(); err == nil {
		t.Error("empty store returned a latest run")
	}

	if err := store.SaveRun(sampleRun("run-a", 1000)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRun(sampleRun("run-b", 2000)); err != nil {
		t.Fatal(err)
	}

	latest, err := store.LatestRun()
	if err != nil {
		t.Fatal(err)
	}
	if latest.RunID != "run-b" {
		t.Errorf("latest = %s, want run-b", latest.RunID)
	}
}

func TestStoreListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []*domain.RunResult{
		sampleRun("run-a", 1000),
		sampleRun("run-c", 3000),
		sampleRun("run-b", 2000),
	} {
		if err := store.SaveRun(r); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("runs = %d", len(runs))
	}
	want := []string{"run-c", "run-b", "run-a"}
	for i, w := range want {
		if runs[i].RunID != w {
			t.Errorf("runs[%d] = %s, want %s", i, runs[i].RunID, w)
		}
	}
	if runs[0].PoolCount != 1 || runs[0].FindingCount != 1 {
		t.Errorf("summary = %+v", runs[0])
	}
}

func TestStoreRejectsAnonymousRun(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveRun(&domain.RunResult{}); err == nil {
		t.Error("run without id accepted")
	}
	if err := store.SaveRun(nil); err == nil {
		t.Error("nil run accepted")
	}
}

func TestStoreGetMissingRun(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetRun("nope"); err == nil {
		t.Error("missing run returned")
	}
}
