package app

import (
	"sort"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

// PoolPartition holds one pool's slice of the batch. Deposits and
// withdrawals keep the normalizer's (BlockTime, TxHash) ordering.
type PoolPartition struct {
	PoolID      domain.PoolID
	Deposits    []domain.DepositEvent
	Withdrawals []domain.WithdrawalEvent
}

// PartitionByPool splits a normalized batch per pool. Every event lands in
// exactly one partition. Pools named in knownPools are present even with no
// events, so a caller can tell "no data" from "not queried". Partitions come
// back sorted by pool id.
func PartitionByPool(batch domain.EventBatch, knownPools []domain.PoolID) []PoolPartition {
	byID := make(map[domain.PoolID]*PoolPartition)

	get := func(id domain.PoolID) *PoolPartition {
		p, ok := byID[id]
		if !ok {
			p = &PoolPartition{PoolID: id}
			byID[id] = p
		}
		return p
	}

	for _, id := range knownPools {
		get(id)
	}
	for _, d := range batch.Deposits {
		p := get(d.PoolID)
		p.Deposits = append(p.Deposits, d)
	}
	for _, w := range batch.Withdrawals {
		p := get(w.PoolID)
		p.Withdrawals = append(p.Withdrawals, w)
	}

	out := make([]PoolPartition, 0, len(byID))
	for _, p := range byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PoolID < out[j].PoolID })
	return out
}

// IsEmpty reports whether the partition lacks deposits or withdrawals, i.e.
// no same-pool correlation is possible.
func (p PoolPartition) IsEmpty() bool {
	return len(p.Deposits) == 0 || len(p.Withdrawals) == 0
}
