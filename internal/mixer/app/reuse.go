package app

import (
	"sort"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

// PairCount is the co-occurrence tally for one unordered address pair; the
// graph builder turns these into reuse edges.
type PairCount struct {
	A     domain.Address // lexicographically lower
	B     domain.Address
	Count int
}

// DetectReuse indexes every address occurrence across roles and pools,
// seeds clusters from addresses seen in at least cfg.ReuseMinTxCount
// distinct transactions or in two distinct roles, and merges transitively
// through shared transactions (union-find). Reuse is an observed fact, not
// a heuristic, so the emitted clusters carry certain confidence by
// definition. The result is independent of input order.
func DetectReuse(batch domain.EventBatch, cfg domain.AnalysisConfig) ([]domain.ReuseCluster, []PairCount) {
	occByAddr := make(map[domain.Address][]domain.Occurrence)
	addrsByTx := make(map[domain.TxID][]domain.Address)

	record := func(a domain.Address, role domain.Role, pool domain.PoolID, tx domain.TxID) {
		occByAddr[a] = append(occByAddr[a], domain.Occurrence{Role: role, PoolID: pool, TxHash: tx})
		addrsByTx[tx] = append(addrsByTx[tx], a)
	}

	for _, d := range batch.Deposits {
		record(d.Address, domain.RoleDepositor, d.PoolID, d.TxHash)
	}
	for _, w := range batch.Withdrawals {
		record(w.Recipient, domain.RoleRecipient, w.PoolID, w.TxHash)
		if w.HasRelayer() {
			record(w.Relayer, domain.RoleRelayer, w.PoolID, w.TxHash)
		}
	}

	// Dense ids in sorted address order keep everything deterministic.
	addrs := make([]domain.Address, 0, len(occByAddr))
	for a := range occByAddr {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].String() < addrs[j].String() })
	idOf := make(map[domain.Address]int, len(addrs))
	for i, a := range addrs {
		idOf[a] = i
	}

	uf := newUnionFind(len(addrs))
	pairTally := make(map[[2]int]int)
	for _, members := range addrsByTx {
		for i := 1; i < len(members); i++ {
			for j := 0; j < i; j++ {
				a, b := idOf[members[j]], idOf[members[i]]
				if a == b {
					continue
				}
				uf.union(a, b)
				if a > b {
					a, b = b, a
				}
				pairTally[[2]int{a, b}]++
			}
		}
	}

	// A component is reported only when it contains a seed: an address with
	// enough distinct transactions or more than one role.
	isSeed := func(a domain.Address) bool {
		occ := occByAddr[a]
		txs := make(map[domain.TxID]struct{}, len(occ))
		roles := make(map[domain.Role]struct{}, 2)
		for _, o := range occ {
			txs[o.TxHash] = struct{}{}
			roles[o.Role] = struct{}{}
		}
		return len(txs) >= cfg.ReuseMinTxCount || len(roles) >= 2
	}

	seededRoots := make(map[int]bool)
	for i, a := range addrs {
		if isSeed(a) {
			seededRoots[uf.find(i)] = true
		}
	}

	membersByRoot := make(map[int][]int)
	for i := range addrs {
		root := uf.find(i)
		if seededRoots[root] {
			membersByRoot[root] = append(membersByRoot[root], i)
		}
	}

	roots := make([]int, 0, len(membersByRoot))
	for r := range membersByRoot {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	clusters := make([]domain.ReuseCluster, 0, len(roots))
	for _, root := range roots {
		clusters = append(clusters, buildCluster(membersByRoot[root], addrs, occByAddr))
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Addresses[0].String() < clusters[j].Addresses[0].String()
	})

	pairs := make([]PairCount, 0, len(pairTally))
	for key, n := range pairTally {
		pairs = append(pairs, PairCount{A: addrs[key[0]], B: addrs[key[1]], Count: n})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A.String() < pairs[j].A.String()
		}
		return pairs[i].B.String() < pairs[j].B.String()
	})

	return clusters, pairs
}

func buildCluster(members []int, addrs []domain.Address, occByAddr map[domain.Address][]domain.Occurrence) domain.ReuseCluster {
	var c domain.ReuseCluster

	sort.Ints(members)
	txs := make(map[domain.TxID]struct{})
	roles := make(map[domain.Role]struct{})
	for _, id := range members {
		a := addrs[id]
		c.Addresses = append(c.Addresses, a)
		for _, o := range occByAddr[a] {
			c.Occurrences = append(c.Occurrences, o)
			txs[o.TxHash] = struct{}{}
			roles[o.Role] = struct{}{}
		}
	}
	sort.Slice(c.Occurrences, func(i, j int) bool {
		oi, oj := c.Occurrences[i], c.Occurrences[j]
		if oi.PoolID != oj.PoolID {
			return oi.PoolID < oj.PoolID
		}
		if oi.TxHash != oj.TxHash {
			return oi.TxHash.String() < oj.TxHash.String()
		}
		return oi.Role < oj.Role
	})
	c.TxCount = len(txs)
	for r := range roles {
		c.Roles = append(c.Roles, r)
	}
	sort.Slice(c.Roles, func(i, j int) bool { return c.Roles[i] < c.Roles[j] })
	return c
}
