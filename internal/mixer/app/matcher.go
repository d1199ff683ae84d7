package app

import (
	"fmt"
	"sort"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

// MatchPool proposes deposit→withdrawal candidate links inside one pool.
//
// A withdrawal is a candidate for a deposit iff its time falls inside
// [d.BlockTime, d.BlockTime+MaxDelay], both ends inclusive: a withdrawal can
// never reference a commitment that was not yet deposited. Output is
// many-to-many; nothing here ever picks a "winner" pair, because exclusive
// matching would misstate the protocol's anonymity property.
//
// Withdrawals older than every deposit in the pool cannot be explained by
// the batch and come back as AnomalousWithdrawal findings, unlinked.
func MatchPool(p PoolPartition, cfg domain.AnalysisConfig) ([]domain.CandidateLink, []domain.Finding) {
	var (
		links    []domain.CandidateLink
		findings []domain.Finding
	)

	if len(p.Withdrawals) == 0 {
		return nil, nil
	}

	depTimes := make([]int64, len(p.Deposits))
	for i, d := range p.Deposits {
		depTimes[i] = d.BlockTime
	}

	// Anonymity set per withdrawal: deposits whose window covers it.
	contending := make([]int, len(p.Withdrawals))
	for i, w := range p.Withdrawals {
		lo := sort.Search(len(depTimes), func(k int) bool {
			return depTimes[k] >= w.BlockTime-cfg.MaxDelaySeconds
		})
		hi := sort.Search(len(depTimes), func(k int) bool {
			return depTimes[k] > w.BlockTime
		})
		contending[i] = hi - lo
	}

	var earliestDeposit int64
	if len(p.Deposits) > 0 {
		earliestDeposit = p.Deposits[0].BlockTime
	}

	for i, w := range p.Withdrawals {
		if len(p.Deposits) > 0 && w.BlockTime < earliestDeposit {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingAnomalousWithdrawal,
				PoolID:   p.PoolID,
				TxHashes: []string{w.TxHash.String()},
				Address:  w.Recipient.String(),
				Detail: fmt.Sprintf("withdrawal at %d precedes the pool's earliest deposit at %d; deposit data missing or cross-pool leakage",
					w.BlockTime, earliestDeposit),
			})
			continue
		}

		lo := sort.Search(len(depTimes), func(k int) bool {
			return depTimes[k] >= w.BlockTime-cfg.MaxDelaySeconds
		})
		for j := lo; j < len(p.Deposits); j++ {
			d := p.Deposits[j]
			delta := w.BlockTime - d.BlockTime
			if delta < 0 {
				break
			}
			score := MatchScore(delta, contending[i], cfg.MaxDelaySeconds, cfg.ScoreFloor)
			links = append(links, domain.CandidateLink{
				PoolID:       p.PoolID,
				DepositTx:    d.TxHash,
				WithdrawalTx: w.TxHash,
				Depositor:    d.Address,
				Recipient:    w.Recipient,
				TimeDelta:    delta,
				Confidence:   score,
				Contending:   contending[i],
				Rationale: fmt.Sprintf("delta=%ds of window=%ds, anonymity set %d",
					delta, cfg.MaxDelaySeconds, contending[i]),
			})
		}
	}

	sort.Slice(links, func(i, j int) bool {
		if links[i].DepositTx != links[j].DepositTx {
			return links[i].DepositTx.String() < links[j].DepositTx.String()
		}
		return links[i].WithdrawalTx.String() < links[j].WithdrawalTx.String()
	})
	return links, findings
}

// CrossPoolHints scans the whole batch for addresses active in more than one
// pool within the match window. Pools fix the amount, so this is the only
// amount-adjacent leak left; it is a weak secondary signal and is reported
// separately, never folded into same-pool confidence.
func CrossPoolHints(batch domain.EventBatch, cfg domain.AnalysisConfig) []domain.Finding {
	type sighting struct {
		pool domain.PoolID
		time int64
	}
	byAddr := make(map[domain.Address][]sighting)

	for _, d := range batch.Deposits {
		byAddr[d.Address] = append(byAddr[d.Address], sighting{d.PoolID, d.BlockTime})
	}
	for _, w := range batch.Withdrawals {
		byAddr[w.Recipient] = append(byAddr[w.Recipient], sighting{w.PoolID, w.BlockTime})
	}

	addrs := make([]domain.Address, 0, len(byAddr))
	for a := range byAddr {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].String() < addrs[j].String() })

	var findings []domain.Finding
	for _, a := range addrs {
		ss := byAddr[a]
		sort.Slice(ss, func(i, j int) bool {
			if ss[i].time != ss[j].time {
				return ss[i].time < ss[j].time
			}
			return ss[i].pool < ss[j].pool
		})
		pools := make(map[domain.PoolID]struct{})
		hit := false
		for i := 1; i < len(ss); i++ {
			for j := i - 1; j >= 0 && ss[i].time-ss[j].time <= cfg.MaxDelaySeconds; j-- {
				if ss[i].pool != ss[j].pool {
					hit = true
					pools[ss[i].pool] = struct{}{}
					pools[ss[j].pool] = struct{}{}
				}
			}
		}
		if !hit {
			continue
		}
		ids := make([]string, 0, len(pools))
		for id := range pools {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)
		findings = append(findings, domain.Finding{
			Kind:    domain.FindingCrossPoolHint,
			Address: a.String(),
			Detail:  fmt.Sprintf("address active in pools %v within the %ds window", ids, cfg.MaxDelaySeconds),
		})
	}
	return findings
}
