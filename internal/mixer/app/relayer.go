package app

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

// ProfileRelayers aggregates withdrawals per relayer address across every
// pool in the batch. Withdrawals without a relayer contribute nothing; no
// relayer activity at all yields an empty profile set, which is not an
// error. Relayers whose recipient reuse rate exceeds the configured
// threshold are flagged: their users share a weaker anonymity guarantee.
func ProfileRelayers(withdrawals []domain.WithdrawalEvent, cfg domain.AnalysisConfig) ([]domain.RelayerProfile, []domain.Finding) {
	type agg struct {
		fees       []decimal.Decimal
		feeRates   []decimal.Decimal
		recipients map[domain.Address]int
		count      int
		firstSeen  int64
		lastSeen   int64
	}
	byRelayer := make(map[domain.Address]*agg)

	for _, w := range withdrawals {
		if !w.HasRelayer() {
			continue
		}
		a, ok := byRelayer[w.Relayer]
		if !ok {
			a = &agg{recipients: make(map[domain.Address]int), firstSeen: w.BlockTime, lastSeen: w.BlockTime}
			byRelayer[w.Relayer] = a
		}
		a.count++
		a.fees = append(a.fees, w.Fee)
		if w.Amount.IsPositive() {
			a.feeRates = append(a.feeRates, w.Fee.Div(w.Amount))
		}
		a.recipients[w.Recipient]++
		if w.BlockTime < a.firstSeen {
			a.firstSeen = w.BlockTime
		}
		if w.BlockTime > a.lastSeen {
			a.lastSeen = w.BlockTime
		}
	}

	relayers := make([]domain.Address, 0, len(byRelayer))
	for r := range byRelayer {
		relayers = append(relayers, r)
	}
	sort.Slice(relayers, func(i, j int) bool { return relayers[i].String() < relayers[j].String() })

	var (
		profiles []domain.RelayerProfile
		findings []domain.Finding
	)
	for _, r := range relayers {
		a := byRelayer[r]

		p := domain.RelayerProfile{
			Relayer:          r,
			WithdrawalCount:  a.count,
			TotalFee:         decimal.Sum(decimal.Zero, a.fees...),
			MedianFee:        median(a.fees),
			UniqueRecipients: len(a.recipients),
			FirstSeen:        a.firstSeen,
			LastSeen:         a.lastSeen,
		}
		p.AvgFee = p.TotalFee.Div(decimal.NewFromInt(int64(a.count)))
		if len(a.feeRates) > 0 {
			p.AvgFeeRate = decimal.Sum(decimal.Zero, a.feeRates...).Div(decimal.NewFromInt(int64(len(a.feeRates))))
		}
		// Reuse rate: share of withdrawals that went to an already-served
		// recipient.
		p.RecipientReuseRate = float64(a.count-len(a.recipients)) / float64(a.count)
		if p.RecipientReuseRate > cfg.RelayerDiversityThreshold {
			p.LowDiversity = true
			findings = append(findings, domain.Finding{
				Kind:    domain.FindingLowDiversityRelayer,
				Address: r.String(),
				Detail: fmt.Sprintf("recipient reuse rate %.2f exceeds threshold %.2f over %d withdrawals",
					p.RecipientReuseRate, cfg.RelayerDiversityThreshold, a.count),
			})
		}
		profiles = append(profiles, p)
	}

	// Busiest relayers first; address breaks ties so reruns agree.
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].WithdrawalCount != profiles[j].WithdrawalCount {
			return profiles[i].WithdrawalCount > profiles[j].WithdrawalCount
		}
		return profiles[i].Relayer.String() < profiles[j].Relayer.String()
	})
	return profiles, findings
}

func median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}
