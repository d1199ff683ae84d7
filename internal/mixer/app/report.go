package app

import (
	"fmt"
	"strings"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

const reportRule = "================================================================================"
const reportSubRule = "--------------------------------------------------------------------------------"

// RenderTextReport formats a run for terminal reading. Long lists are
// truncated to their head; the JSON artifact carries everything.
func RenderTextReport(r *domain.RunResult) string {
	var b strings.Builder

	fmt.Fprintln(&b, reportRule)
	fmt.Fprintln(&b, "MIXER CORRELATION ANALYSIS REPORT")
	fmt.Fprintln(&b, reportRule)
	fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	fmt.Fprintf(&b, "Records: %d raw, %d normalized, %d malformed, %d duplicate\n",
		r.Stats.RawRecords, r.Stats.Normalized, r.Stats.Malformed, r.Stats.Deduplicated)
	fmt.Fprintf(&b, "Deposits: %d   Withdrawals: %d\n", r.DepositActivity.Total, r.WithdrawalActivity.Total)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, reportSubRule)
	fmt.Fprintln(&b, "POOLS")
	fmt.Fprintln(&b, reportSubRule)
	for _, p := range r.Pools {
		fmt.Fprintf(&b, "  %-24s %-10s deposits=%-5d withdrawals=%-5d links=%d\n",
			p.PoolID, p.Status, p.DepositCount, p.WithdrawalCount, p.LinkCount)
	}
	fmt.Fprintln(&b)

	if r.DepositActivity.Total > 0 {
		fmt.Fprintln(&b, reportSubRule)
		fmt.Fprintln(&b, "DEPOSIT ACTIVITY")
		fmt.Fprintln(&b, reportSubRule)
		fmt.Fprintf(&b, "Most active day: %s   avg/day: %.2f\n",
			r.DepositActivity.MostActiveDay, r.DepositActivity.AveragePerDay)
		fmt.Fprintln(&b)
	}
	if r.WithdrawalActivity.Total > 0 {
		fmt.Fprintln(&b, reportSubRule)
		fmt.Fprintln(&b, "WITHDRAWAL ACTIVITY")
		fmt.Fprintln(&b, reportSubRule)
		fmt.Fprintf(&b, "Most active day: %s   avg/day: %.2f\n",
			r.WithdrawalActivity.MostActiveDay, r.WithdrawalActivity.AveragePerDay)
		fmt.Fprintln(&b)
	}

	if len(r.Links) > 0 {
		fmt.Fprintln(&b, reportSubRule)
		fmt.Fprintln(&b, "CANDIDATE DEPOSIT→WITHDRAWAL LINKS")
		fmt.Fprintln(&b, reportSubRule)
		fmt.Fprintf(&b, "%d candidates (probabilistic, many-to-many; none is ground truth)\n", len(r.Links))
		for i, l := range r.Links {
			if i == 10 {
				fmt.Fprintf(&b, "  … %d more\n", len(r.Links)-10)
				break
			}
			fmt.Fprintf(&b, "  [%s] %s → %s  delta=%ds confidence=%.4f (set %d)\n",
				l.PoolID, l.DepositTx, l.WithdrawalTx, l.TimeDelta, l.Confidence, l.Contending)
		}
		fmt.Fprintln(&b)
	}

	if len(r.Clusters) > 0 {
		fmt.Fprintln(&b, reportSubRule)
		fmt.Fprintln(&b, "ADDRESS REUSE CLUSTERS (certain)")
		fmt.Fprintln(&b, reportSubRule)
		for i, c := range r.Clusters {
			if i == 10 {
				fmt.Fprintf(&b, "  … %d more\n", len(r.Clusters)-10)
				break
			}
			fmt.Fprintf(&b, "  %d addresses, %d txs, roles %v: %s\n",
				len(c.Addresses), c.TxCount, c.Roles, joinAddrs(c.Addresses, 3))
		}
		fmt.Fprintln(&b)
	}

	if len(r.Relayers) > 0 {
		fmt.Fprintln(&b, reportSubRule)
		fmt.Fprintln(&b, "RELAYERS")
		fmt.Fprintln(&b, reportSubRule)
		for i, p := range r.Relayers {
			if i == 10 {
				fmt.Fprintf(&b, "  … %d more\n", len(r.Relayers)-10)
				break
			}
			flag := ""
			if p.LowDiversity {
				flag = "  [LOW DIVERSITY]"
			}
			fmt.Fprintf(&b, "  %s: %d withdrawals, avg fee %s, %d recipients, reuse %.2f%s\n",
				p.Relayer, p.WithdrawalCount, p.AvgFee, p.UniqueRecipients, p.RecipientReuseRate, flag)
		}
		fmt.Fprintln(&b)
	}

	dupes := r.FindingsOf(domain.FindingDuplicateNullifier)
	if len(dupes) > 0 {
		fmt.Fprintln(&b, reportSubRule)
		fmt.Fprintln(&b, "NULLIFIER AUDIT")
		fmt.Fprintln(&b, reportSubRule)
		fmt.Fprintf(&b, "WARNING: %d duplicate nullifier pairs\n", len(dupes))
		for _, f := range dupes {
			fmt.Fprintf(&b, "  [%s] %v\n", f.PoolID, f.TxHashes)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, reportSubRule)
	fmt.Fprintf(&b, "FINDINGS: %d total\n", len(r.Findings))
	byKind := make(map[domain.FindingKind]int)
	for _, f := range r.Findings {
		byKind[f.Kind]++
	}
	for _, kind := range []domain.FindingKind{
		domain.FindingMalformedEvent,
		domain.FindingDuplicateNullifier,
		domain.FindingDuplicateCommitment,
		domain.FindingAnomalousWithdrawal,
		domain.FindingEmptyPool,
		domain.FindingCrossPoolHint,
		domain.FindingLowDiversityRelayer,
	} {
		if n := byKind[kind]; n > 0 {
			fmt.Fprintf(&b, "  %-24s %d\n", kind, n)
		}
	}
	fmt.Fprintln(&b, reportRule)
	return b.String()
}

func joinAddrs(addrs []domain.Address, max int) string {
	parts := make([]string, 0, max+1)
	for i, a := range addrs {
		if i == max {
			parts = append(parts, fmt.Sprintf("(+%d)", len(addrs)-max))
			break
		}
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}
