package app

import (
	"fmt"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

// AuditPoolIntegrity checks the per-pool uniqueness invariants: nullifiers
// across withdrawals and commitments across deposits. Violations are
// findings, never aborts — a duplicate observed on-chain is exactly the kind
// of signal the consumer must see, whether it is an indexer fault or a real
// protocol violation. Each conflicting pair is reported exactly once, with
// both transaction hashes.
func AuditPoolIntegrity(p PoolPartition) []domain.Finding {
	var findings []domain.Finding

	seenNullifier := make(map[domain.Hash32][]domain.TxID, len(p.Withdrawals))
	for _, w := range p.Withdrawals {
		for _, prev := range seenNullifier[w.Nullifier] {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingDuplicateNullifier,
				PoolID:   p.PoolID,
				TxHashes: []string{prev.String(), w.TxHash.String()},
				Detail: fmt.Sprintf("nullifier %s spent twice; double-spend attempt or indexer corruption",
					w.Nullifier),
			})
		}
		seenNullifier[w.Nullifier] = append(seenNullifier[w.Nullifier], w.TxHash)
	}

	seenCommitment := make(map[domain.Hash32][]domain.TxID, len(p.Deposits))
	for _, d := range p.Deposits {
		for _, prev := range seenCommitment[d.Commitment] {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingDuplicateCommitment,
				PoolID:   p.PoolID,
				TxHashes: []string{prev.String(), d.TxHash.String()},
				Detail: fmt.Sprintf("commitment %s deposited twice; input data is corrupt",
					d.Commitment),
			})
		}
		seenCommitment[d.Commitment] = append(seenCommitment[d.Commitment], d.TxHash)
	}

	return findings
}
