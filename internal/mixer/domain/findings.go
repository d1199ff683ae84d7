package domain

// FindingKind classifies a non-fatal analysis finding. Findings are data,
// not errors: per-record and per-pool conditions never abort a run, they are
// aggregated on the RunResult so the consumer can tell "no signal" apart
// from "data quality suppressed the signal".
type FindingKind string

const (
	// FindingMalformedEvent marks a raw record that failed normalization
	// (missing required field, bad hex, negative or non-numeric amount).
	// The record is dropped and counted.
	FindingMalformedEvent FindingKind = "malformed_event"

	// FindingDuplicateNullifier marks two withdrawals in one pool sharing a
	// nullifier. Protocol-level double-spend is supposed to be impossible,
	// so this is either an indexer fault or a genuine violation.
	FindingDuplicateNullifier FindingKind = "duplicate_nullifier"

	// FindingDuplicateCommitment marks two deposits in one pool sharing a
	// commitment. Always data corruption.
	FindingDuplicateCommitment FindingKind = "duplicate_commitment"

	// FindingAnomalousWithdrawal marks a withdrawal older than every deposit
	// in its pool. It cannot be explained by the batch: deposit data is
	// missing or something leaked across pools.
	FindingAnomalousWithdrawal FindingKind = "anomalous_withdrawal"

	// FindingEmptyPool marks a configured pool with no deposits or no
	// withdrawals in the batch. Informational.
	FindingEmptyPool FindingKind = "empty_pool"

	// FindingCrossPoolHint marks an address active in two or more pools
	// within the match window. A weak secondary signal, deliberately kept
	// out of same-pool confidence scores.
	FindingCrossPoolHint FindingKind = "cross_pool_hint"

	// FindingLowDiversityRelayer marks a relayer whose recipients repeat
	// above the configured threshold. Its users get a weaker guarantee.
	FindingLowDiversityRelayer FindingKind = "low_diversity_relayer"
)

// Finding is one non-fatal analysis observation.
type Finding struct {
	Kind     FindingKind `json:"kind"`
	PoolID   PoolID      `json:"pool_id,omitempty"`
	TxHashes []string    `json:"tx_hashes,omitempty"`
	Address  string      `json:"address,omitempty"`
	Detail   string      `json:"detail"`
}
