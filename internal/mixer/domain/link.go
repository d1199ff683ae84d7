package domain

// CandidateLink is one probabilistic deposit→withdrawal association inside a
// single pool. Links are many-to-many by construction: several withdrawals
// may be candidates for one deposit and vice versa, and no link is ever
// asserted as ground truth. The ambiguity is the anonymity set.
type CandidateLink struct {
	PoolID       PoolID  `json:"pool_id"`
	DepositTx    TxID    `json:"deposit_tx"`
	WithdrawalTx TxID    `json:"withdrawal_tx"`
	Depositor    Address `json:"depositor"`
	Recipient    Address `json:"recipient"`

	// TimeDelta is withdrawal time minus deposit time, in seconds. Always
	// within [0, MaxDelay].
	TimeDelta int64 `json:"time_delta"`

	// Confidence is in (0,1]. Strictly decreasing in TimeDelta and in the
	// size of the contending anonymity set.
	Confidence float64 `json:"confidence"`

	// Contending is the number of deposits whose window covers the
	// withdrawal, i.e. the anonymity set this link competes inside.
	Contending int `json:"contending"`

	Rationale string `json:"rationale"`
}
