package domain

// Role is the capacity in which an address appeared in a transaction.
type Role string

const (
	RoleDepositor Role = "depositor"
	RoleRecipient Role = "recipient"
	RoleRelayer   Role = "relayer"
)

// Occurrence is one observed appearance of an address.
type Occurrence struct {
	Role   Role   `json:"role"`
	PoolID PoolID `json:"pool_id"`
	TxHash TxID   `json:"tx_hash"`
}

// ReuseCluster is a set of addresses linked by observed co-occurrence.
// Unlike candidate links this is not a heuristic: reuse is a fact read off
// the chain, so every cluster carries certain confidence. Clusters only
// grow during a run; merging never discards members.
type ReuseCluster struct {
	// Addresses is sorted ascending by hex form, so identical evidence
	// always yields an identical cluster regardless of input order.
	Addresses []Address `json:"addresses"`

	// Occurrences lists every appearance backing the cluster, sorted by
	// (pool, tx, role).
	Occurrences []Occurrence `json:"occurrences"`

	// TxCount is the number of distinct transactions involved.
	TxCount int `json:"tx_count"`

	// Roles is the distinct set of roles observed, sorted.
	Roles []Role `json:"roles"`
}
