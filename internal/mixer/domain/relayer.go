package domain

import "github.com/shopspring/decimal"

// RelayerProfile aggregates every withdrawal one relayer submitted, across
// all pools in the batch.
type RelayerProfile struct {
	Relayer         Address         `json:"relayer"`
	WithdrawalCount int             `json:"withdrawal_count"`
	TotalFee        decimal.Decimal `json:"total_fee"`
	AvgFee          decimal.Decimal `json:"avg_fee"`
	MedianFee       decimal.Decimal `json:"median_fee"`

	// AvgFeeRate is the mean of fee/amount over withdrawals with a nonzero
	// amount.
	AvgFeeRate decimal.Decimal `json:"avg_fee_rate"`

	UniqueRecipients int `json:"unique_recipients"`

	// RecipientReuseRate is the fraction of withdrawals whose recipient had
	// already been served by this relayer. 0 means every recipient was
	// fresh; high values mean the relayer funnels to few addresses.
	RecipientReuseRate float64 `json:"recipient_reuse_rate"`

	// FirstSeen/LastSeen bound the relayer's activity, unix seconds.
	FirstSeen int64 `json:"first_seen"`
	LastSeen  int64 `json:"last_seen"`

	// LowDiversity is set when RecipientReuseRate exceeds the configured
	// threshold. Users of such a relayer get a weaker privacy guarantee.
	LowDiversity bool `json:"low_diversity"`
}

// TimeSpanSeconds is the length of the relayer's active window.
func (p RelayerProfile) TimeSpanSeconds() int64 {
	return p.LastSeen - p.FirstSeen
}
