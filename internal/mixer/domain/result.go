package domain

// PoolStatus reports how one pool's analysis ended.
type PoolStatus string

const (
	// PoolStatusOK means the pool completed.
	PoolStatusOK PoolStatus = "ok"
	// PoolStatusCancelled means the pool hit its timeout or the run was
	// cancelled before it finished. Results from other pools remain valid.
	PoolStatusCancelled PoolStatus = "cancelled"
	// PoolStatusEmpty means the pool had no deposits or no withdrawals.
	PoolStatusEmpty PoolStatus = "empty"
)

// PoolResult is the per-pool slice of a run.
type PoolResult struct {
	PoolID          PoolID     `json:"pool_id"`
	Status          PoolStatus `json:"status"`
	DepositCount    int        `json:"deposit_count"`
	WithdrawalCount int        `json:"withdrawal_count"`
	LinkCount       int        `json:"link_count"`

	DepositActivity    ActivitySummary `json:"deposit_activity"`
	WithdrawalActivity ActivitySummary `json:"withdrawal_activity"`
}

// ActivitySummary is the temporal usage histogram of one event stream,
// bucketed by day ("2006-01-02") and by hour ("2006-01-02 15:00"), UTC.
type ActivitySummary struct {
	Total          int            `json:"total"`
	Daily          map[string]int `json:"daily"`
	Hourly         map[string]int `json:"hourly"`
	MostActiveDay  string         `json:"most_active_day,omitempty"`
	MostActiveHour string         `json:"most_active_hour,omitempty"`
	AveragePerDay  float64        `json:"average_per_day"`
}

// BatchStats counts what normalization did to the raw input.
type BatchStats struct {
	RawRecords   int `json:"raw_records"`
	Malformed    int `json:"malformed"`
	Deduplicated int `json:"deduplicated"`
	Normalized   int `json:"normalized"`
}

// RunResult is the immutable artifact of one analysis run. Re-running on an
// identical batch reproduces every field except RunID and GeneratedAt.
type RunResult struct {
	RunID       string `json:"run_id"`
	GeneratedAt int64  `json:"generated_at"`

	// FromTime/ToTime bound the analyzed events, unix seconds. Zero when
	// the batch was empty.
	FromTime int64 `json:"from_time"`
	ToTime   int64 `json:"to_time"`

	Stats BatchStats   `json:"stats"`
	Pools []PoolResult `json:"pools"` // sorted by pool id

	Links    []CandidateLink  `json:"links"`
	Clusters []ReuseCluster   `json:"clusters"`
	Relayers []RelayerProfile `json:"relayers"`
	Findings []Finding        `json:"findings"`

	DepositActivity    ActivitySummary `json:"deposit_activity"`
	WithdrawalActivity ActivitySummary `json:"withdrawal_activity"`

	Graph GraphData `json:"graph"`
}

// FindingsOf filters the run's findings by kind.
func (r *RunResult) FindingsOf(kind FindingKind) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// PoolResultFor returns the per-pool result, if the pool was analyzed.
func (r *RunResult) PoolResultFor(id PoolID) (PoolResult, bool) {
	for _, p := range r.Pools {
		if p.PoolID == id {
			return p, true
		}
	}
	return PoolResult{}, false
}
