package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
	"github.com/rlaaudgjs5638/mixAnalyzer/shared/logger"
	"github.com/rlaaudgjs5638/mixAnalyzer/shared/workflow/workerpool"
)

// Analyzer runs the full correlation pipeline over one raw batch:
// normalize → partition → per-pool {match, audit} on the worker pool →
// batch-level {reuse, relayer, cross-pool, activity} → graph merge.
//
// Every run allocates fresh state and returns an immutable result; nothing
// survives between runs, which is what makes per-pool work safe to
// parallelize without locks.
type Analyzer struct {
	cfg  domain.AnalysisConfig
	norm *Normalizer
}

// NewAnalyzer validates the config up front. An invalid window or threshold
// is the one fatal error class, and it fires before any pool is touched.
func NewAnalyzer(cfg domain.AnalysisConfig) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg, norm: NewNormalizer(cfg)}, nil
}

// Config returns the run configuration.
func (a *Analyzer) Config() domain.AnalysisConfig {
	return a.cfg
}

// poolJob is one pool's analysis unit for the worker pool. The job owns its
// outcome slot; nothing else writes it, so no locking is needed around the
// fan-in.
type poolJob struct {
	partition PoolPartition
	cfg       domain.AnalysisConfig

	status   domain.PoolStatus
	links    []domain.CandidateLink
	findings []domain.Finding
}

func (j *poolJob) Do(ctx context.Context) error {
	if j.cfg.PoolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.cfg.PoolTimeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		j.status = domain.PoolStatusCancelled
		return err
	}

	links, matchFindings := MatchPool(j.partition, j.cfg)

	if err := ctx.Err(); err != nil {
		j.status = domain.PoolStatusCancelled
		return err
	}

	auditFindings := AuditPoolIntegrity(j.partition)

	if err := ctx.Err(); err != nil {
		j.status = domain.PoolStatusCancelled
		return err
	}

	j.links = links
	j.findings = append(matchFindings, auditFindings...)
	if j.partition.IsEmpty() {
		j.status = domain.PoolStatusEmpty
	} else {
		j.status = domain.PoolStatusOK
	}
	return nil
}

// Run analyzes one raw batch. Per-record and per-pool problems surface as
// findings on the result; the only error Run itself returns is a cancelled
// parent context before any work could complete.
func (a *Analyzer) Run(ctx context.Context, records []domain.RawRecord) (*domain.RunResult, error) {
	started := time.Now()

	batch, findings, stats := a.norm.Normalize(records)
	logger.Infof("normalized %d/%d records (%d malformed, %d duplicate)",
		stats.Normalized, stats.RawRecords, stats.Malformed, stats.Deduplicated)

	partitions := PartitionByPool(batch, a.cfg.KnownPoolIDs())

	jobs := make([]*poolJob, len(partitions))
	jobChan := make(chan workerpool.Job, len(partitions))
	for i, p := range partitions {
		jobs[i] = &poolJob{partition: p, cfg: a.cfg, status: domain.PoolStatusCancelled}
		jobChan <- jobs[i]
	}
	close(jobChan)

	workers := a.cfg.Workers
	if workers == 0 || workers > len(partitions) {
		workers = len(partitions)
	}
	if len(partitions) > 0 {
		pool := workerpool.New(ctx, workers, jobChan)
		pool.Wait()
	}

	if err := ctx.Err(); err != nil && allCancelled(jobs) {
		return nil, fmt.Errorf("analysis cancelled before any pool completed: %w", err)
	}

	// Fan-in. Jobs are already in pool-id order, so plain concatenation is
	// deterministic regardless of which worker finished first.
	result := &domain.RunResult{
		RunID:       uuid.New().String(),
		GeneratedAt: started.Unix(),
		Stats:       stats,
		Findings:    findings,
	}
	for _, j := range jobs {
		pr := domain.PoolResult{
			PoolID:             j.partition.PoolID,
			Status:             j.status,
			DepositCount:       len(j.partition.Deposits),
			WithdrawalCount:    len(j.partition.Withdrawals),
			LinkCount:          len(j.links),
			DepositActivity:    SummarizeActivity(depositTimes(j.partition.Deposits)),
			WithdrawalActivity: SummarizeActivity(withdrawalTimes(j.partition.Withdrawals)),
		}
		result.Pools = append(result.Pools, pr)
		result.Links = append(result.Links, j.links...)
		result.Findings = append(result.Findings, j.findings...)

		if j.status == domain.PoolStatusEmpty {
			result.Findings = append(result.Findings, domain.Finding{
				Kind:   domain.FindingEmptyPool,
				PoolID: j.partition.PoolID,
				Detail: fmt.Sprintf("pool has %d deposits and %d withdrawals; no correlation possible",
					len(j.partition.Deposits), len(j.partition.Withdrawals)),
			})
		}
	}

	// Batch-level passes. Reuse and relayer aggregation cross pool
	// boundaries by definition, so they run on the merged batch.
	clusters, reusePairs := DetectReuse(batch, a.cfg)
	result.Clusters = clusters

	profiles, relayerFindings := ProfileRelayers(batch.Withdrawals, a.cfg)
	result.Relayers = profiles
	result.Findings = append(result.Findings, relayerFindings...)

	result.Findings = append(result.Findings, CrossPoolHints(batch, a.cfg)...)

	result.DepositActivity = SummarizeActivity(depositTimes(batch.Deposits))
	result.WithdrawalActivity = SummarizeActivity(withdrawalTimes(batch.Withdrawals))

	result.FromTime, result.ToTime = timeBounds(batch)

	builder := NewGraphBuilder()
	builder.AddLinks(result.Links)
	builder.AddReusePairs(reusePairs)
	builder.AddRelayerUsage(batch.Withdrawals)
	result.Graph = builder.Build()

	logger.Infof("run %s: %d pools, %d links, %d clusters, %d relayers, %d findings in %s",
		result.RunID, len(result.Pools), len(result.Links), len(result.Clusters),
		len(result.Relayers), len(result.Findings), time.Since(started))
	return result, nil
}

func allCancelled(jobs []*poolJob) bool {
	for _, j := range jobs {
		if j.status != domain.PoolStatusCancelled {
			return false
		}
	}
	return len(jobs) > 0
}

func timeBounds(batch domain.EventBatch) (int64, int64) {
	var from, to int64
	seen := false
	visit := func(t int64) {
		if !seen {
			from, to = t, t
			seen = true
			return
		}
		if t < from {
			from = t
		}
		if t > to {
			to = t
		}
	}
	for _, d := range batch.Deposits {
		visit(d.BlockTime)
	}
	for _, w := range batch.Withdrawals {
		visit(w.BlockTime)
	}
	return from, to
}
