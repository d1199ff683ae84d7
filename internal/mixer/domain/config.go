package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig is the fatal configuration error class. It is the only
// error that aborts a run, and it is raised before any pool analysis starts.
var ErrInvalidConfig = errors.New("invalid analysis config")

// PoolDefinition declares one known mixing pool: a denomination of one asset
// behind one contract. Records carrying the contract address resolve to ID.
type PoolDefinition struct {
	ID           PoolID `json:"id" mapstructure:"id"`
	Asset        string `json:"asset" mapstructure:"asset"`
	Denomination string `json:"denomination" mapstructure:"denomination"`
	Contract     string `json:"contract" mapstructure:"contract"`
}

// AnalysisConfig carries every tunable of one analysis run.
type AnalysisConfig struct {
	// MaxDelaySeconds is the match window: a withdrawal is a candidate for a
	// deposit iff 0 <= w.BlockTime - d.BlockTime <= MaxDelaySeconds.
	MaxDelaySeconds int64 `json:"max_delay_seconds" mapstructure:"max_delay_seconds"`

	// ScoreFloor is the temporal score at exactly MaxDelaySeconds, in (0,1).
	// The temporal factor decays linearly from 1 at delta 0 to the floor.
	ScoreFloor float64 `json:"score_floor" mapstructure:"score_floor"`

	// ReuseMinTxCount is the occurrence threshold that seeds a reuse
	// cluster: an address seen in at least this many distinct transactions
	// (or in two roles) is reported.
	ReuseMinTxCount int `json:"reuse_min_tx_count" mapstructure:"reuse_min_tx_count"`

	// RelayerDiversityThreshold flags a relayer as low-diversity when its
	// recipient reuse rate exceeds it. In [0,1].
	RelayerDiversityThreshold float64 `json:"relayer_diversity_threshold" mapstructure:"relayer_diversity_threshold"`

	// Workers bounds concurrent per-pool analyses. Zero means one worker
	// per pool up to the partition count.
	Workers int `json:"workers" mapstructure:"workers"`

	// PoolTimeout bounds one pool's analysis. Zero disables the timeout.
	// A timed-out pool is reported cancelled; other pools are unaffected.
	PoolTimeout time.Duration `json:"pool_timeout" mapstructure:"pool_timeout"`

	// Pools is the registry of known pools. Pools listed here are reported
	// even when the batch holds no events for them.
	Pools []PoolDefinition `json:"pools" mapstructure:"pools"`
}

// DefaultPools lists the four sanctioned mainnet ETH pools. Used when the
// configuration declares no pools of its own.
func DefaultPools() []PoolDefinition {
	return []PoolDefinition{
		{ID: "eth-0.1", Asset: "ETH", Denomination: "0.1", Contract: "0x12D66f87A04A9E220743712cE6d9bB1B5616B8Fc"},
		{ID: "eth-1", Asset: "ETH", Denomination: "1", Contract: "0x47CE0C6eD5B0Ce3d3A51fdb1C52DC66a7c3c2936"},
		{ID: "eth-10", Asset: "ETH", Denomination: "10", Contract: "0x910Cbd523D972eb0a6f4cAe4618aD62622b39DbF"},
		{ID: "eth-100", Asset: "ETH", Denomination: "100", Contract: "0xA160cdAB225685dA1d56aa342Ad8841c3b53f291"},
	}
}

// DefaultAnalysisConfig mirrors the tuning the original tool shipped with:
// a two-week window and a 5% diversity margin.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MaxDelaySeconds:           14 * 24 * 3600,
		ScoreFloor:                0.05,
		ReuseMinTxCount:           2,
		RelayerDiversityThreshold: 0.5,
		Workers:                   4,
	}
}

// Validate rejects configs that would corrupt scoring or windowing. All
// violations wrap ErrInvalidConfig.
func (c AnalysisConfig) Validate() error {
	if c.MaxDelaySeconds <= 0 {
		return fmt.Errorf("%w: max_delay_seconds must be positive, got %d", ErrInvalidConfig, c.MaxDelaySeconds)
	}
	if c.ScoreFloor <= 0 || c.ScoreFloor >= 1 {
		return fmt.Errorf("%w: score_floor must be in (0,1), got %g", ErrInvalidConfig, c.ScoreFloor)
	}
	if c.ReuseMinTxCount < 2 {
		return fmt.Errorf("%w: reuse_min_tx_count must be at least 2, got %d", ErrInvalidConfig, c.ReuseMinTxCount)
	}
	if c.RelayerDiversityThreshold < 0 || c.RelayerDiversityThreshold > 1 {
		return fmt.Errorf("%w: relayer_diversity_threshold must be in [0,1], got %g", ErrInvalidConfig, c.RelayerDiversityThreshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.PoolTimeout < 0 {
		return fmt.Errorf("%w: pool_timeout must not be negative, got %s", ErrInvalidConfig, c.PoolTimeout)
	}
	seen := make(map[PoolID]struct{}, len(c.Pools))
	for _, p := range c.Pools {
		if p.ID == "" {
			return fmt.Errorf("%w: pool definition without id", ErrInvalidConfig)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate pool id %q", ErrInvalidConfig, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// PoolByContract builds the contract→pool lookup the normalizer uses to
// resolve records that carry a contract address instead of a pool id.
func (c AnalysisConfig) PoolByContract() map[string]PoolID {
	m := make(map[string]PoolID, len(c.Pools))
	for _, p := range c.Pools {
		if p.Contract != "" {
			m[normalizeHexKey(p.Contract)] = p.ID
		}
	}
	return m
}

func normalizeHexKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// KnownPoolIDs returns the configured pool ids, in declaration order.
func (c AnalysisConfig) KnownPoolIDs() []PoolID {
	ids := make([]PoolID, 0, len(c.Pools))
	for _, p := range c.Pools {
		ids = append(ids, p.ID)
	}
	return ids
}
