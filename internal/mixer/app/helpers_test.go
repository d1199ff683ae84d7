package app

import (
	"github.com/shopspring/decimal"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

func addr(n byte) domain.Address {
	var a domain.Address
	a[19] = n
	return a
}

func txid(n byte) domain.TxID {
	var t domain.TxID
	t[31] = n
	return t
}

func hash(n byte) domain.Hash32 {
	var h domain.Hash32
	h[31] = n
	return h
}

func dep(pool domain.PoolID, tx byte, at int64, depositor byte) domain.DepositEvent {
	return domain.DepositEvent{
		Event: domain.Event{
			PoolID:    pool,
			TxHash:    txid(tx),
			BlockTime: at,
			Address:   addr(depositor),
			Amount:    decimal.NewFromInt(1),
		},
		Commitment: hash(tx),
	}
}

func wit(pool domain.PoolID, tx byte, at int64, recipient byte) domain.WithdrawalEvent {
	return domain.WithdrawalEvent{
		Event: domain.Event{
			PoolID:    pool,
			TxHash:    txid(tx),
			BlockTime: at,
			Address:   addr(recipient),
			Amount:    decimal.NewFromInt(1),
		},
		Nullifier: hash(tx),
		Recipient: addr(recipient),
		Fee:       decimal.Zero,
	}
}

func relayedWit(pool domain.PoolID, tx byte, at int64, recipient, relayer byte, fee string) domain.WithdrawalEvent {
	w := wit(pool, tx, at, recipient)
	w.Relayer = addr(relayer)
	w.Fee = decimal.RequireFromString(fee)
	w.Amount = decimal.NewFromInt(10)
	return w
}

// testCfg uses a small 200-second window so boundary cases stay readable.
func testCfg() domain.AnalysisConfig {
	cfg := domain.DefaultAnalysisConfig()
	cfg.MaxDelaySeconds = 200
	return cfg
}
