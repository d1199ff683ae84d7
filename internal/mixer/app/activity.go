package app

import (
	"time"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

// SummarizeActivity buckets event times into daily and hourly histograms
// (UTC) and finds the busiest buckets. Ties resolve to the earlier bucket
// so repeated runs agree.
func SummarizeActivity(times []int64) domain.ActivitySummary {
	s := domain.ActivitySummary{
		Total:  len(times),
		Daily:  make(map[string]int),
		Hourly: make(map[string]int),
	}
	if len(times) == 0 {
		return s
	}

	for _, ts := range times {
		t := time.Unix(ts, 0).UTC()
		day := t.Format("2006-01-02")
		hour := t.Format("2006-01-02 15:00")
		s.Daily[day]++
		s.Hourly[hour]++
	}

	s.MostActiveDay = busiestBucket(s.Daily)
	s.MostActiveHour = busiestBucket(s.Hourly)
	s.AveragePerDay = float64(len(times)) / float64(len(s.Daily))
	return s
}

func busiestBucket(hist map[string]int) string {
	best, bestN := "", -1
	for k, n := range hist {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

func depositTimes(deposits []domain.DepositEvent) []int64 {
	out := make([]int64, len(deposits))
	for i, d := range deposits {
		out[i] = d.BlockTime
	}
	return out
}

func withdrawalTimes(withdrawals []domain.WithdrawalEvent) []int64 {
	out := make([]int64, len(withdrawals))
	for i, w := range withdrawals {
		out[i] = w.BlockTime
	}
	return out
}
