package service

import (
	"math"
	"math/bits"
	"sort"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// Redistributor распределяет целевой итог по фиксированным часовым корзинам
// пропорционально их прежним долям, так что сумма совпадает с целью точно (Domain Service)
type Redistributor struct {
	jitter *Jitterer
}

// NewRedistributor создает новый Redistributor
func NewRedistributor(rnd Random) *Redistributor {
	return &Redistributor{jitter: NewJitterer(rnd)}
}

// Allocate делит target между корзинами методом наибольших остатков.
// Результат неотрицателен и в сумме равен target; отрицательные веса считаются нулевыми.
func Allocate(prior []int64, target int64) []int64 {
	n := len(prior)
	out := make([]int64, n)
	if n == 0 || target <= 0 {
		return out
	}

	var priorSum uint64
	for _, p := range prior {
		priorSum += uint64(max(p, 0))
	}
	if priorSum == 0 {
		priorSum = 1
	}

	remainders := make([]uint64, n)
	var allocated int64
	for i, p := range prior {
		// target*p может не поместиться в 64 бита, поэтому 128-битное умножение
		hi, lo := bits.Mul64(uint64(target), uint64(max(p, 0)))
		q, r := bits.Div64(hi, lo, priorSum)
		out[i] = int64(q)
		remainders[i] = r
		allocated += int64(q)
	}

	diff := target - allocated
	if diff == 0 {
		return out
	}

	// порядок: остаток по убыванию, при равенстве исходный порядок корзин
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})

	each, extra := diff/int64(n), diff%int64(n)
	for rank, idx := range order {
		out[idx] += each
		if int64(rank) < extra {
			out[idx]++
		}
	}

	return out
}

// Redistribute возвращает новые часовые корзины: запросы по Allocate с джиттером ±0.2%,
// ошибки по глобальной доле ошибок, задержка возмущается от прежнего значения
func (r *Redistributor) Redistribute(hours []entity.HourBucket, totals AggregateTotals) []entity.HourBucket {
	prior := make([]int64, len(hours))
	for i, h := range hours {
		prior[i] = h.Requests
	}

	allocation := Allocate(prior, totals.TotalRequests)

	out := make([]entity.HourBucket, len(hours))
	for i, h := range hours {
		h.Requests = r.jitter.JitterInt(allocation[i], 0.002, 0)
		expected := float64(h.Requests) * totals.ErrorRatePercent / 100
		h.Errors = max(0, int64(math.Round(r.jitter.Jitter(expected, 0.05))))
		h.AvgLatencyMs = r.jitter.JitterInt(h.AvgLatencyMs, 0.01, 1)
		out[i] = h
	}

	return out
}
