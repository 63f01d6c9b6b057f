package service

// fixedRandom всегда возвращает одни и те же значения.
// f = 0.5 полностью отключает джиттер.
type fixedRandom struct {
	f float64
	n int
}

func (r fixedRandom) Float64() float64 { return r.f }

func (r fixedRandom) IntN(n int) int { return min(r.n, n-1) }

var noJitter = fixedRandom{f: 0.5}
