package service

import "math"

// Random источник случайности для симуляции.
// *rand.Rand из math/rand/v2 удовлетворяет этому интерфейсу.
type Random interface {
	// Float64 возвращает число в [0.0, 1.0)
	Float64() float64
	// IntN возвращает число в [0, n)
	IntN(n int) int
}

// Jitterer применяет ограниченные случайные отклонения к значениям (Domain Service)
type Jitterer struct {
	rnd Random
}

// NewJitterer создает новый Jitterer
func NewJitterer(rnd Random) *Jitterer {
	return &Jitterer{rnd: rnd}
}

// Jitter возвращает value + uniform(-value*pct, value*pct).
// Источник, возвращающий 0.5, дает value без изменений.
func (j *Jitterer) Jitter(value, pct float64) float64 {
	delta := value * pct
	return value + (-delta + 2*delta*j.rnd.Float64())
}

// JitterInt округляет результат Jitter и не допускает значений меньше floor
func (j *Jitterer) JitterInt(value int64, pct float64, floor int64) int64 {
	return max(floor, int64(math.Round(j.Jitter(float64(value), pct))))
}

// Clamp ограничивает значение диапазоном [lo, hi]
func Clamp(value, lo, hi float64) float64 {
	return max(lo, min(hi, value))
}

// RoundTo округляет значение до places знаков после запятой
func RoundTo(value float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(value*p) / p
}

// basisPoints переводит процент с двумя знаками в сотые доли процента
func basisPoints(percent float64) int64 {
	return int64(math.Round(percent * 100))
}

// percentOf возвращает floor(total * percent / 100) без погрешности float
func percentOf(total int64, percent float64) int64 {
	bp := basisPoints(percent)
	if total <= 0 || bp <= 0 {
		return 0
	}
	return total * bp / 10000
}
