package intensity

import "math"

const (
	// gravity is the standard acceleration of gravity in m/s².
	gravity = 9.81

	// DefaultDamping is the SDOF damping ratio used when none is configured.
	DefaultDamping = 0.05

	// DefaultPeriod is the fundamental period assumed for Sa(T1) when the
	// structure under study provides none.
	DefaultPeriod = 0.5
)

// Measures is the fixed-shape intensity measure vector derived from one
// ground-motion signal. Immutable once computed.
type Measures struct {
	PGA      float64 `json:"PGA"`
	PGV      float64 `json:"PGV"`
	SaT1     float64 `json:"Sa_T1"`
	Arias    float64 `json:"Arias"`
	Duration float64 `json:"duration"`
}

// PGA returns the peak ground acceleration, max |a|.
// The sequence is expected to be non-empty; an empty sequence yields 0.
func PGA(acc []float64) float64 {
	var peak float64
	for _, a := range acc {
		if v := math.Abs(a); v > peak {
			peak = v
		}
	}
	return peak
}

// PGV returns the peak ground velocity obtained by cumulative (rectangular)
// integration of the acceleration scaled by dt. The rectangular rule is
// deliberate: it reproduces the reference outputs exactly and must not be
// replaced with trapezoidal integration.
func PGV(acc []float64, dt float64) float64 {
	var vel, peak float64
	for _, a := range acc {
		vel += a * dt
		if v := math.Abs(vel); v > peak {
			peak = v
		}
	}
	return peak
}

// AriasIntensity returns Ia = (π/2g) ∫ a²(t) dt with trapezoidal
// integration over the squared signal.
func AriasIntensity(acc []float64, dt float64) float64 {
	if len(acc) < 2 {
		return 0
	}
	var integral float64
	prev := acc[0] * acc[0]
	for _, a := range acc[1:] {
		sq := a * a
		integral += 0.5 * (prev + sq) * dt
		prev = sq
	}
	return math.Pi / (2 * gravity) * integral
}

// SpectralAcceleration returns the pseudo-spectral acceleration Sa(T, ξ) of
// a single-degree-of-freedom oscillator, computed with the exact
// discrete-time recursive solution of the damped SDOF equation of motion
// (a second-order IIR filter applied to the negated input acceleration).
//
// period == 0 degenerates to PGA. If the filter response goes non-finite,
// the function falls back to PGA and reports it through the second return
// value; callers record the degradation instead of failing the sample.
func SpectralAcceleration(acc []float64, dt, period, damping float64) (sa float64, fallback bool) {
	if period == 0 {
		return PGA(acc), false
	}

	omega := 2 * math.Pi / period
	omegaD := omega * math.Sqrt(1-damping*damping)
	a1 := 2 * math.Exp(-damping*omega*dt) * math.Cos(omegaD*dt)
	a2 := -math.Exp(-2 * damping * omega * dt)
	b0 := dt * dt

	if !isFinite(a1) || !isFinite(a2) || !isFinite(b0) {
		return PGA(acc), true
	}

	// u[i] = a1·u[i-1] + a2·u[i-2] + b0·(-acc[i-1]), zero initial state.
	var uPrev1, uPrev2, sd float64
	for i := range acc {
		var x float64
		if i > 0 {
			x = -acc[i-1]
		}
		u := a1*uPrev1 + a2*uPrev2 + b0*x
		if !isFinite(u) {
			return PGA(acc), true
		}
		if v := math.Abs(u); v > sd {
			sd = v
		}
		uPrev2, uPrev1 = uPrev1, u
	}

	return sd * omega * omega, false
}

// Extract composes the four intensity measures plus the record duration
// into one Measures vector. The second return value reports whether the
// spectral-acceleration computation degraded to its PGA fallback.
func Extract(acc []float64, dt, t1, damping float64) (Measures, bool) {
	sa, fallback := SpectralAcceleration(acc, dt, t1, damping)
	return Measures{
		PGA:      PGA(acc),
		PGV:      PGV(acc, dt),
		SaT1:     sa,
		Arias:    AriasIntensity(acc, dt),
		Duration: float64(len(acc)) * dt,
	}, fallback
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
