// Package intensity computes scalar ground-motion intensity measures from
// acceleration time histories: peak ground acceleration and velocity, Arias
// intensity, and pseudo-spectral acceleration of a damped SDOF oscillator.
//
// All functions are pure and deterministic. The integration rules are
// normative: PGV uses rectangular (cumulative-sum) integration and Arias
// intensity uses trapezoidal integration, so outputs match the reference
// datasets bit-for-bit.
package intensity
