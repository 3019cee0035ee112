// Package estimate computes advisory brute-force feasibility numbers
// from a scheme's entropy and an assumed attempt rate. Everything here
// is pure: no live run data ever feeds back in.
package estimate

import "math"

// BatchesPerSecond is the assumed per-worker scheduling throughput used
// to turn configuration knobs into an attempt rate.
const BatchesPerSecond = 10

// exactLimit is the largest space size for which the exact probability
// formula is numerically trustworthy in a float64.
const exactLimit = 1 << 52

// AttemptsPerSecond derives the assumed aggregate attempt rate from the
// worker count and batch size.
func AttemptsPerSecond(workers, batchSize int) float64 {
	return float64(workers) * float64(batchSize) * BatchesPerSecond
}

// Combinations returns the search-space size for an entropy rating,
// 2^bits. Overflows to +Inf for very large ratings, which downstream
// formulas handle.
func Combinations(bits float64) float64 {
	return math.Exp2(bits)
}

// ExpectedTimeToMatchSeconds is the average-case time to find a
// uniformly random target: half the space at the assumed rate.
func ExpectedTimeToMatchSeconds(bits, attemptsPerSecond float64) float64 {
	if attemptsPerSecond <= 0 {
		return math.Inf(1)
	}
	return Combinations(bits) / 2 / attemptsPerSecond
}

// ProbabilityOfMatch returns the chance of having found the target
// after the given time at the assumed rate.
//
// For small spaces and few attempts the exact independent-sampling form
// 1-(1-1/c)^n is used; beyond that the linear approximation min(1, n/c)
// takes over — the two converge for n much smaller than c, and the
// exponentiation is numerically unstable for huge c.
func ProbabilityOfMatch(bits, attemptsPerSecond, afterSeconds float64) float64 {
	c := Combinations(bits)
	if c < 1 || attemptsPerSecond <= 0 || afterSeconds <= 0 {
		return 0
	}
	n := attemptsPerSecond * afterSeconds

	if c <= exactLimit && n <= 0.1*c {
		return 1 - math.Pow(1-1/c, n)
	}
	return math.Min(1, n/c)
}
