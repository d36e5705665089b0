// Package score maps sensor readings to site health scores and decides when
// a reading warrants a new alert. Penalty thresholds come from the scoring
// section of the config and can be swapped at runtime.
package score
