// Package sim drives the periodic telemetry cycle. A Simulator ticks on a
// fixed period, and each tick synthesizes a perturbed sensor reading for
// every online site, scores it, persists the results and broadcasts the
// updates. Seed installs the initial sites, readings and sample alerts at
// process start.
package sim
