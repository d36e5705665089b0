// Package store holds the in-memory collections backing the telemetry
// pipeline: monitoring sites, sensor readings and alerts.
//
// The Store is constructed once at process start and injected into the
// scheduler and the HTTP layer; nothing else retains a long-lived copy of
// its contents; readers always re-query. Readings and alert histories are
// kept for the lifetime of the process, there is no eviction.
package store
