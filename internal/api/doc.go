// Package api implements the request/response interface the presentation
// layer reads from: site listings, reading history, active alerts and alert
// dismissal. Every response is a point-in-time snapshot of the store.
package api
