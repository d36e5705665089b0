// Package wsclient manages the observer side of the real-time channel: one
// WebSocket connection to the server, event parsing, and reconnection with
// bounded linear backoff. After the retry budget is spent the manager stays
// disconnected; connectivity degrades, the process does not crash.
package wsclient
