// Package ws implements the real-time fan-out channel for riverwatch.
//
// Hub manages the set of open WebSocket connections and broadcasts each
// pipeline event to all of them as it happens. Delivery is best effort
// with no acknowledgment or replay; a backed-up client is dropped so one
// slow observer cannot stall the tick loop.
//
// Every message is the envelope
//
//	{ "type": "sensor_update" | "site_status_update" | "alert_created", "data": ... }
//
// The endpoint is mounted at /ws by the server.
package ws
