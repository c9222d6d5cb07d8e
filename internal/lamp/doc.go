// Package lamp implements the HTTP client for a network-attached smart lamp.
//
// The lamp runs a small web server and is controlled with plain GET
// requests:
//
//	GET /on                  turn the lamp on
//	GET /off                 turn the lamp off
//	GET /status              query state (optional JSON body)
//	GET /timeout?minutes=N   set (N>0) or cancel (N=0) the auto-off timer
//
// The status body, when present, is a JSON object:
//
//	{"on": true, "timeoutActive": true, "remainingSeconds": 125}
//
// All fields default when absent. A body that does not decode is treated as
// "no status data", not as a failure - only transport errors and non-2xx
// responses fail an operation.
//
// Timer minutes are clamped to [0, 720] before sending; the device itself
// tracks and enforces the countdown.
package lamp
