// Package clock is the single time source of the module: event timestamps
// and journal documents all read it, so a test can freeze time in one place.
package clock

import "time"

// NowFunc supplies the current time. Swap it for a fixed function when a
// test needs deterministic timestamps.
var NowFunc = time.Now

// Now returns the current time as reported by NowFunc.
func Now() time.Time { return NowFunc() }
