// Package event provides a small topic-based publish/subscribe bus.
//
// Topics use dot notation ("calc.display.changed"). Subscription patterns
// may use "*" to match exactly one segment and "**" to match zero or more
// trailing segments.
//
// Delivery is synchronous: Publish runs every matching handler on the
// caller's goroutine, in subscription order, before returning. A handler
// that panics is recovered and reported as a *HandlerError.
package event
