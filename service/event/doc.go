// Package event publishes scheduler diagnostics – autorun creation, tick
// begin/finish and flush aborts – through the messaging abstraction, so a
// host can observe the run loop without the core depending on any particular
// observer.
package event
