// Package domain holds the sentinel errors and validation type shared by
// every layer. State machine types live in domain/fsm, the order lifecycle
// in domain/order, and the Result and Option algebra in domain/result and
// domain/option.
package domain
