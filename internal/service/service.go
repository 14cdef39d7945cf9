// Package service contains the business logic.
//
// It sits between the handler and pinning layers.
// It receives validated data from the handler, applies the dispatch
// policy (timeouts, error collapsing), and calls the pinning provider
// to interact with the upstream network
package service
