// Package service owns the book table of the matching engine.
//
// Engine resolves symbols to slots, serializes access to each slot's
// book and feeds logs and metrics. The books themselves know nothing
// about symbols, locking or observability.
package service
