// Package order provides the Order aggregate root and its lifecycle state machine.
//
// The package includes:
//   - Order: identity, purchase details and lifecycle timestamps of a customer order
//   - Status: a linear state machine that enforces Pending -> Processing -> Completed
//   - StatusChanged: the event emitted whenever an order enters a status
//
// Key business rules:
//   - An order is created Pending and stamped with its creation time
//   - The processing start time is recorded exactly once, on entering Processing
//   - The completion time is recorded exactly once, on entering Completed
//   - Status never moves backwards and Completed is final
//
// Durations reported by the aggregate are derived from the stored timestamps and are
// never negative because transitions clamp the supplied time to the previous stamp.
package order
