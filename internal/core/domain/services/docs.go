// Package services provides domain services that span several aggregates of
// the post-purchase domain:
//   - ItemEligibility: how much of each order item may still be cancelled or returned
//   - RefundCalculator: the refundable amount of a set of order lines, split into
//     base, discount, tax and shipping components
//
// Both are pure; they read aggregates and never mutate them.
package services
