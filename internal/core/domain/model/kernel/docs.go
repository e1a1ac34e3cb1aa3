// Package kernel provides the value objects shared by every aggregate of the
// post-purchase domain:
//   - UUID: identifier of aggregates and their child entities
//   - Money: a non-negative amount with two decimal places
//
// Both are immutable and safe for concurrent use. The zero UUID is invalid;
// the zero Money is 0.00.
package kernel
