// Package errs provides standardized error types for the post-purchase service.
// Every workflow reports failures through these types so that callers can
// classify them with errors.Is against the exported sentinels.
//
// Validation failures:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value breaks a business rule
//   - ValueIsOutOfRangeError: a quantity or amount is outside its bounds
//
// Lookup and state machine failures:
//   - ObjectNotFoundError: an aggregate or item id could not be resolved
//   - InvalidTransitionError: the status graph rejects a (from, to) move
//   - InvalidStateError: the operation needs a state other than the current one
//
// Persistence and integration failures:
//   - ConcurrencyConflictError: an optimistic version check failed
//   - ExternalDependencyError: the payment gateway is unreachable or erroring
//   - AmountMismatchError: child amounts do not add up to the parent total
//
// Each type pairs a sentinel error with a struct carrying the details, a
// constructor, an Error() method and an Unwrap() method.
package errs
