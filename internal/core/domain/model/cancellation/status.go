package cancellation

import "postpurchase/internal/core/domain/model/lifecycle"

type Status = lifecycle.CancellationStatus

const (
	Unknown  = lifecycle.CancellationUnknown
	Pending  = lifecycle.CancellationPending
	Approved = lifecycle.CancellationApproved
	Rejected = lifecycle.CancellationRejected
)
