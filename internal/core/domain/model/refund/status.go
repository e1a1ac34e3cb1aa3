package refund

import "postpurchase/internal/core/domain/model/lifecycle"

type Status = lifecycle.RefundStatus

const (
	Unknown    = lifecycle.RefundUnknown
	Pending    = lifecycle.RefundPending
	Processing = lifecycle.RefundProcessing
	Completed  = lifecycle.RefundCompleted
	Failed     = lifecycle.RefundFailed
	Cancelled  = lifecycle.RefundCancelled
)
