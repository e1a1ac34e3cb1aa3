package returns

import "postpurchase/internal/core/domain/model/lifecycle"

type Status = lifecycle.ReturnStatus

const (
	Unknown  = lifecycle.ReturnUnknown
	Pending  = lifecycle.ReturnPending
	Approved = lifecycle.ReturnApproved
	Rejected = lifecycle.ReturnRejected
)
