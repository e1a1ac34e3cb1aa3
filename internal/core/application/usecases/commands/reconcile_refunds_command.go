package commands

import (
	"errors"
	"fmt"
	"time"

	"postpurchase/internal/pkg/errs"
	"postpurchase/internal/pkg/guard"
)

const DefaultReconcileBatchSize = 100

var ErrReconcileRefundsCommandIsNotConstructed = errors.New(
	"ReconcileRefundsCommand must be created via NewReconcileRefundsCommand constructor",
)

// ReconcileRefundsCommand resolves refunds that have been Processing for longer
// than deadline.
type ReconcileRefundsCommand struct { //nolint:recvcheck //using for validation
	deadline  time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

// NewReconcileRefundsCommand creates the command; a non-positive batchSize
// selects DefaultReconcileBatchSize.
func NewReconcileRefundsCommand(deadline time.Duration, batchSize int) (ReconcileRefundsCommand, error) {
	if deadline <= 0 {
		return ReconcileRefundsCommand{}, errs.NewValueIsInvalidErrorWithCause("deadline", fmt.Errorf("%s is not positive", deadline))
	}
	if batchSize <= 0 {
		batchSize = DefaultReconcileBatchSize
	}
	return ReconcileRefundsCommand{deadline: deadline, batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c ReconcileRefundsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileRefundsCommandIsNotConstructed)
}

func (c ReconcileRefundsCommand) Deadline() time.Duration { return c.deadline }
func (c ReconcileRefundsCommand) BatchSize() int          { return c.batchSize }
