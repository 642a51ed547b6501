package app

import (
	"context"
	"errors"

	"nn-go/internal/model"
	"nn-go/internal/nn"
)

// Operation tracks a CLI command that may mutate the database.
// Operations are created in memory with ID=0. Only mutating commands persist
// them, which gives them an auto-increment ID from the database.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
}

// NewOperation creates a new in-memory operation.
func NewOperation(operation, parameters string) *Operation {
	return &Operation{
		Operation:  operation,
		Parameters: parameters,
		Status:     model.StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Record sets the final status from the outcome of the command. A cancelled
// restore or an interrupted context is "cancelled", not "error".
func (op *Operation) Record(state nn.RestoreState, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		op.Status = model.StatusCancelled
	case err != nil:
		op.Status = model.StatusError
	case state == nn.StateCancelled:
		op.Status = model.StatusCancelled
	default:
		op.Status = model.StatusSuccess
	}
}
