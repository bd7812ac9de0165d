package commands

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrProcessOrderCommandIsNotConstructed = errors.New(
		"ProcessOrderCommand must be created via NewProcessOrderCommand constructor",
	)
)

// ProcessOrderCommand runs one order through Processing to Completed.
type ProcessOrderCommand struct { //nolint:recvcheck //using for validation
	id int64

	guard guard.ConstructorGuard
}

func NewProcessOrderCommand(id int64) (ProcessOrderCommand, error) {
	cmd := ProcessOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setID(id); err != nil {
		return ProcessOrderCommand{}, err
	}

	return cmd, nil
}

func (c ProcessOrderCommand) Validate() error {
	return c.guard.Validate(ErrProcessOrderCommandIsNotConstructed)
}

// ID returns the surrogate id of the order to process.
func (c ProcessOrderCommand) ID() int64 {
	return c.id
}

func (c *ProcessOrderCommand) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id is invalid", fmt.Errorf("%d is not greater than 0", id))
	}

	c.id = id
	return nil
}

// Delays are the simulated work durations of the processing pipeline.
type Delays struct {
	// Acquisition is waited before the order enters Processing.
	Acquisition time.Duration

	// ProcessingMin and ProcessingMax bound the uniformly random wait before Completed.
	ProcessingMin time.Duration
	ProcessingMax time.Duration
}

// DefaultDelays returns the production timings: 2s acquisition and 3s to 7s of work.
func DefaultDelays() Delays {
	return Delays{
		Acquisition:   2 * time.Second,
		ProcessingMin: 3 * time.Second,
		ProcessingMax: 7 * time.Second,
	}
}

// Validate checks that no delay is negative and that the processing bounds are ordered.
func (d Delays) Validate() error {
	if d.Acquisition < 0 {
		return errs.NewValueIsInvalidErrorWithCause("acquisition delay is invalid", fmt.Errorf("%s is negative", d.Acquisition))
	}

	if d.ProcessingMin < 0 || d.ProcessingMax < d.ProcessingMin {
		return errs.NewValueIsInvalidErrorWithCause(
			"processing delay is invalid",
			fmt.Errorf("range [%s, %s] is empty or negative", d.ProcessingMin, d.ProcessingMax),
		)
	}

	return nil
}
