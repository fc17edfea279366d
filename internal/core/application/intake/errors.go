package intake

import (
	"errors"
	"fmt"

	wzd "orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/domain/validation"
)

var (
	ErrOperationInFlight = errors.New("operation already in flight")
	ErrStaleResponse     = errors.New("response arrived after the wizard moved on")
	ErrWrongStage        = errors.New("operation is not available on the current stage")
	ErrNoOpenItem        = errors.New("no item is open")
	ErrItemAlreadyOpen   = errors.New("another item is open")
	ErrStageIncomplete   = errors.New("stage is not complete")
)

// StageIncompleteError carries the validation result that blocked a stage.
type StageIncompleteError struct {
	Stage  wzd.Stage
	Result validation.Result
}

func (e *StageIncompleteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStageIncomplete, e.Stage, e.Result.Errors)
}

func (e *StageIncompleteError) Unwrap() error {
	return ErrStageIncomplete
}

func wrongStage(op string, stage wzd.Stage) error {
	return fmt.Errorf("%w: %s on %s", ErrWrongStage, op, stage)
}
