package problem

import (
	"errors"
	"fmt"

	"github.com/danmuck/azadio/internal/iodata"
	"github.com/danmuck/azadio/internal/observability"
	"github.com/rs/zerolog/log"
)

// Verdict is the outcome of judging one answer.
type Verdict uint8

const (
	VerdictAccepted Verdict = iota + 1
	VerdictWrongAnswer
)

func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "ac"
	case VerdictWrongAnswer:
		return "wa"
	default:
		return fmt.Sprintf("verdict%d", uint8(v))
	}
}

// Judge compares a produced answer with the expected one. Only the shape of
// the declared return is enforced here; range constraints belong to
// ValidateReturn. A produced answer of the wrong shape or kind is a wrong
// answer. Errors are reserved for a bad declaration or an expected value that
// does not fit it.
func (s Signature) Judge(reg *iodata.Registry, expected, got any, precision float64) (Verdict, error) {
	ok, err := reg.CheckDataType(expected, s.Return.Type, s.Return.Dimension)
	if err != nil {
		return 0, fmt.Errorf("problem: return %s: %w", s.Return, err)
	}
	if !ok {
		return 0, ValidationError{Field: ReturnField, Reason: "expected answer does not fit " + s.Return.String(), Err: iodata.ErrTypeMismatch}
	}

	verdict := VerdictWrongAnswer
	if ok, _ := reg.CheckDataType(got, s.Return.Type, s.Return.Dimension); ok {
		equal, err := iodata.CompareAnswers(precision, expected, got)
		switch {
		case errors.Is(err, iodata.ErrTypeMismatch):
			log.Debug().Err(err).Msg("problem answer kind differs")
		case err != nil:
			return 0, fmt.Errorf("problem: compare: %w", err)
		case equal:
			verdict = VerdictAccepted
		}
	}
	observability.RecordVerdict(verdict.String())
	log.Debug().Str("verdict", verdict.String()).Float64("precision", precision).Msg("problem judged answer")
	return verdict, nil
}
