package bundler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Bundler rejections arrive as free text. Classification turns the known
// wordings into typed errors carrying the numeric pairs a caller needs to
// recompute gas and resubmit; everything else falls through to UnknownError
// with the raw message preserved. The patterns track upstream bundler
// wording, so treat this as best-effort enrichment, never as a filter.
var (
	callGasLimitPattern       = regexp.MustCompile(`Call gas limit (\d+) is lower than call gas estimation (\d+)`)
	preVerificationGasPattern = regexp.MustCompile(`Pre-verification gas (\d+) is lower than calculated pre-verification gas (\d+)`)
)

const verificationGasLimitMarker = "AA40 over verificationGasLimit"

// CallGasLimitError reports a callGasLimit below the bundler's estimation.
type CallGasLimitError struct {
	Limit      uint64
	Estimation uint64
}

func (e *CallGasLimitError) Error() string {
	return fmt.Sprintf("call gas limit %d is lower than call gas estimation %d", e.Limit, e.Estimation)
}

// PreVerificationGasError reports a preVerificationGas below the bundler's
// calculation.
type PreVerificationGasError struct {
	Provided   uint64
	Calculated uint64
}

func (e *PreVerificationGasError) Error() string {
	return fmt.Sprintf("pre-verification gas %d is lower than calculated pre-verification gas %d", e.Provided, e.Calculated)
}

// ErrVerificationGasLimit is the AA40 case: verification ran past
// verificationGasLimit. The bundler does not report numbers for it.
var ErrVerificationGasLimit = errors.New("over verificationGasLimit (AA40)")

// UnknownError carries an unclassified bundler error verbatim.
type UnknownError struct {
	Code    int64
	Message string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("bundler error %d: %s", e.Code, e.Message)
}

// ClassifyError maps a relay error message onto the taxonomy, in priority
// order. It never returns nil.
func ClassifyError(code int64, message string) error {
	if m := callGasLimitPattern.FindStringSubmatch(message); m != nil {
		limit, _ := strconv.ParseUint(m[1], 10, 64)
		estimation, _ := strconv.ParseUint(m[2], 10, 64)
		return &CallGasLimitError{Limit: limit, Estimation: estimation}
	}

	if m := preVerificationGasPattern.FindStringSubmatch(message); m != nil {
		provided, _ := strconv.ParseUint(m[1], 10, 64)
		calculated, _ := strconv.ParseUint(m[2], 10, 64)
		return &PreVerificationGasError{Provided: provided, Calculated: calculated}
	}

	if strings.Contains(message, verificationGasLimitMarker) {
		return ErrVerificationGasLimit
	}

	return &UnknownError{Code: code, Message: message}
}
