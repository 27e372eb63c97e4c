package ammtypes

import "errors"

var errInvalidPubkeyLength = errors.New("ammtypes: decoded pubkey is not 32 bytes")

// DecodeErrorKind enumerates the failure modes a decoder may return, per
// spec.md §4.1's contract.
type DecodeErrorKind uint8

const (
	DecodeErrUnknown DecodeErrorKind = iota
	DecodeErrDiscriminatorMismatch
	DecodeErrOwnerMismatch
	DecodeErrLengthTooShort
	DecodeErrLengthMismatch
	DecodeErrFieldOutOfRange
)

func (k DecodeErrorKind) String() string {
	switch k {
	case DecodeErrDiscriminatorMismatch:
		return "discriminator_mismatch"
	case DecodeErrOwnerMismatch:
		return "owner_mismatch"
	case DecodeErrLengthTooShort:
		return "length_too_short"
	case DecodeErrLengthMismatch:
		return "length_mismatch"
	case DecodeErrFieldOutOfRange:
		return "field_out_of_range"
	default:
		return "unknown"
	}
}

// DecodeError is the typed failure every decoder in pkg/decode/* returns.
type DecodeError struct {
	Kind DecodeErrorKind
	Msg  string
}

func (e *DecodeError) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

func NewDecodeError(kind DecodeErrorKind, msg string) *DecodeError {
	return &DecodeError{Kind: kind, Msg: msg}
}

// Quote-path sentinel errors, per spec.md §6/§7.
var (
	ErrInsufficientTickCoverage = errors.New("ammengine: swap walked past supplied tick-array coverage")
	ErrInsufficientBinCoverage  = errors.New("ammengine: swap walked past supplied bin-array coverage")
	ErrPoolInactive             = errors.New("ammengine: pool topology is not Active")
	ErrDecodeFailure            = errors.New("ammengine: account decode failed")
	ErrUnknownPool              = errors.New("ammengine: pool pubkey not known to the engine")
	ErrMissingDependency        = errors.New("ammengine: a named topology dependency is missing from cache")
)
