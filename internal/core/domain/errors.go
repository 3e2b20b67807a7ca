package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, format or processor.
	ErrUnsupportedType = errors.New("unsupported type")

	// Ingestion Errors.

	// ErrSchema indicates the input table is missing required columns.
	ErrSchema = errors.New("input schema invalid")

	// ErrDuplicateID indicates two rows share a document id.
	ErrDuplicateID = errors.New("duplicate document id")

	// Alignment Errors.

	// ErrEmptyText signals that one side of a document pair has no text.
	// It is a skip, recorded as a failed pair, never fatal.
	ErrEmptyText = errors.New("empty text")

	// ErrAlignerFault indicates the aligner itself failed.
	ErrAlignerFault = errors.New("aligner fault")

	// ErrAlignTimeout indicates the aligner did not answer within the per-call timeout.
	ErrAlignTimeout = errors.New("alignment timed out")

	// ErrTooManyFaults indicates the run was aborted after consecutive aligner faults.
	ErrTooManyFaults = errors.New("too many consecutive aligner faults")

	// ErrRunInProgress indicates a pipeline run was started while another is active.
	ErrRunInProgress = errors.New("a run is already in progress")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Output Errors.

	// ErrInvalidPairName indicates a pair name cannot be used as a file name.
	ErrInvalidPairName = errors.New("invalid pair name")

	// ErrCellTooLong indicates a report value exceeds what the report format can hold.
	ErrCellTooLong = errors.New("value too long for report cell")
)

// ReasonFor maps an alignment error to the failure reason recorded for it.
func ReasonFor(err error) FailureReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrEmptyText):
		return ReasonEmptyText
	case errors.Is(err, ErrAlignTimeout):
		return ReasonTimeout
	default:
		return ReasonAlignerFault
	}
}
