// Package errors provides structured error handling for the Archivist engine.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Validation errors
	CodeValidation           Code = "VALIDATION"
	CodePlayerIDEmpty        Code = "PLAYER_ID_EMPTY"
	CodeAxiomEmpty           Code = "AXIOM_EMPTY"
	CodeAxiomUnknown         Code = "AXIOM_UNKNOWN"
	CodeDifficultyOutOfRange Code = "DIFFICULTY_OUT_OF_RANGE"

	// State-lookup errors
	CodeSessionNotFound Code = "SESSION_NOT_FOUND"
	CodeProfileNotFound Code = "PROFILE_NOT_FOUND"

	// Dependency errors
	CodeStoreUnavailable      Code = "STORE_UNAVAILABLE"
	CodeGenerationUnavailable Code = "GENERATION_UNAVAILABLE"
	CodeGenerationFailed      Code = "GENERATION_FAILED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation,
		CodePlayerIDEmpty,
		CodeAxiomEmpty,
		CodeAxiomUnknown,
		CodeDifficultyOutOfRange:
		return http.StatusBadRequest

	case CodeSessionNotFound,
		CodeProfileNotFound:
		return http.StatusNotFound

	case CodeStoreUnavailable,
		CodeGenerationUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
