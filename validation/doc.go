// Package validation checks inbound payloads against struct tags with
// go-playground/validator. Field names in errors follow the JSON wire names.
//
//	type Join struct {
//	    SessionID string `json:"sessionId" validate:"required,max=16"`
//	}
//	err := validation.Validate(j) // *errors.AppError with code INVALID_INPUT
package validation
