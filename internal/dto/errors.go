package dto

import (
	"errors"
	"fmt"
)

var (
	ErrLotNotFound       = errors.New("lot not found")
	ErrMalformedPayload  = errors.New("malformed upstream payload")
	ErrVisionImageFormat = errors.New("vision model rejected image format")
)

// LotNotFoundError is the only terminal pipeline failure.
type LotNotFoundError struct {
	LotID string
	Site  Site
}

func (e *LotNotFoundError) Error() string {
	return fmt.Sprintf("%s not found on %s", e.LotID, e.Site.Name())
}

func (e *LotNotFoundError) Is(target error) bool {
	return target == ErrLotNotFound
}

// ValidationError is surfaced to callers as HTTP 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// BranchError tags a failure with the pipeline branch it happened in.
type BranchError struct {
	Branch string
	Err    error
}

func (e *BranchError) Error() string {
	return fmt.Sprintf("%s branch: %v", e.Branch, e.Err)
}

func (e *BranchError) Unwrap() error {
	return e.Err
}
