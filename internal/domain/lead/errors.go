package lead

import "errors"

var (
	ErrLeadNotFound   = errors.New("lead not found")
	ErrStatusConflict = errors.New("lead status changed concurrently")
	ErrEmptyStatus    = errors.New("status must not be empty")
)
