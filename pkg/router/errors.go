package router

import (
	"errors"
	"fmt"
)

// SendErrorKind tells callers whether a send failed before or after reaching the Submitter.
type SendErrorKind uint8

const (
	SendErrorUndefined SendErrorKind = iota
	// SendErrorEncoding means the message could not be encoded. Nothing was submitted.
	SendErrorEncoding
	// SendErrorSubmission means the Submitter rejected the encoded call.
	SendErrorSubmission
)

const (
	encodingString   = "encoding"
	submissionString = "submission"
	undefinedString  = "undefined"
)

func (k SendErrorKind) String() string {
	switch k {
	case SendErrorUndefined:
		return undefinedString
	case SendErrorEncoding:
		return encodingString
	case SendErrorSubmission:
		return submissionString
	default:
		return undefinedString
	}
}

// SendError is returned by Router.Send. The wrapped error carries the stable reason.
type SendError struct {
	Kind SendErrorKind
	Err  error
}

var _ error = (*SendError)(nil)

func NewEncodingError(err error) *SendError {
	return &SendError{Kind: SendErrorEncoding, Err: err}
}

func NewSubmissionError(err error) *SendError {
	return &SendError{Kind: SendErrorSubmission, Err: err}
}

func (e *SendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error", e.Kind)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Err.Error())
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// IsEncodingError reports whether err is a SendError raised before submission.
func IsEncodingError(err error) bool {
	var sendErr *SendError
	return errors.As(err, &sendErr) && sendErr.Kind == SendErrorEncoding
}

// IsSubmissionError reports whether err is a SendError raised by the Submitter.
func IsSubmissionError(err error) bool {
	var sendErr *SendError
	return errors.As(err, &sendErr) && sendErr.Kind == SendErrorSubmission
}
