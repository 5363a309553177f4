package errno

import "fmt"

// BizError pairs a stable business code with the underlying cause.
type BizError struct {
	Errno *Errno
	Cause error
}

// NewBizError wraps cause with a business error code.
func NewBizError(errno *Errno, cause error) *BizError {
	return &BizError{Errno: errno, Cause: cause}
}

func (e *BizError) Error() string {
	if e.Cause == nil {
		return e.Errno.Message
	}
	return fmt.Sprintf("%s: %v", e.Errno.Message, e.Cause)
}

func (e *BizError) Unwrap() error {
	return e.Cause
}

// Code returns the business code, falling back to ErrUnknown.
func (e *BizError) Code() int {
	if e.Errno == nil {
		return ErrUnknown.Code
	}
	return e.Errno.Code
}
