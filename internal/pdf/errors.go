package pdf

import (
	"errors"
	"fmt"
)

// ErrNoPages is returned by SplitByPages when there is nothing to copy.
var ErrNoPages = errors.New("no pages selected")

// ErrNotPDF is returned for input that does not start with a PDF header.
var ErrNotPDF = errors.New("document is not a PDF")

// DecodeError reports document bytes that could not be parsed. It is fatal for the
// operation that produced it; no partial results accompany it.
type DecodeError struct {
	Op   string
	Page int // 1-based page being decoded, 0 when the whole document failed
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("decode %s (page %d): %v", e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// recoverDecode converts a panic raised by the PDF library into a *DecodeError.
func recoverDecode(op string, page int, errp *error) {
	if r := recover(); r != nil {
		*errp = &DecodeError{Op: op, Page: page, Err: fmt.Errorf("%v", r)}
	}
}
