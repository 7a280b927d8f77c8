package rental

import (
	"fmt"

	"github.com/priyank071/scooty-rental/internal/models"
)

// ValidationError reports a rejected input field. The operation that raised it
// made no state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports an illegal booking status change.
type InvalidTransitionError struct {
	From models.BookingStatus
	To   models.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move booking from %s to %s", e.From, e.To)
}

// UnsupportedFileTypeError reports an attachment rejected by content type.
type UnsupportedFileTypeError struct {
	ContentType string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q: only JPG, PNG and PDF are accepted", e.ContentType)
}

// FileTooLargeError reports an attachment over the size limit.
type FileTooLargeError struct {
	Size int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file of %d bytes exceeds the %d byte limit", e.Size, MaxAttachmentSize)
}

// EmptyMessageError reports a chat message that is blank after trimming.
type EmptyMessageError struct{}

func (e *EmptyMessageError) Error() string {
	return "message content is empty"
}
