package rental

import (
	"strings"

	"github.com/priyank071/scooty-rental/internal/models"
)

// MaxAttachmentSize is the upload limit for chat attachments (5 MiB).
const MaxAttachmentSize = 5 << 20

var allowedAttachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

// ValidateAttachment checks a chat upload against the allowed content types
// and size limit, returning the message kind the stored file maps to.
func ValidateAttachment(contentType string, size int64) (models.MessageKind, error) {
	// Strip any media type parameters ("image/png; charset=binary")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	contentType = strings.ToLower(contentType)

	if !allowedAttachmentTypes[contentType] {
		return "", &UnsupportedFileTypeError{ContentType: contentType}
	}
	if size > MaxAttachmentSize {
		return "", &FileTooLargeError{Size: size}
	}

	if strings.HasPrefix(contentType, "image/") {
		return models.MessageKindImage, nil
	}
	return models.MessageKindDocument, nil
}

// ValidateMessageContent rejects messages that are blank after trimming and
// returns the trimmed content otherwise.
func ValidateMessageContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", &EmptyMessageError{}
	}
	return trimmed, nil
}
