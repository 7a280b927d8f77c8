package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/priyank071/scooty-rental/internal/rental"
)

// respondRentalError maps a coordination-rule failure onto an HTTP status.
// Every rental error is recoverable: the offending call is rejected and no
// state has changed.
func respondRentalError(c *gin.Context, err error) {
	var transitionErr *rental.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(409, gin.H{"error": err.Error()})
		return
	}

	var (
		validationErr *rental.ValidationError
		fileTypeErr   *rental.UnsupportedFileTypeError
		fileSizeErr   *rental.FileTooLargeError
		emptyErr      *rental.EmptyMessageError
	)
	if errors.As(err, &validationErr) || errors.As(err, &fileTypeErr) ||
		errors.As(err, &fileSizeErr) || errors.As(err, &emptyErr) {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(500, gin.H{"error": err.Error()})
}
