package bigquery

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// IsNotFound returns true if the error indicates a missing table or dataset.
func IsNotFound(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound
	}
	return false
}

// IsAlreadyExists returns true if the error indicates the table was created
// by someone else first.
func IsAlreadyExists(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusConflict
	}
	return false
}
