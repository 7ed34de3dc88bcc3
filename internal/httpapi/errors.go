package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/logboard/internal/common"
)

// errBadRequest marks malformed input: bodies, path indexes, dates.
var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, common.ErrUnknownUser),
		errors.Is(err, common.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrAdminAuth):
		return http.StatusForbidden
	case errors.Is(err, common.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, common.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrEntryClosed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrStoreUnavailable),
		errors.Is(err, common.ErrBackupFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
