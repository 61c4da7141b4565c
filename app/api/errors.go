package api

import (
	"errors"
	"net/http"

	"github.com/sovereignrcm/rcm-site/app/contact"
	"github.com/sovereignrcm/rcm-site/app/roi"
)

func contactErrorResponse(err error) (int, string) {
	var inputErr *contact.InputError

	switch {
	case errors.Is(err, contact.ErrRateLimited):
		return http.StatusTooManyRequests, contact.MsgRateLimited
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Message
	default:
		return http.StatusInternalServerError, contact.MsgDeliveryFailed
	}
}

func roiErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, roi.ErrUnknownSpecialty):
		return http.StatusBadRequest, "Unknown specialty"
	case errors.Is(err, roi.ErrUnknownField):
		return http.StatusBadRequest, "Unknown field"
	case errors.Is(err, roi.ErrUnknownAction):
		return http.StatusBadRequest, "Unknown action"
	case errors.Is(err, roi.ErrInvalidProfile):
		return http.StatusBadRequest, "Invalid profile"
	default:
		return http.StatusInternalServerError, "Failed to estimate"
	}
}
