package auth

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	authsvc "edura/internal/auth"
	"edura/internal/utils"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized is a system fault and comes back as a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var cooldown *authsvc.CooldownError
	var delivery *authsvc.DeliveryError

	switch {
	case errors.As(err, &cooldown):
		utils.JSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: "Please wait before requesting a new OTP",
			Data:    map[string]int{"retryAfter": cooldown.RetryAfter},
		})
	case errors.As(err, &delivery):
		utils.Fail(w, http.StatusBadGateway,
			"Your request was processed but the email could not be sent. Try resending the OTP.")
	case errors.Is(err, authsvc.ErrNotFound):
		utils.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, authsvc.ErrNotVerified),
		errors.Is(err, authsvc.ErrInvalidPassword):
		utils.Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, authsvc.ErrDuplicateEmail),
		errors.Is(err, authsvc.ErrInvalidRole),
		errors.Is(err, authsvc.ErrAlreadyVerified),
		errors.Is(err, authsvc.ErrOTPMismatch),
		errors.Is(err, authsvc.ErrOTPExpired):
		utils.Fail(w, http.StatusBadRequest, err.Error())
	default:
		logrus.WithError(err).Error("auth request failed")
		utils.Fail(w, http.StatusInternalServerError, "Something went wrong")
	}
}
