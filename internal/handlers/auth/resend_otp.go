package auth

import (
	"encoding/json"
	"net/http"
	"time"

	authsvc "edura/internal/auth"
	"edura/internal/utils"
)

type ResendOTPHandler struct {
	Service *authsvc.Service
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ServeHTTP handles POST /auth/resend-otp
func (h *ResendOTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.ResendOTP(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "New OTP sent! Check your email.",
		Data:    map[string]int{"expiresIn": int(authsvc.OTPValidity / time.Second)},
	})
}
