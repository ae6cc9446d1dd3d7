package auth

import (
	"encoding/json"
	"net/http"

	authsvc "edura/internal/auth"
	"edura/internal/utils"
)

type VerifyEmailHandler struct {
	Service *authsvc.Service
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// ServeHTTP handles POST /auth/verify-email
func (h *VerifyEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Service.VerifyEmail(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Email verified successfully!",
		Data:    summarize(user),
	})
}
