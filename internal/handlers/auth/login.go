package auth

import (
	"encoding/json"
	"net/http"

	authsvc "edura/internal/auth"
	"edura/internal/utils"
)

type LoginHandler struct {
	Service *authsvc.Service
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  UserSummary `json:"user"`
	Token string      `json:"token"`
}

// ServeHTTP handles POST /auth/login
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data:    LoginResponse{User: summarize(user), Token: token},
	})
}
