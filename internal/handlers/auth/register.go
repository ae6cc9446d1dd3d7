package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	authsvc "edura/internal/auth"
	"edura/internal/models"
	"edura/internal/utils"
)

var validate = validator.New()

// UserSummary is the user shape returned by the auth endpoints. No hash, no
// OTP fields.
type UserSummary struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	IsVerified bool        `json:"is_verified"`
}

func summarize(u *models.User) UserSummary {
	return UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}

type RegisterHandler struct {
	Service *authsvc.Service
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

// ServeHTTP handles POST /auth/register
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Service.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)

	var delivery *authsvc.DeliveryError
	if errors.As(err, &delivery) && user != nil {
		// the account exists and expects this OTP; the caller has to know
		// the email may not have arrived
		utils.JSON(w, http.StatusBadGateway, utils.APIResponse{
			Success: false,
			Message: "User registered, but the OTP email could not be sent. Use resend-otp.",
			Data:    summarize(user),
		})
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "User registered! Check your email for the OTP.",
		Data:    summarize(user),
	})
}
