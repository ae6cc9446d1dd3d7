package auth

import (
	"net/http"

	"edura/internal/middleware"
	"edura/internal/utils"
)

// MeHandler returns the identity resolved by the auth middleware.
type MeHandler struct{}

// ServeHTTP handles GET /auth/profile
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "User details retrieved successfully",
		Data:    summarize(user),
	})
}
