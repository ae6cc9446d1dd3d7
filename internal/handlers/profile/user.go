package profile

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"edura/internal/middleware"
	"edura/internal/store"
	"edura/internal/utils"
)

// UserHandler updates the common user fields. Absent fields are left alone;
// only keys present in the body enter the update.
type UserHandler struct {
	Store store.UserStore
}

type UserProfileRequest struct {
	Name         *string `json:"name"`
	ProfileImage *string `json:"profile_image"`
	PhoneNumber  *string `json:"phone_number"`
}

// ServeHTTP handles PUT /profile/user
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req UserProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	updated, err := h.Store.UpdateUserFields(ctx, user.ID, store.UserPatch{
		Name:         req.Name,
		ProfileImage: req.ProfileImage,
		PhoneNumber:  req.PhoneNumber,
	})
	if err != nil {
		logrus.WithError(err).Error("update user profile")
		utils.Fail(w, http.StatusInternalServerError, "Failed to update user profile")
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "User profile updated successfully",
		Data:    updated,
	})
}
