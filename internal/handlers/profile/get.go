package profile

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"edura/internal/middleware"
	"edura/internal/models"
	"edura/internal/store"
	"edura/internal/utils"
)

var validate = validator.New()

const storeTimeout = 5 * time.Second

// GetHandler returns the user together with whichever role profile exists.
type GetHandler struct {
	Store store.UserStore
}

type profileResponse struct {
	User           *models.User           `json:"user"`
	StudentProfile *models.StudentProfile `json:"student_profile,omitempty"`
	TeacherProfile *models.TeacherProfile `json:"teacher_profile,omitempty"`
}

// ServeHTTP handles GET /profile
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	resp := profileResponse{User: user}
	var err error
	switch user.Role {
	case models.RoleStudent:
		resp.StudentProfile, err = h.Store.GetStudentProfile(ctx, user.ID)
	case models.RoleTeacher:
		resp.TeacherProfile, err = h.Store.GetTeacherProfile(ctx, user.ID)
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logrus.WithError(err).Error("load role profile")
		utils.Fail(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    resp,
	})
}
