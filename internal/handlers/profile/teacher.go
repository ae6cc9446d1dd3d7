package profile

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"edura/internal/middleware"
	"edura/internal/models"
	"edura/internal/store"
	"edura/internal/utils"
)

// TeacherHandler upserts the teacher-specific profile for the caller.
// Role-gated to TEACHER at the route.
type TeacherHandler struct {
	Store store.UserStore
}

type TeacherProfileRequest struct {
	Education      *string `json:"education"`
	Specialization *string `json:"specialization"`
	Experience     *int    `json:"experience" validate:"omitempty,min=0"`
	Institution    *string `json:"institution"`
	Certifications *string `json:"certifications"`
	Bio            *string `json:"bio"`
}

// ServeHTTP handles PUT /profile/teacher
func (h *TeacherHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req TeacherProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	p := models.TeacherProfile{
		UserID:         user.ID,
		Education:      req.Education,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Institution:    req.Institution,
		Certifications: req.Certifications,
		Bio:            req.Bio,
	}
	if err := h.Store.UpsertTeacherProfile(ctx, p); err != nil {
		logrus.WithError(err).Error("upsert teacher profile")
		utils.Fail(w, http.StatusInternalServerError, "Failed to update teacher profile")
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Teacher profile updated successfully",
		Data:    p,
	})
}
