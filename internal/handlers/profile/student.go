package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"edura/internal/middleware"
	"edura/internal/models"
	"edura/internal/store"
	"edura/internal/utils"
)

// StudentHandler upserts the student-specific profile for the caller.
// Role-gated to STUDENT at the route.
type StudentHandler struct {
	Store store.UserStore
}

type StudentProfileRequest struct {
	EducationLevel *string `json:"education_level"`
	Institution    *string `json:"institution"`
	GuardianName   *string `json:"guardian_name"`
	GuardianPhone  *string `json:"guardian_phone"`
	GuardianEmail  *string `json:"guardian_email" validate:"omitempty,email"`
	DateOfBirth    *string `json:"date_of_birth"` // YYYY-MM-DD
	Address        *string `json:"address"`
}

// ServeHTTP handles PUT /profile/student
func (h *StudentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req StudentProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	var dob *time.Time
	if req.DateOfBirth != nil {
		t, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			utils.Fail(w, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			return
		}
		dob = &t
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	p := models.StudentProfile{
		UserID:         user.ID,
		EducationLevel: req.EducationLevel,
		Institution:    req.Institution,
		GuardianName:   req.GuardianName,
		GuardianPhone:  req.GuardianPhone,
		GuardianEmail:  req.GuardianEmail,
		DateOfBirth:    dob,
		Address:        req.Address,
	}
	if err := h.Store.UpsertStudentProfile(ctx, p); err != nil {
		logrus.WithError(err).Error("upsert student profile")
		utils.Fail(w, http.StatusInternalServerError, "Failed to update student profile")
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Student profile updated successfully",
		Data:    p,
	})
}
