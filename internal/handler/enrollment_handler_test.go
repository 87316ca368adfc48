package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/models"
	"github.com/edupress/academy-api/internal/service"
)

type fakeEnrollmentService struct {
	granted  dto.EnrollmentResponse
	grantErr error
	lastID   uint
}

func (f *fakeEnrollmentService) ListByCourse(context.Context, auth.Scope, uint) ([]dto.EnrollmentResponse, error) {
	return []dto.EnrollmentResponse{f.granted}, nil
}

func (f *fakeEnrollmentService) Grant(_ context.Context, _ auth.Scope, _ service.ActivityActor, payload dto.GrantAccessRequest) (dto.EnrollmentResponse, error) {
	if f.grantErr != nil {
		return dto.EnrollmentResponse{}, f.grantErr
	}
	f.granted.UserID = payload.UserID
	f.granted.CourseID = payload.CourseID
	return f.granted, nil
}

func (f *fakeEnrollmentService) Revoke(_ context.Context, _ auth.Scope, _ service.ActivityActor, id uint) (dto.EnrollmentResponse, error) {
	f.lastID = id
	response := f.granted
	response.Status = models.EnrollmentStatusRevoked
	return response, nil
}

func (f *fakeEnrollmentService) Restore(_ context.Context, _ auth.Scope, _ service.ActivityActor, id uint) (dto.EnrollmentResponse, error) {
	f.lastID = id
	response := f.granted
	response.Status = models.EnrollmentStatusActive
	return response, nil
}

func (f *fakeEnrollmentService) Delete(_ context.Context, _ auth.Scope, _ service.ActivityActor, id uint) error {
	f.lastID = id
	return nil
}

func enrollmentTestApp(svc service.EnrollmentService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_role", "admin")
		c.Locals("user_email", "admin@example.com")
		return c.Next()
	})
	h := NewEnrollmentHandler(svc, zerolog.Nop())
	h.Register(app.Group("/enrollments"))
	h.RegisterCourseRoutes(app.Group("/courses"))
	return app
}

func TestEnrollmentHandlerGrantCreated(t *testing.T) {
	svc := &fakeEnrollmentService{granted: dto.EnrollmentResponse{ID: 9, Status: models.EnrollmentStatusActive}}
	app := enrollmentTestApp(svc)

	body := strings.NewReader(`{"user_id":7,"course_id":3}`)
	req := httptest.NewRequest(http.MethodPost, "/enrollments", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var payload struct {
		Success bool                   `json:"success"`
		Data    dto.EnrollmentResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Equal(t, uint(7), payload.Data.UserID)
	require.Equal(t, uint(3), payload.Data.CourseID)
}

func TestEnrollmentHandlerGrantConflict(t *testing.T) {
	svc := &fakeEnrollmentService{grantErr: apperr.Conflictf("already enrolled")}
	app := enrollmentTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/enrollments", strings.NewReader(`{"user_id":7,"course_id":3}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestEnrollmentHandlerRevokeAndRestore(t *testing.T) {
	svc := &fakeEnrollmentService{granted: dto.EnrollmentResponse{ID: 9}}
	app := enrollmentTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/enrollments/9/revoke", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(9), svc.lastID)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/enrollments/9/restore", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestEnrollmentHandlerBadID(t *testing.T) {
	svc := &fakeEnrollmentService{}
	app := enrollmentTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/enrollments/abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEnrollmentHandlerListByCourse(t *testing.T) {
	svc := &fakeEnrollmentService{granted: dto.EnrollmentResponse{ID: 9}}
	app := enrollmentTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/courses/3/enrollments", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
