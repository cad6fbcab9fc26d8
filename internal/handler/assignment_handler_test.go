package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askeland/crewplan-api/internal/dto"
	"github.com/askeland/crewplan-api/internal/models"
	appErrors "github.com/askeland/crewplan-api/pkg/errors"
)

type assignmentServiceMock struct {
	createErr        error
	createValidation *models.ValidationResult
	lastFilter       models.AssignmentFilter
}

func (m *assignmentServiceMock) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, *models.Pagination, error) {
	m.lastFilter = filter
	return []models.Assignment{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *assignmentServiceMock) Get(ctx context.Context, id string) (*models.Assignment, error) {
	return &models.Assignment{ID: id}, nil
}

func (m *assignmentServiceMock) Create(ctx context.Context, req dto.CreateAssignmentRequest) (*models.Assignment, *models.ValidationResult, error) {
	if m.createErr != nil {
		return nil, m.createValidation, m.createErr
	}
	return &models.Assignment{ID: "a1", DayOfWeek: req.DayOfWeek}, &models.ValidationResult{CanProceed: true}, nil
}

func (m *assignmentServiceMock) Update(ctx context.Context, id string, req dto.UpdateAssignmentRequest) (*models.Assignment, *models.ValidationResult, error) {
	return &models.Assignment{ID: id}, &models.ValidationResult{CanProceed: true}, nil
}

func (m *assignmentServiceMock) Delete(ctx context.Context, id string) error {
	return nil
}

func TestAssignmentHandlerListUppercasesDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &assignmentServiceMock{}
	handler := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/assignments?dayOfWeek=monday&worker=Ann", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MONDAY", mock.lastFilter.DayOfWeek)
	assert.Equal(t, "Ann", mock.lastFilter.Worker)
}

func TestAssignmentHandlerCreateRejectsBadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&assignmentServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assignments", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerCreateConflictIncludesValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &assignmentServiceMock{
		createErr: appErrors.Clone(appErrors.ErrConflict, "change introduces blocking conflicts"),
		createValidation: &models.ValidationResult{
			HasConflicts: true,
			CanProceed:   false,
			Conflicts:    []models.Conflict{{ID: "double-ann-monday", Severity: models.SeverityHigh}},
		},
	}
	handler := NewAssignmentHandler(mock)

	body, _ := json.Marshal(dto.CreateAssignmentRequest{
		DayOfWeek:  "MONDAY",
		ClientName: "Acme",
		SiteName:   "HQ",
		Workers:    []string{"Ann"},
		Hours:      4,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assignments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope struct {
		Error *appErrors.Error       `json:"error"`
		Meta  map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrConflict.Code, envelope.Error.Code)
	assert.Contains(t, envelope.Meta, "validation")
}

func TestAssignmentHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&assignmentServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/assignments/a1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "a1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}
