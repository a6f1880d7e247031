package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/markbook-api/internal/models"
	"github.com/noah-isme/markbook-api/internal/service"
	appErrors "github.com/noah-isme/markbook-api/pkg/errors"
)

type fakeAssessmentSrv struct {
	items      []models.Assessment
	createErr  error
	lastCreate service.CreateAssessmentRequest
	deleted    string
}

func (f *fakeAssessmentSrv) List(context.Context, string) ([]models.Assessment, error) {
	return f.items, nil
}

func (f *fakeAssessmentSrv) Create(_ context.Context, courseID string, req service.CreateAssessmentRequest) (*models.Assessment, error) {
	f.lastCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Assessment{ID: "a1", CourseID: courseID, Name: req.Name, FullMarks: req.FullMarks}, nil
}

func (f *fakeAssessmentSrv) Update(_ context.Context, courseID, id string, req service.UpdateAssessmentRequest) (*models.Assessment, error) {
	return &models.Assessment{ID: id, CourseID: courseID, Name: *req.Name}, nil
}

func (f *fakeAssessmentSrv) Delete(_ context.Context, courseID, id string) error {
	f.deleted = id
	return nil
}

func TestAssessmentHandlerCreate(t *testing.T) {
	srv := &fakeAssessmentSrv{}
	h := NewAssessmentHandler(srv)

	c, rec := newJSONContext(http.MethodPost, "/courses/c1/assessments", map[string]interface{}{"name": "CT1", "full_marks": 10}, courseParam("c1"))
	h.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Assessment
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.Equal(t, "c1", created.CourseID)
	assert.Equal(t, 10.0, srv.lastCreate.FullMarks)
}

func TestAssessmentHandlerCreateDuplicateCategory(t *testing.T) {
	msg := "Final already exists for this course. Only one Final exam is allowed."
	h := NewAssessmentHandler(&fakeAssessmentSrv{createErr: appErrors.Clone(appErrors.ErrDuplicateAssessment, msg)})

	c, rec := newJSONContext(http.MethodPost, "/courses/c1/assessments", map[string]interface{}{"name": "Final", "full_marks": 40}, courseParam("c1"))
	h.Create(c)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "DUPLICATE_ASSESSMENT", env.Error["code"])
	assert.Equal(t, msg, env.Error["message"])
}

func TestAssessmentHandlerCreateRejectsMalformedJSON(t *testing.T) {
	h := NewAssessmentHandler(&fakeAssessmentSrv{})

	c, rec := newJSONContext(http.MethodPost, "/courses/c1/assessments", "{", courseParam("c1"))
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssessmentHandlerUpdateAndDelete(t *testing.T) {
	srv := &fakeAssessmentSrv{}
	h := NewAssessmentHandler(srv)
	params := []gin.Param{courseParam("c1"), {Key: "assessmentId", Value: "a9"}}

	c, rec := newJSONContext(http.MethodPatch, "/courses/c1/assessments/a9", map[string]string{"name": "Quiz"}, params...)
	h.Update(c)
	require.Equal(t, http.StatusOK, rec.Code)

	c, _ = newJSONContext(http.MethodDelete, "/courses/c1/assessments/a9", nil, params...)
	h.Delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "a9", srv.deleted)
}
