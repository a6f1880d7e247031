package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/markbook-api/internal/middleware"
	"github.com/noah-isme/markbook-api/internal/models"
	"github.com/noah-isme/markbook-api/internal/service"
)

type fakeAttendanceSrv struct {
	last  service.SaveAttendanceRequest
	saves int
}

func (f *fakeAttendanceSrv) List(context.Context, string) ([]models.AttendanceSummary, error) {
	return nil, nil
}

func (f *fakeAttendanceSrv) Save(_ context.Context, courseID string, req service.SaveAttendanceRequest) ([]models.AttendanceSummary, error) {
	f.last = req
	f.saves++
	return []models.AttendanceSummary{{CourseID: courseID, StudentID: "s1", Marks: 5}}, nil
}

func TestAttendanceSummaryHandlerSaveRecordsActor(t *testing.T) {
	srv := &fakeAttendanceSrv{}
	h := NewAttendanceSummaryHandler(srv)

	body := map[string]interface{}{"records": []map[string]interface{}{{"student_id": "s1", "total_classes": 10, "attended_classes": 9}}}
	c, rec := newJSONContext(http.MethodPut, "/courses/c1/attendance", body, courseParam("c1"))
	c.Set(middleware.ContextActorKey, "teacher-1")
	h.Save(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "teacher-1", srv.last.UpdatedBy)
	require.Len(t, srv.last.Records, 1)
	assert.Equal(t, 9, srv.last.Records[0].AttendedClasses)
}

func TestAttendanceSummaryHandlerSaveInvalidJSON(t *testing.T) {
	srv := &fakeAttendanceSrv{}
	h := NewAttendanceSummaryHandler(srv)

	c, rec := newJSONContext(http.MethodPut, "/courses/c1/attendance", `{"records":`, courseParam("c1"))
	h.Save(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, srv.saves)
}
