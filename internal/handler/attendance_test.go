package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirkhan/campus-lesson-tracker/internal/attendance"
	"github.com/temirkhan/campus-lesson-tracker/internal/queue"
)

// fakeVerifier returns a canned match or error and records how it was called.
type fakeVerifier struct {
	match attendance.Match
	err   error

	gotUserID uint64
	gotCode   string
	calls     int
}

func (f *fakeVerifier) VerifyCode(_ context.Context, userID uint64, code string) (attendance.Match, error) {
	f.calls++
	f.gotUserID = userID
	f.gotCode = code
	if f.err != nil {
		return attendance.Match{}, f.err
	}
	return f.match, nil
}

func newVerifyContext(t *testing.T, body string, userID interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewRequestValidator()
	req := httptest.NewRequest(http.MethodPost, "/v1/attendance/verify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestAttendanceVerifySuccess(t *testing.T) {
	completed := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	fv := &fakeVerifier{match: attendance.Match{
		ScheduledLessonID: 11,
		LessonID:          3,
		Campus:            "Main Campus",
		CompletedAt:       completed,
	}}

	invalidated := 0
	var published []queue.LessonCompletedEvent
	h := NewAttendanceHandler(fv,
		func(context.Context) error { invalidated++; return nil },
		func(_ context.Context, ev queue.LessonCompletedEvent) error {
			published = append(published, ev)
			return nil
		})

	c, rec := newVerifyContext(t, `{"code":"ab12"}`, uint64(7))
	require.NoError(t, h.Verify(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "COMPLETED", body["status"])
	assert.Equal(t, "Main Campus", body["campus"])
	assert.Equal(t, completed.Format(time.RFC3339), body["completed_at"])

	assert.Equal(t, uint64(7), fv.gotUserID)
	assert.Equal(t, "ab12", fv.gotCode, "normalization belongs to the verifier")
	assert.Equal(t, 1, invalidated)
	require.Len(t, published, 1)
	assert.Equal(t, uint64(3), published[0].LessonID)
	assert.Equal(t, completed.Format(time.RFC3339), published[0].CompletedAt)
}

func TestAttendanceVerifyNoIdentity(t *testing.T) {
	fv := &fakeVerifier{}
	h := NewAttendanceHandler(fv, nil, nil)

	c, rec := newVerifyContext(t, `{"code":"AB12"}`, nil)
	require.NoError(t, h.Verify(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, fv.calls, "no lookup without an identity")
}

func TestAttendanceVerifyShortCode(t *testing.T) {
	fv := &fakeVerifier{}
	h := NewAttendanceHandler(fv, nil, nil)

	c, rec := newVerifyContext(t, `{"code":"AB1"}`, uint64(7))
	require.NoError(t, h.Verify(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid attendance code. Please try again.", body["error"])
	assert.Zero(t, fv.calls)
}

func TestAttendanceVerifyErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"profile incomplete", attendance.ErrProfileIncomplete, http.StatusConflict,
			"Set your campus in your profile before verifying attendance."},
		{"invalid code", attendance.ErrInvalidCode, http.StatusNotFound,
			"Invalid attendance code. Please try again."},
		{"not authenticated", attendance.ErrNotAuthenticated, http.StatusUnauthorized,
			"unauthorized"},
		{"write failure", errors.New("record completion: insert failed"), http.StatusInternalServerError,
			"failed to verify attendance"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAttendanceHandler(&fakeVerifier{err: tc.err}, nil, nil)
			c, rec := newVerifyContext(t, `{"code":"AB12"}`, uint64(7))
			require.NoError(t, h.Verify(c))
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantMsg, decodeBody(t, rec)["error"])
		})
	}
}

// Feedback side effects never fail the request.
func TestAttendanceVerifySideEffectFailuresIgnored(t *testing.T) {
	fv := &fakeVerifier{match: attendance.Match{LessonID: 3, CompletedAt: time.Now().UTC()}}
	h := NewAttendanceHandler(fv,
		func(context.Context) error { return errors.New("redis gone") },
		func(context.Context, queue.LessonCompletedEvent) error { return errors.New("broker gone") })

	c, rec := newVerifyContext(t, `{"code":"AB12"}`, uint64(7))
	require.NoError(t, h.Verify(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
