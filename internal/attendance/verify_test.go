package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
	"github.com/temirkhan/campus-lesson-tracker/internal/repository"
)

// fakeProfiles maps user IDs to campuses.  Unknown users report
// ErrProfileNotFound like the real repository does.
type fakeProfiles struct {
	campuses map[uint64]string
	err      error
}

func (f *fakeProfiles) CampusFor(_ context.Context, userID uint64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	c, ok := f.campuses[userID]
	if !ok {
		return "", repository.ErrProfileNotFound
	}
	return c, nil
}

// fakeSchedules matches on exact (code, campus) pairs and preserves the
// insertion order of its rows, mirroring the repository's ORDER BY.
type fakeSchedules struct {
	rows []model.ScheduledLesson
	err  error
}

func (f *fakeSchedules) FindByCodeAndCampus(_ context.Context, code, campus string) ([]model.ScheduledLesson, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.ScheduledLesson
	for _, r := range f.rows {
		if r.AttendanceCode == code && r.Campus == campus {
			out = append(out, r)
		}
	}
	return out, nil
}

// recordingProgress stores completions keyed by (user, lesson) so repeated
// writes for the same pair overwrite rather than accumulate.
type recordingProgress struct {
	completions map[[2]uint64]time.Time
	calls       int
	err         error
}

func newRecordingProgress() *recordingProgress {
	return &recordingProgress{completions: make(map[[2]uint64]time.Time)}
}

func (f *recordingProgress) UpsertCompleted(_ context.Context, userID, lessonID uint64, completedAt time.Time) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.completions[[2]uint64{userID, lessonID}] = completedAt
	return nil
}

func newTestVerifier(p *fakeProfiles, s *fakeSchedules, w *recordingProgress) *Verifier {
	v := NewVerifier(p, s, w)
	v.Now = func() time.Time { return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC) }
	return v
}

func TestVerifyCodeHappyPath(t *testing.T) {
	profiles := &fakeProfiles{campuses: map[uint64]string{7: "Main Campus"}}
	schedules := &fakeSchedules{rows: []model.ScheduledLesson{
		{ID: 11, LessonID: 3, Campus: "Main Campus", AttendanceCode: "AB12"},
	}}
	progress := newRecordingProgress()
	v := newTestVerifier(profiles, schedules, progress)

	m, err := v.VerifyCode(context.Background(), 7, "AB12")
	require.NoError(t, err)
	assert.Equal(t, uint64(11), m.ScheduledLessonID)
	assert.Equal(t, uint64(3), m.LessonID)
	assert.Equal(t, "Main Campus", m.Campus)
	assert.Equal(t, v.Now(), m.CompletedAt)

	got, ok := progress.completions[[2]uint64{7, 3}]
	require.True(t, ok, "completion must be recorded")
	assert.Equal(t, v.Now(), got)
}

func TestVerifyCodeNormalizesInput(t *testing.T) {
	profiles := &fakeProfiles{campuses: map[uint64]string{7: "Main Campus"}}
	schedules := &fakeSchedules{rows: []model.ScheduledLesson{
		{ID: 11, LessonID: 3, Campus: "Main Campus", AttendanceCode: "AB12"},
	}}
	v := newTestVerifier(profiles, schedules, newRecordingProgress())

	m, err := v.VerifyCode(context.Background(), 7, "  ab12 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), m.LessonID)
}

func TestVerifyCodeNotAuthenticated(t *testing.T) {
	profiles := &fakeProfiles{campuses: map[uint64]string{}}
	v := newTestVerifier(profiles, &fakeSchedules{}, newRecordingProgress())

	_, err := v.VerifyCode(context.Background(), 0, "AB12")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestVerifyCodeProfileIncomplete(t *testing.T) {
	t.Run("no profile row", func(t *testing.T) {
		profiles := &fakeProfiles{campuses: map[uint64]string{}}
		v := newTestVerifier(profiles, &fakeSchedules{}, newRecordingProgress())
		_, err := v.VerifyCode(context.Background(), 7, "AB12")
		assert.ErrorIs(t, err, ErrProfileIncomplete)
	})

	t.Run("campus unset", func(t *testing.T) {
		profiles := &fakeProfiles{campuses: map[uint64]string{7: ""}}
		progress := newRecordingProgress()
		v := newTestVerifier(profiles, &fakeSchedules{}, progress)
		_, err := v.VerifyCode(context.Background(), 7, "AB12")
		assert.ErrorIs(t, err, ErrProfileIncomplete)
		assert.Zero(t, progress.calls, "no write on failure")
	})
}

func TestVerifyCodeMalformedCode(t *testing.T) {
	profiles := &fakeProfiles{campuses: map[uint64]string{7: "Main Campus"}}
	v := newTestVerifier(profiles, &fakeSchedules{}, newRecordingProgress())

	for _, code := range []string{"", "ABC", "ABCDE", "AB 2", "AB-2"} {
		_, err := v.VerifyCode(context.Background(), 7, code)
		assert.ErrorIs(t, err, ErrInvalidCode, "code %q", code)
	}
}

// A code that exists only at another campus must be indistinguishable from a
// code that exists nowhere.
func TestVerifyCodeCampusIsolation(t *testing.T) {
	profiles := &fakeProfiles{campuses: map[uint64]string{7: "Main Campus"}}
	schedules := &fakeSchedules{rows: []model.ScheduledLesson{
		{ID: 21, LessonID: 5, Campus: "Other Campus", AttendanceCode: "AB12"},
	}}
	progress := newRecordingProgress()
	v := newTestVerifier(profiles, schedules, progress)

	_, err := v.VerifyCode(context.Background(), 7, "AB12")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Zero(t, progress.calls)
}

// Duplicate codes within a campus resolve to the finder's first row.
func TestVerifyCodeDuplicateCodeFirstRowWins(t *testing.T) {
	profiles := &fakeProfiles{campuses: map[uint64]string{7: "Main Campus"}}
	schedules := &fakeSchedules{rows: []model.ScheduledLesson{
		{ID: 11, LessonID: 3, Campus: "Main Campus", AttendanceCode: "AB12"},
		{ID: 12, LessonID: 4, Campus: "Main Campus", AttendanceCode: "AB12"},
	}}
	v := newTestVerifier(profiles, schedules, newRecordingProgress())

	m, err := v.VerifyCode(context.Background(), 7, "AB12")
	require.NoError(t, err)
	assert.Equal(t, uint64(11), m.ScheduledLessonID)
	assert.Equal(t, uint64(3), m.LessonID)
}

// Re-submitting a valid code succeeds and leaves a single completion per
// (user, lesson) pair with the latest timestamp.
func TestVerifyCodeIdempotent(t *testing.T) {
	profiles := &fakeProfiles{campuses: map[uint64]string{7: "Main Campus"}}
	schedules := &fakeSchedules{rows: []model.ScheduledLesson{
		{ID: 11, LessonID: 3, Campus: "Main Campus", AttendanceCode: "AB12"},
	}}
	progress := newRecordingProgress()
	v := NewVerifier(profiles, schedules, progress)

	first := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Minute)

	v.Now = func() time.Time { return first }
	_, err := v.VerifyCode(context.Background(), 7, "AB12")
	require.NoError(t, err)

	v.Now = func() time.Time { return second }
	m, err := v.VerifyCode(context.Background(), 7, "AB12")
	require.NoError(t, err)
	assert.Equal(t, second, m.CompletedAt)

	assert.Equal(t, 2, progress.calls)
	require.Len(t, progress.completions, 1, "one row per (user, lesson)")
	assert.Equal(t, second, progress.completions[[2]uint64{7, 3}])
}

func TestVerifyCodeDependencyFailures(t *testing.T) {
	t.Run("campus lookup fails", func(t *testing.T) {
		profiles := &fakeProfiles{err: errors.New("db down")}
		v := newTestVerifier(profiles, &fakeSchedules{}, newRecordingProgress())
		_, err := v.VerifyCode(context.Background(), 7, "AB12")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCode)
		assert.NotErrorIs(t, err, ErrProfileIncomplete)
	})

	t.Run("completion write fails", func(t *testing.T) {
		profiles := &fakeProfiles{campuses: map[uint64]string{7: "Main Campus"}}
		schedules := &fakeSchedules{rows: []model.ScheduledLesson{
			{ID: 11, LessonID: 3, Campus: "Main Campus", AttendanceCode: "AB12"},
		}}
		progress := newRecordingProgress()
		progress.err = errors.New("insert failed")
		v := newTestVerifier(profiles, schedules, progress)
		_, err := v.VerifyCode(context.Background(), 7, "AB12")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCode)
	})
}

func TestNormalizeCode(t *testing.T) {
	got, ok := NormalizeCode(" ab12\t")
	assert.True(t, ok)
	assert.Equal(t, "AB12", got)

	for _, bad := range []string{"", "A", "ABCDE", "A 12", "AB!2"} {
		_, ok := NormalizeCode(bad)
		assert.False(t, ok, "code %q", bad)
	}
}
