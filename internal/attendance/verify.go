package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
	"github.com/temirkhan/campus-lesson-tracker/internal/repository"
)

// Error taxonomy of the verification flow.  Handlers translate these into
// HTTP responses; everything else is a generic server failure.
var (
	// ErrNotAuthenticated means no user identity was supplied; nothing is
	// queried in that case.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrProfileIncomplete means the user's campus is unset, so the code
	// cannot be matched against any campus's lessons.
	ErrProfileIncomplete = errors.New("profile incomplete: campus not set")
	// ErrInvalidCode means no scheduled lesson at the user's campus carries
	// the code.  A code that is real at another campus reports the same
	// error so that responses never leak cross-campus information.
	ErrInvalidCode = errors.New("invalid attendance code")
)

// CampusResolver resolves a user's campus.  An empty campus with nil error
// means the profile exists but the campus is unset.
type CampusResolver interface {
	CampusFor(ctx context.Context, userID uint64) (string, error)
}

// ScheduleFinder looks up scheduled lessons by attendance code within one
// campus, ordered deterministically (lesson_date, then id).
type ScheduleFinder interface {
	FindByCodeAndCampus(ctx context.Context, code, campus string) ([]model.ScheduledLesson, error)
}

// ProgressWriter records a lesson completion.  Implementations must be
// idempotent per (user, lesson) pair.
type ProgressWriter interface {
	UpsertCompleted(ctx context.Context, userID, lessonID uint64, completedAt time.Time) error
}

// Match is the typed result of a successful verification: the scheduled
// lesson the code resolved to and the completion it produced.
type Match struct {
	ScheduledLessonID uint64
	LessonID          uint64
	Campus            string
	CompletedAt       time.Time
}

// Verifier runs the attendance verification sequence: resolve campus, match
// the code against that campus's scheduled lessons, record completion.  The
// dependencies are narrow interfaces so the flow is testable with fakes and
// the caller's session is explicit rather than re-queried ad hoc.
type Verifier struct {
	Profiles  CampusResolver
	Schedules ScheduleFinder
	Progress  ProgressWriter

	// Now is the clock used for completion timestamps; nil means time.Now.
	Now func() time.Time
}

// NewVerifier wires a Verifier from its dependencies.
func NewVerifier(p CampusResolver, s ScheduleFinder, w ProgressWriter) *Verifier {
	if p == nil || s == nil || w == nil {
		panic("nil dependency passed to NewVerifier")
	}
	return &Verifier{Profiles: p, Schedules: s, Progress: w}
}

// NormalizeCode trims, upper-cases and validates a submitted code.  The ok
// result is false when the code is not exactly CellCount alphanumeric
// characters.
func NormalizeCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != CellCount {
		return "", false
	}
	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", false
		}
	}
	return code, true
}

// VerifyCode runs the full sequence for one submission.  The two reads and
// the write are sequential; the second read depends on the campus from the
// first and the write on both.  On success the completion is recorded with
// status COMPLETED and the resolved match is returned.  Re-submitting a
// valid code for an already-completed lesson succeeds and refreshes the
// completion timestamp.
func (v *Verifier) VerifyCode(ctx context.Context, userID uint64, code string) (Match, error) {
	if userID == 0 {
		return Match{}, ErrNotAuthenticated
	}
	norm, ok := NormalizeCode(code)
	if !ok {
		// Malformed submissions get the same answer as unknown codes.
		return Match{}, ErrInvalidCode
	}

	campus, err := v.Profiles.CampusFor(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return Match{}, ErrProfileIncomplete
		}
		return Match{}, fmt.Errorf("resolve campus: %w", err)
	}
	if campus == "" {
		return Match{}, ErrProfileIncomplete
	}

	lessons, err := v.Schedules.FindByCodeAndCampus(ctx, norm, campus)
	if err != nil {
		return Match{}, fmt.Errorf("match code: %w", err)
	}
	if len(lessons) == 0 {
		return Match{}, ErrInvalidCode
	}
	// First row wins; the finder's ordering makes duplicate codes within a
	// campus resolve deterministically.
	sel := lessons[0]

	now := time.Now().UTC()
	if v.Now != nil {
		now = v.Now().UTC()
	}
	if err := v.Progress.UpsertCompleted(ctx, userID, sel.LessonID, now); err != nil {
		return Match{}, fmt.Errorf("record completion: %w", err)
	}

	return Match{
		ScheduledLessonID: sel.ID,
		LessonID:          sel.LessonID,
		Campus:            sel.Campus,
		CompletedAt:       now,
	}, nil
}
