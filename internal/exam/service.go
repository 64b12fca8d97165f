package exam

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/gokatarajesh/cbt-platform/internal/apperr"
	"github.com/gokatarajesh/cbt-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
	"github.com/gokatarajesh/cbt-platform/internal/question"
	"github.com/gokatarajesh/cbt-platform/internal/quiz"
)

const (
	defaultTolerance = 5 * time.Second
	maxStartAttempts = 3
)

type submissionStore interface {
	Create(ctx context.Context, params sqlcgen.CreateSubmissionParams) (sqlcgen.Submission, error)
	GetByID(ctx context.Context, submissionID uuid.UUID) (sqlcgen.Submission, error)
	GetByQuizAndParticipant(ctx context.Context, quizID, participantID uuid.UUID) (sqlcgen.Submission, error)
	Activate(ctx context.Context, params sqlcgen.ActivateSubmissionParams) (sqlcgen.Submission, error)
	UpdateAnswers(ctx context.Context, submissionID uuid.UUID, answers []byte) (sqlcgen.Submission, error)
	Complete(ctx context.Context, params sqlcgen.CompleteSubmissionParams) (sqlcgen.Submission, error)
	IncrementViolations(ctx context.Context, submissionID uuid.UUID) (int32, error)
	ListOpen(ctx context.Context, quizID uuid.UUID) ([]sqlcgen.Submission, error)
	CountParticipants(ctx context.Context, quizID uuid.UUID) (int64, error)
	DeleteByQuiz(ctx context.Context, quizID uuid.UUID) (int64, error)
}

var _ submissionStore = (*repository.SubmissionRepository)(nil)

type quizRegistry interface {
	Resolve(ctx context.Context, idOrCode string) (*quiz.Quiz, error)
	Get(ctx context.Context, quizID uuid.UUID) (*quiz.Quiz, error)
	SetStatus(ctx context.Context, quizID uuid.UUID, status quiz.Status) (*quiz.Quiz, error)
}

type questionBank interface {
	ListPublic(ctx context.Context, quizID uuid.UUID) ([]question.PublicQuestion, error)
	AnswerKey(ctx context.Context, quizID uuid.UUID) (question.AnswerKey, error)
}

type leaderboardInvalidator interface {
	Invalidate(ctx context.Context, quizID uuid.UUID)
}

// ServiceOptions tunes the orchestrator.
type ServiceOptions struct {
	// SubmitTolerance is how long after endTime a submit is still honored.
	SubmitTolerance time.Duration
	Metrics         *Metrics
}

// Service drives submissions through their lifecycle. Deadlines are checked
// lazily when a request touches the submission; nothing runs in the background.
type Service struct {
	submissions submissionStore
	quizzes     quizRegistry
	questions   questionBank
	leaderboard leaderboardInvalidator
	statusCache StatusCache
	metrics     *Metrics
	tolerance   time.Duration
	group       singleflight.Group
	now         func() time.Time
	logger      zerolog.Logger
}

// NewService wires the session orchestrator. statusCache may be nil.
func NewService(
	submissions submissionStore,
	quizzes quizRegistry,
	questions questionBank,
	leaderboard leaderboardInvalidator,
	statusCache StatusCache,
	logger zerolog.Logger,
	opts ServiceOptions,
) *Service {
	tolerance := opts.SubmitTolerance
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Service{
		submissions: submissions,
		quizzes:     quizzes,
		questions:   questions,
		leaderboard: leaderboard,
		statusCache: statusCache,
		metrics:     metrics,
		tolerance:   tolerance,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger.With().Str("component", "exam").Logger(),
	}
}

// JoinLobby registers the participant for the quiz with a pending submission.
// Joining again returns the existing submission.
func (s *Service) JoinLobby(ctx context.Context, idOrCode string, participantID uuid.UUID) (*Submission, error) {
	q, err := s.quizzes.Resolve(ctx, idOrCode)
	if err != nil {
		return nil, err
	}

	row, err := s.submissions.GetByQuizAndParticipant(ctx, q.ID, participantID)
	if err == nil {
		return toSubmission(row)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup submission: %w", err)
	}

	row, created, err := s.createOrFetch(ctx, q, participantID, StatusPending, s.now())
	if err != nil {
		return nil, err
	}
	if created {
		s.invalidateStatus(ctx, q)
		s.logger.Info().
			Str("quiz_id", q.ID.String()).
			Str("participant_id", participantID.String()).
			Msg("participant joined lobby")
	}
	return toSubmission(row)
}

// StartOrResume enters the exam: it activates a pending submission, creates an
// active one for a participant who skipped the lobby, or resumes an active one.
func (s *Service) StartOrResume(ctx context.Context, idOrCode string, participantID uuid.UUID) (*StartResult, error) {
	q, err := s.quizzes.Resolve(ctx, idOrCode)
	if err != nil {
		return nil, err
	}

	now := s.now()
	row, err := s.submissions.GetByQuizAndParticipant(ctx, q.ID, participantID)
	missing := errors.Is(err, repository.ErrNotFound)
	if err != nil && !missing {
		return nil, fmt.Errorf("lookup submission: %w", err)
	}

	for attempt := 0; attempt < maxStartAttempts; attempt++ {
		if missing {
			if q.Status != quiz.StatusActive {
				return nil, apperr.Forbidden("exam not open")
			}
			var created bool
			row, created, err = s.createOrFetch(ctx, q, participantID, StatusActive, now)
			if err != nil {
				return nil, err
			}
			missing = false
			if created {
				s.invalidateStatus(ctx, q)
				return s.startResult(ctx, row, now)
			}
		}

		switch SubmissionStatus(row.Status) {
		case StatusCompleted:
			return nil, apperr.Forbidden("already finished")

		case StatusActive:
			end, _ := repository.Time(row.EndTime)
			if now.After(end) {
				if now.Sub(end) > s.tolerance {
					s.expire(ctx, row)
				}
				return nil, apperr.Forbidden("expired")
			}
			return s.startResult(ctx, row, now)

		case StatusPending:
			if q.Status != quiz.StatusActive {
				return nil, apperr.Forbidden("exam not open")
			}
			activated, err := s.submissions.Activate(ctx, sqlcgen.ActivateSubmissionParams{
				SubmissionID: row.SubmissionID,
				StartTime:    repository.PGTime(now),
				EndTime:      repository.PGTime(now.Add(q.Duration())),
			})
			if err == nil {
				s.logger.Info().
					Str("quiz_id", q.ID.String()).
					Str("submission_id", repository.UUID(row.SubmissionID).String()).
					Msg("exam started")
				return s.startResult(ctx, activated, now)
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("activate submission: %w", err)
			}
			// Someone else moved it past pending; look again.
			row, err = s.submissions.GetByID(ctx, repository.UUID(row.SubmissionID))
			if err != nil {
				return nil, fmt.Errorf("reload submission: %w", err)
			}

		default:
			return nil, fmt.Errorf("submission %s has unknown status %q", repository.UUID(row.SubmissionID), row.Status)
		}
	}
	return nil, fmt.Errorf("start exam: submission kept changing under %d attempts", maxStartAttempts)
}

// SaveAnswers replaces the stored answers of an active submission.
func (s *Service) SaveAnswers(ctx context.Context, submissionID, participantID uuid.UUID, isAdmin bool, answers Answers) (*Submission, error) {
	row, err := s.ownedSubmission(ctx, submissionID, participantID, isAdmin)
	if err != nil {
		return nil, err
	}
	if SubmissionStatus(row.Status) != StatusActive {
		return nil, apperr.Forbidden("session ended")
	}
	end, _ := repository.Time(row.EndTime)
	if s.now().Sub(end) > s.tolerance {
		return nil, apperr.Forbidden("session ended")
	}

	key, err := s.questions.AnswerKey(ctx, repository.UUID(row.QuizID))
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}
	normalized, err := normalizeAnswers(answers, key)
	if err != nil {
		return nil, err
	}

	stored, err := decodeAnswers(row.Answers)
	if err == nil && maps.Equal(stored, normalized) {
		return toSubmission(row)
	}

	raw, err := encodeAnswers(normalized)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	updated, err := s.submissions.UpdateAnswers(ctx, submissionID, raw)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Forbidden("session ended")
		}
		return nil, fmt.Errorf("save answers: %w", err)
	}
	return toSubmission(updated)
}

// Submit finalizes a submission. Repeating it after completion returns the
// stored result, except that a completed submission with no stored answers
// accepts one late correction.
func (s *Service) Submit(ctx context.Context, submissionID, participantID uuid.UUID, isAdmin bool, answers Answers) (*SubmitResult, error) {
	row, err := s.ownedSubmission(ctx, submissionID, participantID, isAdmin)
	if err != nil {
		return nil, err
	}
	now := s.now()

	switch SubmissionStatus(row.Status) {
	case StatusPending:
		s.metrics.submitted(OutcomeRejectedNotStarted)
		return nil, apperr.Forbidden("exam not started")

	case StatusCompleted:
		stored, _ := decodeAnswers(row.Answers)
		if len(stored) > 0 || len(answers) == 0 {
			s.metrics.submitted(OutcomeAlreadyCompleted)
			return s.alreadyCompleted(row)
		}

	case StatusActive:
		end, _ := repository.Time(row.EndTime)
		if now.Sub(end) > s.tolerance {
			s.metrics.submitted(OutcomeRejectedLate)
			return nil, apperr.Forbidden("time expired")
		}

	default:
		return nil, fmt.Errorf("submission %s has unknown status %q", submissionID, row.Status)
	}

	quizID := repository.UUID(row.QuizID)
	key, err := s.questions.AnswerKey(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}
	normalized, err := normalizeAnswers(answers, key)
	if err != nil {
		return nil, err
	}
	late := SubmissionStatus(row.Status) == StatusCompleted
	if late && len(normalized) == 0 {
		s.metrics.submitted(OutcomeAlreadyCompleted)
		return s.alreadyCompleted(row)
	}

	done, err := s.finalize(ctx, row, normalized, key, now)
	if errors.Is(err, repository.ErrNotFound) {
		// Lost a race with another finalizer; its result stands.
		current, err := s.submissions.GetByID(ctx, submissionID)
		if err != nil {
			return nil, fmt.Errorf("reload submission: %w", err)
		}
		s.metrics.submitted(OutcomeAlreadyCompleted)
		return s.alreadyCompleted(current)
	}
	if err != nil {
		return nil, err
	}

	s.leaderboard.Invalidate(ctx, quizID)
	outcome := OutcomeSubmitted
	if late {
		outcome = OutcomeLateCorrection
	}
	s.metrics.submitted(outcome)
	s.metrics.finalized(int(done.Score), false)
	s.logger.Info().
		Str("quiz_id", quizID.String()).
		Str("submission_id", submissionID.String()).
		Int32("score", done.Score).
		Bool("late_correction", late).
		Msg("submission completed")

	sub, err := toSubmission(done)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Submission: sub, LateCorrection: late}, nil
}

// RecordViolation counts a proctoring violation reported by the client.
func (s *Service) RecordViolation(ctx context.Context, submissionID, participantID uuid.UUID, isAdmin bool) (int, error) {
	if _, err := s.ownedSubmission(ctx, submissionID, participantID, isAdmin); err != nil {
		return 0, err
	}
	n, err := s.submissions.IncrementViolations(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperr.Forbidden("session ended")
		}
		return 0, fmt.Errorf("record violation: %w", err)
	}
	return int(n), nil
}

// CheckStatus returns the quiz status and lobby size. Safe to poll often.
func (s *Service) CheckStatus(ctx context.Context, idOrCode string) (*StatusView, error) {
	if s.statusCache != nil {
		view, err := s.statusCache.Get(ctx, idOrCode)
		if err != nil {
			s.logger.Warn().Err(err).Msg("status cache read failed")
		} else if view != nil {
			return view, nil
		}
	}

	v, err, _ := s.group.Do(statusKey(idOrCode), func() (interface{}, error) {
		q, err := s.quizzes.Resolve(ctx, idOrCode)
		if err != nil {
			return nil, err
		}
		count, err := s.submissions.CountParticipants(ctx, q.ID)
		if err != nil {
			return nil, fmt.Errorf("count participants: %w", err)
		}
		view := StatusView{
			QuizID:           q.ID,
			Title:            q.Title,
			Status:           q.Status,
			DurationMinutes:  q.DurationMinutes,
			ParticipantCount: count,
		}
		if s.statusCache != nil {
			if err := s.statusCache.Set(ctx, idOrCode, view); err != nil {
				s.logger.Warn().Err(err).Msg("status cache write failed")
			}
		}
		return &view, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*StatusView), nil
}

// AdminSetStatus changes a quiz's status. Closing sweeps every open submission
// first; waiting means reset.
func (s *Service) AdminSetStatus(ctx context.Context, quizID uuid.UUID, status quiz.Status, isAdmin bool) (*quiz.Quiz, *SweepResult, error) {
	if !isAdmin {
		return nil, nil, apperr.Forbidden("admin access required")
	}
	if !status.Valid() {
		return nil, nil, apperr.Invalid("status", "status must be one of waiting, active, closed")
	}
	q, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}

	switch status {
	case quiz.StatusWaiting:
		res, err := s.ResetQuiz(ctx, quizID, isAdmin)
		if err != nil {
			return nil, nil, err
		}
		return res.Quiz, nil, nil

	case quiz.StatusActive:
		if q.Status == quiz.StatusClosed {
			return nil, nil, apperr.Forbidden("quiz is closed; reset it before reopening")
		}
		updated, err := s.quizzes.SetStatus(ctx, quizID, quiz.StatusActive)
		if err != nil {
			return nil, nil, err
		}
		s.afterTransition(ctx, updated)
		return updated, nil, nil

	default:
		sweep, err := s.AutoSubmitAll(ctx, q)
		if err != nil {
			return nil, &sweep, err
		}
		updated, err := s.quizzes.SetStatus(ctx, quizID, quiz.StatusClosed)
		if err != nil {
			return nil, &sweep, err
		}
		// Catch anything that started between the sweep and the status write.
		late, err := s.AutoSubmitAll(ctx, updated)
		sweep.Completed += late.Completed
		sweep.Failed += late.Failed
		if err != nil {
			s.logger.Error().Err(err).Str("quiz_id", quizID.String()).Msg("post-close sweep incomplete")
		}
		s.afterTransition(ctx, updated)
		return updated, &sweep, nil
	}
}

// ResetQuiz puts the quiz back in the lobby and deletes all its submissions.
func (s *Service) ResetQuiz(ctx context.Context, quizID uuid.UUID, isAdmin bool) (*ResetResult, error) {
	if !isAdmin {
		return nil, apperr.Forbidden("admin access required")
	}
	updated, err := s.quizzes.SetStatus(ctx, quizID, quiz.StatusWaiting)
	if err != nil {
		return nil, err
	}
	deleted, err := s.submissions.DeleteByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("delete submissions: %w", err)
	}
	s.afterTransition(ctx, updated)
	s.logger.Warn().
		Str("quiz_id", quizID.String()).
		Int64("deleted_submissions", deleted).
		Msg("quiz reset")
	return &ResetResult{Quiz: updated, Deleted: deleted}, nil
}

// AutoSubmitAll completes every pending or active submission of the quiz using
// whatever answers are stored, with one shared submission time. Failures are
// counted and the sweep continues; rerunning only touches what is still open.
func (s *Service) AutoSubmitAll(ctx context.Context, q *quiz.Quiz) (SweepResult, error) {
	var res SweepResult
	key, err := s.questions.AnswerKey(ctx, q.ID)
	if err != nil {
		return res, fmt.Errorf("load answer key: %w", err)
	}
	open, err := s.submissions.ListOpen(ctx, q.ID)
	if err != nil {
		return res, fmt.Errorf("list open submissions: %w", err)
	}

	now := s.now()
	var errs []error
	for _, row := range open {
		stored, err := decodeAnswers(row.Answers)
		if err != nil {
			s.logger.Warn().Err(err).Str("submission_id", repository.UUID(row.SubmissionID).String()).Msg("discarding unreadable answers")
		}
		done, err := s.finalize(ctx, row, stored, key, now)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			res.Failed++
			errs = append(errs, err)
			continue
		}
		res.Completed++
		s.metrics.finalized(int(done.Score), true)
	}

	if res.Completed > 0 {
		s.leaderboard.Invalidate(ctx, q.ID)
	}
	s.logger.Info().
		Str("quiz_id", q.ID.String()).
		Int("completed", res.Completed).
		Int("failed", res.Failed).
		Msg("auto-submit sweep finished")
	return res, errors.Join(errs...)
}

func (s *Service) createOrFetch(ctx context.Context, q *quiz.Quiz, participantID uuid.UUID, status SubmissionStatus, now time.Time) (sqlcgen.Submission, bool, error) {
	row, err := s.submissions.Create(ctx, sqlcgen.CreateSubmissionParams{
		SubmissionID:  repository.PGUUID(uuid.New()),
		QuizID:        repository.PGUUID(q.ID),
		ParticipantID: repository.PGUUID(participantID),
		Status:        string(status),
		StartTime:     repository.PGTime(now),
		EndTime:       repository.PGTime(now.Add(q.Duration())),
	})
	if err == nil {
		return row, true, nil
	}
	if !repository.IsDuplicateOf(err, repository.ConstraintQuizParticipant) {
		return sqlcgen.Submission{}, false, fmt.Errorf("create submission: %w", err)
	}
	row, err = s.submissions.GetByQuizAndParticipant(ctx, q.ID, participantID)
	if err != nil {
		return sqlcgen.Submission{}, false, fmt.Errorf("fetch winning submission: %w", err)
	}
	return row, false, nil
}

func (s *Service) ownedSubmission(ctx context.Context, submissionID, participantID uuid.UUID, isAdmin bool) (sqlcgen.Submission, error) {
	row, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return row, apperr.NotFound("submission not found")
		}
		return row, fmt.Errorf("get submission: %w", err)
	}
	if !isAdmin && repository.UUID(row.ParticipantID) != participantID {
		return row, apperr.Forbidden("not your submission")
	}
	return row, nil
}

func (s *Service) finalize(ctx context.Context, row sqlcgen.Submission, answers Answers, key question.AnswerKey, submittedAt time.Time) (sqlcgen.Submission, error) {
	raw, err := encodeAnswers(answers)
	if err != nil {
		return row, fmt.Errorf("encode answers: %w", err)
	}
	start, _ := repository.Time(row.StartTime)
	done, err := s.submissions.Complete(ctx, sqlcgen.CompleteSubmissionParams{
		SubmissionID: row.SubmissionID,
		Answers:      raw,
		Score:        int32(Score(answers, key)),
		DurationMs:   DurationMs(start, submittedAt),
		SubmittedAt:  repository.PGTime(submittedAt),
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return row, fmt.Errorf("complete submission %s: %w", repository.UUID(row.SubmissionID), err)
	}
	return done, err
}

// expire completes an active submission whose deadline and tolerance have
// passed, scoring what was autosaved. It is best effort.
func (s *Service) expire(ctx context.Context, row sqlcgen.Submission) {
	quizID := repository.UUID(row.QuizID)
	key, err := s.questions.AnswerKey(ctx, quizID)
	if err != nil {
		s.logger.Error().Err(err).Str("quiz_id", quizID.String()).Msg("lazy expiry: load answer key")
		return
	}
	stored, _ := decodeAnswers(row.Answers)
	end, _ := repository.Time(row.EndTime)
	done, err := s.finalize(ctx, row, stored, key, end)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().Err(err).Msg("lazy expiry failed")
		}
		return
	}
	s.metrics.finalized(int(done.Score), true)
	s.leaderboard.Invalidate(ctx, quizID)
}

func (s *Service) startResult(ctx context.Context, row sqlcgen.Submission, now time.Time) (*StartResult, error) {
	sub, err := toSubmission(row)
	if err != nil {
		return nil, err
	}
	qs, err := s.questions.ListPublic(ctx, sub.QuizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return &StartResult{Submission: sub, Questions: qs, ServerTime: now}, nil
}

func (s *Service) alreadyCompleted(row sqlcgen.Submission) (*SubmitResult, error) {
	sub, err := toSubmission(row)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Submission: sub, AlreadyCompleted: true}, nil
}

func (s *Service) afterTransition(ctx context.Context, q *quiz.Quiz) {
	s.invalidateStatus(ctx, q)
	s.leaderboard.Invalidate(ctx, q.ID)
	s.metrics.transitioned(string(q.Status))
	s.logger.Info().Str("quiz_id", q.ID.String()).Str("status", string(q.Status)).Msg("quiz status changed")
}

// ForgetQuiz drops the cached status and leaderboard of a deleted quiz.
func (s *Service) ForgetQuiz(ctx context.Context, q quiz.Quiz) {
	s.invalidateStatus(ctx, &q)
	s.leaderboard.Invalidate(ctx, q.ID)
}

func (s *Service) invalidateStatus(ctx context.Context, q *quiz.Quiz) {
	if s.statusCache == nil {
		return
	}
	if err := s.statusCache.Delete(ctx, q.ID.String(), q.JoinCode); err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", q.ID.String()).Msg("status cache invalidation failed")
	}
}

func toSubmission(row sqlcgen.Submission) (*Submission, error) {
	answers, err := decodeAnswers(row.Answers)
	if err != nil {
		return nil, fmt.Errorf("decode answers of submission %s: %w", repository.UUID(row.SubmissionID), err)
	}
	start, _ := repository.Time(row.StartTime)
	end, _ := repository.Time(row.EndTime)
	sub := &Submission{
		ID:             repository.UUID(row.SubmissionID),
		QuizID:         repository.UUID(row.QuizID),
		ParticipantID:  repository.UUID(row.ParticipantID),
		Status:         SubmissionStatus(row.Status),
		StartTime:      start,
		EndTime:        end,
		Answers:        answers,
		Score:          int(row.Score),
		DurationMs:     row.DurationMs,
		ViolationCount: int(row.ViolationCount),
	}
	if at, ok := repository.Time(row.SubmittedAt); ok {
		sub.SubmittedAt = &at
	}
	return sub, nil
}
