package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/cbt-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/cbt-platform/internal/db/sqlc"
)

const (
	defaultTopN     = 50
	defaultCacheTTL = 5 * time.Second
)

// Entry is one ranked, completed submission.
type Entry struct {
	Rank           int       `json:"rank"`
	SubmissionID   uuid.UUID `json:"submissionId"`
	ParticipantID  uuid.UUID `json:"participantId"`
	TeamName       string    `json:"teamName"`
	Email          string    `json:"email"`
	School         string    `json:"school"`
	Score          int       `json:"score"`
	DurationMs     int64     `json:"durationMs"`
	SubmittedAt    time.Time `json:"submittedAt"`
	ViolationCount int       `json:"violationCount"`
}

type entryStore interface {
	Leaderboard(ctx context.Context, quizID uuid.UUID, limit int) ([]sqlcgen.ListLeaderboardRow, error)
}

var _ entryStore = (*repository.SubmissionRepository)(nil)

// ServiceOptions configures leaderboard behavior.
type ServiceOptions struct {
	TopN     int
	CacheTTL time.Duration
}

// Service reads ranked results and caches them briefly in Redis.
type Service struct {
	store  entryStore
	redis  *redis.Client
	logger zerolog.Logger
	topN   int
	ttl    time.Duration
}

// NewService constructs a leaderboard service. client may be nil to disable caching.
func NewService(store entryStore, client *redis.Client, logger zerolog.Logger, opts ServiceOptions) *Service {
	topN := opts.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{
		store:  store,
		redis:  client,
		logger: logger.With().Str("component", "leaderboard").Logger(),
		topN:   topN,
		ttl:    ttl,
	}
}

// TopN is the maximum number of entries Top returns.
func (s *Service) TopN() int {
	return s.topN
}

// Top returns the best completed submissions of a quiz.
func (s *Service) Top(ctx context.Context, quizID uuid.UUID) ([]Entry, error) {
	if cached, ok := s.readCache(ctx, quizID); ok {
		return cached, nil
	}

	rows, err := s.store.Leaderboard(ctx, quizID, s.topN)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		submitted, _ := repository.Time(row.SubmittedAt)
		entries = append(entries, Entry{
			SubmissionID:   repository.UUID(row.SubmissionID),
			ParticipantID:  repository.UUID(row.ParticipantID),
			TeamName:       row.TeamName,
			Email:          row.Email,
			School:         row.School,
			Score:          int(row.Score),
			DurationMs:     row.DurationMs,
			SubmittedAt:    submitted,
			ViolationCount: int(row.ViolationCount),
		})
	}
	entries = Rank(entries, s.topN)
	s.writeCache(ctx, quizID, entries)
	return entries, nil
}

// Invalidate drops the cached ranking of a quiz.
func (s *Service) Invalidate(ctx context.Context, quizID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, s.cacheKey(quizID)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("leaderboard cache invalidation failed")
	}
}

// Rank orders entries by score descending, then duration ascending, then
// submission time ascending, truncates to limit and numbers them from 1.
func Rank(entries []Entry, limit int) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DurationMs != b.DurationMs {
			return a.DurationMs < b.DurationMs
		}
		return a.SubmittedAt.Before(b.SubmittedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func (s *Service) cacheKey(quizID uuid.UUID) string {
	return "quiz:" + quizID.String() + ":leaderboard"
}

func (s *Service) readCache(ctx context.Context, quizID uuid.UUID) ([]Entry, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(ctx, s.cacheKey(quizID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("leaderboard cache read failed")
		}
		return nil, false
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *Service) writeCache(ctx context.Context, quizID uuid.UUID, entries []Entry) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, s.cacheKey(quizID), data, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("leaderboard cache write failed")
	}
}
