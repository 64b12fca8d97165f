package exam

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gokatarajesh/cbt-platform/internal/apperr"
	"github.com/gokatarajesh/cbt-platform/internal/question"
)

// normalizeAnswers trims ids, drops blank choices and checks every entry
// against the answer key.
func normalizeAnswers(in Answers, key question.AnswerKey) (Answers, error) {
	out := make(Answers, len(in))
	for qid, opt := range in {
		qid, opt = strings.TrimSpace(qid), strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		if _, ok := key[qid]; !ok {
			return nil, apperr.Invalid("answers", fmt.Sprintf("unknown question %q", qid))
		}
		if !key.HasOption(qid, opt) {
			return nil, apperr.Invalid("answers", fmt.Sprintf("unknown option %q for question %q", opt, qid))
		}
		out[qid] = opt
	}
	return out, nil
}

// Score awards one point per question whose stored choice equals the key.
func Score(answers Answers, key question.AnswerKey) int {
	score := 0
	for qid := range key {
		if key.IsCorrect(qid, answers[qid]) {
			score++
		}
	}
	return score
}

// DurationMs is submittedAt minus start in milliseconds, never negative.
func DurationMs(start, submittedAt time.Time) int64 {
	d := submittedAt.Sub(start).Milliseconds()
	if d < 0 {
		return 0
	}
	return d
}

func encodeAnswers(a Answers) ([]byte, error) {
	if a == nil {
		a = Answers{}
	}
	return json.Marshal(a)
}

func decodeAnswers(raw []byte) (Answers, error) {
	a := Answers{}
	if len(raw) == 0 || string(raw) == "null" {
		return a, nil
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return Answers{}, err
	}
	return a, nil
}
