package question

import (
	"github.com/google/uuid"
)

// Option is one selectable answer of a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is the admin view, including the correct option.
type Question struct {
	ID              uuid.UUID `json:"id"`
	QuizID          uuid.UUID `json:"quizId"`
	Number          int       `json:"questionNumber"`
	Text            string    `json:"questionText"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	TableData       string    `json:"tableData,omitempty"`
	Options         []Option  `json:"options"`
	CorrectOptionID string    `json:"correctOptionId"`
}

// Public strips the answer key so the question can be sent to participants.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:        q.ID,
		Number:    q.Number,
		Text:      q.Text,
		ImageURL:  q.ImageURL,
		TableData: q.TableData,
		Options:   q.Options,
	}
}

// PublicQuestion is what participants see during an exam.
type PublicQuestion struct {
	ID        uuid.UUID `json:"id"`
	Number    int       `json:"questionNumber"`
	Text      string    `json:"questionText"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	TableData string    `json:"tableData,omitempty"`
	Options   []Option  `json:"options"`
}

// Request is the admin payload for creating or replacing a question.
type Request struct {
	Number          int      `json:"questionNumber"`
	Text            string   `json:"questionText"`
	ImageURL        string   `json:"imageUrl"`
	TableData       string   `json:"tableData"`
	Options         []Option `json:"options"`
	CorrectOptionID string   `json:"correctOptionId"`
}

// KeyEntry holds what scoring and answer validation need for one question.
type KeyEntry struct {
	Correct string   `json:"correct"`
	Options []string `json:"options"`
}

// AnswerKey maps question id to its KeyEntry.
type AnswerKey map[string]KeyEntry

// HasOption reports whether optionID is a valid choice for questionID.
func (k AnswerKey) HasOption(questionID, optionID string) bool {
	entry, ok := k[questionID]
	if !ok {
		return false
	}
	for _, o := range entry.Options {
		if o == optionID {
			return true
		}
	}
	return false
}

// IsCorrect reports whether optionID is the correct choice for questionID.
func (k AnswerKey) IsCorrect(questionID, optionID string) bool {
	entry, ok := k[questionID]
	return ok && optionID != "" && entry.Correct == optionID
}
