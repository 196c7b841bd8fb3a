package profile

import "time"

// Section groups questions under a unique tag, e.g. one page of the
// community profile survey. Tags are stored lowercase and matched
// case-insensitively.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tag   string `json:"tag"`
	URL   string `json:"url,omitempty"`
}

// Question is a single prompt belonging to one section. UniqueHash is the
// content fingerprint used as the upsert key, so re-submitting identical
// content resolves to the same row.
type Question struct {
	ID         string `json:"id"`
	SectionID  string `json:"section_id"`
	Choices    string `json:"question_choices,omitempty"`
	Number     int    `json:"question_number"`
	Text       string `json:"question"`
	Type       string `json:"question_type,omitempty"`
	UniqueHash string `json:"unique_hash"`
}

// Answer is one user's response to one question within one group. At most
// one answer exists per (question, user, group) triple.
type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	UserID     int64     `json:"user_id"`
	GroupID    int64     `json:"group_id"`
	Text       string    `json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AnswerRecord is the denormalized join of an answer with its question and
// section, shaped for display.
type AnswerRecord struct {
	AnswerID        string    `json:"answer_id"`
	SectionTitle    string    `json:"section_title"`
	SectionTag      string    `json:"section_tag"`
	SectionURL      string    `json:"section_url,omitempty"`
	Question        string    `json:"question"`
	QuestionHash    string    `json:"question_hash"`
	QuestionNumber  int       `json:"question_number"`
	QuestionType    string    `json:"question_type,omitempty"`
	QuestionChoices string    `json:"question_choices,omitempty"`
	Answer          string    `json:"answer"`
	UserID          int64     `json:"user_id"`
	GroupID         int64     `json:"group_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
