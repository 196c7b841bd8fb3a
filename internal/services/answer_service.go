package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattmenger/emdc-guide/internal/profile"
)

type ErrorCode string

const ErrorInvalid ErrorCode = "invalid"

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error { return &ServiceError{Code: ErrorInvalid, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AnswerSubmission is one flattened section+question+answer tuple as the
// host layer collects it from a form.
type AnswerSubmission struct {
	GroupID         int64  `json:"group_id"`
	UserID          int64  `json:"user_id"`
	SectionTitle    string `json:"section_title"`
	SectionTag      string `json:"section_tag"`
	SectionURL      string `json:"section_url,omitempty"`
	QuestionChoices string `json:"question_choices,omitempty"`
	QuestionNumber  int    `json:"question_number"`
	Question        string `json:"question"`
	QuestionType    string `json:"question_type,omitempty"`
	Answer          string `json:"answer"`
}

// SubmissionResult reports the ids touched by a successful submission.
type SubmissionResult struct {
	SectionID  string `json:"section_id"`
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
}

// AnswerService orchestrates the three-level upsert for submitted answers
// and serves the denormalized read views.
type AnswerService struct {
	store profile.Store
}

// NewAnswerService constructs a service bound to the provided store. A nil
// store is a caller bug and fails immediately.
func NewAnswerService(store profile.Store) (*AnswerService, error) {
	if store == nil {
		return nil, errors.New("answer service requires a store")
	}
	return &AnswerService{store: store}, nil
}

// CreateOrUpdate upserts section, then question, then answer, stopping at
// the first stage that fails. There is no compensating rollback: parent
// rows left behind by a failed stage are reused on retry because every
// upsert is keyed by its natural key.
func (s *AnswerService) CreateOrUpdate(sub AnswerSubmission) (*SubmissionResult, error) {
	if strings.TrimSpace(sub.SectionTag) == "" {
		return nil, NewInvalidError("section tag required")
	}
	if strings.TrimSpace(sub.SectionTitle) == "" {
		return nil, NewInvalidError("section title required")
	}
	if strings.TrimSpace(sub.Question) == "" {
		return nil, NewInvalidError("question required")
	}
	if sub.UserID <= 0 || sub.GroupID <= 0 {
		return nil, NewInvalidError("user and group ids required")
	}

	sectionID, err := s.store.UpsertSection(sub.SectionTitle, sub.SectionTag, sub.SectionURL)
	if err != nil {
		return nil, fmt.Errorf("upsert section: %w", err)
	}
	questionID, err := s.store.UpsertQuestion(sectionID, sub.QuestionChoices, sub.QuestionNumber, sub.Question, sub.QuestionType)
	if err != nil {
		return nil, fmt.Errorf("upsert question: %w", err)
	}
	answerID, err := s.store.UpsertAnswer(sub.UserID, sub.GroupID, questionID, sub.Answer)
	if err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}
	return &SubmissionResult{SectionID: sectionID, QuestionID: questionID, AnswerID: answerID}, nil
}

// FindByID returns the joined record for one answer, or nil if absent.
func (s *AnswerService) FindByID(answerID string) (*profile.AnswerRecord, error) {
	if strings.TrimSpace(answerID) == "" {
		return nil, NewInvalidError("answer id required")
	}
	return s.store.FindRecordByID(answerID)
}

// ListByGroup returns every record in a group, ordered by section tag,
// question number, then answer creation time.
func (s *AnswerService) ListByGroup(groupID int64) ([]*profile.AnswerRecord, error) {
	if groupID <= 0 {
		return nil, NewInvalidError("group id required")
	}
	return s.store.ListRecordsByGroup(groupID)
}

// ListBySectionTag returns one user's records within one section of a
// group. Tag matching is case-insensitive.
func (s *AnswerService) ListBySectionTag(tag string, groupID, userID int64) ([]*profile.AnswerRecord, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, NewInvalidError("section tag required")
	}
	if groupID <= 0 || userID <= 0 {
		return nil, NewInvalidError("user and group ids required")
	}
	return s.store.ListRecordsBySectionTag(tag, groupID, userID)
}
