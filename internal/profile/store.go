package profile

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in memory with the same upsert and ordering
// semantics as the SQLite store. It backs tests and ephemeral callers.
type MemoryStore struct {
	mu        sync.RWMutex
	sections  map[string]*Section  // keyed by normalized tag
	questions map[string]*Question // keyed by unique hash
	answers   []*Answer
	now       func() time.Time
	newID     func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sections:  map[string]*Section{},
		questions: map[string]*Question{},
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

func (s *MemoryStore) UpsertSection(title, tag, url string) (string, error) {
	norm := NormalizeTag(tag)
	s.mu.Lock()
	defer s.mu.Unlock()
	if sec, ok := s.sections[norm]; ok {
		return sec.ID, nil
	}
	sec := &Section{ID: s.newID(), Title: title, Tag: norm, URL: url}
	s.sections[norm] = sec
	return sec.ID, nil
}

func (s *MemoryStore) FindSectionByTag(tag string) (*Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, ok := s.sections[NormalizeTag(tag)]
	if !ok {
		return nil, nil
	}
	cp := *sec
	return &cp, nil
}

func (s *MemoryStore) UpsertQuestion(sectionID, choices string, number int, text, questionType string) (string, error) {
	hash := QuestionHash(sectionID, number, text)
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.questions[hash]; ok {
		return q.ID, nil
	}
	q := &Question{
		ID:         s.newID(),
		SectionID:  sectionID,
		Choices:    choices,
		Number:     number,
		Text:       text,
		Type:       questionType,
		UniqueHash: hash,
	}
	s.questions[hash] = q
	return q.ID, nil
}

func (s *MemoryStore) FindQuestionByHash(hash string) (*Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[hash]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (s *MemoryStore) UpsertAnswer(userID, groupID int64, questionID, answerText string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.answers {
		if a.QuestionID == questionID && a.UserID == userID && a.GroupID == groupID {
			a.Text = answerText
			a.UpdatedAt = s.now()
			return a.ID, nil
		}
	}
	created := s.now()
	a := &Answer{
		ID:         s.newID(),
		QuestionID: questionID,
		UserID:     userID,
		GroupID:    groupID,
		Text:       answerText,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	s.answers = append(s.answers, a)
	return a.ID, nil
}

func (s *MemoryStore) FindAnswer(userID, groupID int64, questionID string) (*Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.answers {
		if a.QuestionID == questionID && a.UserID == userID && a.GroupID == groupID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindRecordByID(answerID string) (*AnswerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.answers {
		if a.ID == answerID {
			return s.record(a), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListRecordsByGroup(groupID int64) ([]*AnswerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*AnswerRecord{}
	for _, a := range s.answers {
		if a.GroupID != groupID {
			continue
		}
		if rec := s.record(a); rec != nil {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SectionTag != out[j].SectionTag {
			return out[i].SectionTag < out[j].SectionTag
		}
		if out[i].QuestionNumber != out[j].QuestionNumber {
			return out[i].QuestionNumber < out[j].QuestionNumber
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) ListRecordsBySectionTag(tag string, groupID, userID int64) ([]*AnswerRecord, error) {
	norm := NormalizeTag(tag)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*AnswerRecord{}
	for _, a := range s.answers {
		if a.GroupID != groupID || a.UserID != userID {
			continue
		}
		rec := s.record(a)
		if rec != nil && rec.SectionTag == norm {
			out = append(out, rec)
		}
	}
	return out, nil
}

// record assembles the denormalized view for one answer. Callers hold the
// lock.
func (s *MemoryStore) record(a *Answer) *AnswerRecord {
	var q *Question
	for _, cand := range s.questions {
		if cand.ID == a.QuestionID {
			q = cand
			break
		}
	}
	if q == nil {
		return nil
	}
	var sec *Section
	for _, cand := range s.sections {
		if cand.ID == q.SectionID {
			sec = cand
			break
		}
	}
	if sec == nil {
		return nil
	}
	return &AnswerRecord{
		AnswerID:        a.ID,
		SectionTitle:    sec.Title,
		SectionTag:      sec.Tag,
		SectionURL:      sec.URL,
		Question:        q.Text,
		QuestionHash:    q.UniqueHash,
		QuestionNumber:  q.Number,
		QuestionType:    q.Type,
		QuestionChoices: q.Choices,
		Answer:          a.Text,
		UserID:          a.UserID,
		GroupID:         a.GroupID,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
