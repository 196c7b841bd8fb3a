package profile

// Store is the persistence contract for the section → question → answer
// hierarchy. Upserts are keyed by each entity's natural key and return the
// canonical row id; reads that match nothing return (nil, nil).
type Store interface {
	// Sections are keyed by normalized tag. On conflict the existing row's
	// title and url are kept (first write wins on metadata).
	UpsertSection(title, tag, url string) (string, error)
	FindSectionByTag(tag string) (*Section, error)

	// Questions are keyed by content hash. First write wins on metadata.
	UpsertQuestion(sectionID, choices string, number int, text, questionType string) (string, error)
	FindQuestionByHash(hash string) (*Question, error)

	// Answers are keyed by (question, user, group). Resubmission overwrites
	// the answer text and updated_at in place.
	UpsertAnswer(userID, groupID int64, questionID, answerText string) (string, error)
	FindAnswer(userID, groupID int64, questionID string) (*Answer, error)

	// Denormalized reads joining all three entities.
	FindRecordByID(answerID string) (*AnswerRecord, error)
	// ListRecordsByGroup orders by section tag, then question number, then
	// answer creation time: the survey's natural presentation order.
	ListRecordsByGroup(groupID int64) ([]*AnswerRecord, error)
	ListRecordsBySectionTag(tag string, groupID, userID int64) ([]*AnswerRecord, error)
}

var _ Store = (*MemoryStore)(nil)
