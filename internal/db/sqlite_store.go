package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mattmenger/emdc-guide/internal/profile"
)

// timeLayout is RFC3339 UTC with a fixed-width fraction, so the stored text
// sorts lexicographically in chronological order. time.RFC3339Nano trims
// trailing zeros and would not.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements profile.Store on a shared *sql.DB. The handle is
// injected once and reused read-only; all values pass through parameter
// binding. Table names carry the configured prefix.
type SQLiteStore struct {
	db     *sql.DB
	prefix string
	now    func() time.Time
	newID  func() string
}

func NewSQLiteStore(sqlDB *sql.DB, prefix string) (*SQLiteStore, error) {
	if sqlDB == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := sqlDB.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{
		db:     sqlDB,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}, nil
}

var _ profile.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) table(name string) string { return s.prefix + name }

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- Section methods ---

func (s *SQLiteStore) UpsertSection(title, tag, url string) (string, error) {
	norm := profile.NormalizeTag(tag)
	existing, err := s.FindSectionByTag(norm)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	id := s.newID()
	res, err := s.db.Exec(fmt.Sprintf(`INSERT INTO %s (id, title, tag, url) VALUES (?, ?, ?, ?)
      ON CONFLICT(tag) DO NOTHING`, s.table("sections")), id, title, norm, url)
	if err != nil {
		return "", fmt.Errorf("insert section %q: %w", norm, err)
	}
	if n, aerr := res.RowsAffected(); aerr == nil && n == 0 {
		// Lost the race to a concurrent insert; the winner's row is canonical.
		winner, err := s.FindSectionByTag(norm)
		if err != nil {
			return "", err
		}
		if winner == nil {
			return "", fmt.Errorf("insert section %q: conflict but no row", norm)
		}
		return winner.ID, nil
	}
	return id, nil
}

func (s *SQLiteStore) FindSectionByTag(tag string) (*profile.Section, error) {
	row := s.db.QueryRow(fmt.Sprintf(`SELECT id, title, tag, url FROM %s WHERE tag = ?`,
		s.table("sections")), profile.NormalizeTag(tag))
	var sec profile.Section
	if err := row.Scan(&sec.ID, &sec.Title, &sec.Tag, &sec.URL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find section by tag: %w", err)
	}
	return &sec, nil
}

// --- Question methods ---

func (s *SQLiteStore) UpsertQuestion(sectionID, choices string, number int, text, questionType string) (string, error) {
	hash := profile.QuestionHash(sectionID, number, text)
	existing, err := s.FindQuestionByHash(hash)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	id := s.newID()
	res, err := s.db.Exec(fmt.Sprintf(`INSERT INTO %s (id, section_id, question_choices, question_number, question, question_type, unique_hash)
      VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(unique_hash) DO NOTHING`, s.table("questions")),
		id, sectionID, choices, number, text, questionType, hash)
	if err != nil {
		return "", fmt.Errorf("insert question: %w", err)
	}
	if n, aerr := res.RowsAffected(); aerr == nil && n == 0 {
		winner, err := s.FindQuestionByHash(hash)
		if err != nil {
			return "", err
		}
		if winner == nil {
			return "", errors.New("insert question: conflict but no row")
		}
		return winner.ID, nil
	}
	return id, nil
}

func (s *SQLiteStore) FindQuestionByHash(hash string) (*profile.Question, error) {
	row := s.db.QueryRow(fmt.Sprintf(`SELECT id, section_id, question_choices, question_number, question, question_type, unique_hash
      FROM %s WHERE unique_hash = ?`, s.table("questions")), hash)
	var q profile.Question
	if err := row.Scan(&q.ID, &q.SectionID, &q.Choices, &q.Number, &q.Text, &q.Type, &q.UniqueHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find question by hash: %w", err)
	}
	return &q, nil
}

// --- Answer methods ---

func (s *SQLiteStore) UpsertAnswer(userID, groupID int64, questionID, answerText string) (string, error) {
	existing, err := s.FindAnswer(userID, groupID, questionID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if err := s.overwriteAnswer(existing.ID, answerText); err != nil {
			return "", err
		}
		return existing.ID, nil
	}
	id := s.newID()
	created := formatTime(s.now())
	res, err := s.db.Exec(fmt.Sprintf(`INSERT INTO %s (id, question_id, user_id, group_id, answer, created_at, updated_at)
      VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(question_id, user_id, group_id) DO NOTHING`, s.table("answers")),
		id, questionID, userID, groupID, answerText, created, created)
	if err != nil {
		return "", fmt.Errorf("insert answer: %w", err)
	}
	if n, aerr := res.RowsAffected(); aerr == nil && n == 0 {
		// A concurrent writer owns the row now; overwrite its text in place.
		winner, err := s.FindAnswer(userID, groupID, questionID)
		if err != nil {
			return "", err
		}
		if winner == nil {
			return "", errors.New("insert answer: conflict but no row")
		}
		if err := s.overwriteAnswer(winner.ID, answerText); err != nil {
			return "", err
		}
		return winner.ID, nil
	}
	return id, nil
}

func (s *SQLiteStore) overwriteAnswer(answerID, answerText string) error {
	_, err := s.db.Exec(fmt.Sprintf(`UPDATE %s SET answer = ?, updated_at = ? WHERE id = ?`,
		s.table("answers")), answerText, formatTime(s.now()), answerID)
	if err != nil {
		return fmt.Errorf("update answer %s: %w", answerID, err)
	}
	return nil
}

func (s *SQLiteStore) FindAnswer(userID, groupID int64, questionID string) (*profile.Answer, error) {
	row := s.db.QueryRow(fmt.Sprintf(`SELECT id, question_id, user_id, group_id, answer, created_at, updated_at
      FROM %s WHERE question_id = ? AND user_id = ? AND group_id = ?`, s.table("answers")),
		questionID, userID, groupID)
	var a profile.Answer
	var created, updated string
	if err := row.Scan(&a.ID, &a.QuestionID, &a.UserID, &a.GroupID, &a.Text, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find answer: %w", err)
	}
	a.CreatedAt = parseTime(created)
	a.UpdatedAt = parseTime(updated)
	return &a, nil
}

// --- Denormalized reads ---

func (s *SQLiteStore) recordQuery(where, order string) string {
	return fmt.Sprintf(`SELECT s.title, s.tag, s.url, q.question, q.unique_hash, q.question_number,
      q.question_type, q.question_choices, a.id, a.answer, a.user_id, a.group_id, a.created_at, a.updated_at
      FROM %s AS s JOIN %s AS q ON s.id = q.section_id JOIN %s AS a ON q.id = a.question_id
      %s %s`, s.table("sections"), s.table("questions"), s.table("answers"), where, order)
}

func scanRecord(scan func(dest ...any) error) (*profile.AnswerRecord, error) {
	var rec profile.AnswerRecord
	var created, updated string
	err := scan(&rec.SectionTitle, &rec.SectionTag, &rec.SectionURL, &rec.Question, &rec.QuestionHash,
		&rec.QuestionNumber, &rec.QuestionType, &rec.QuestionChoices, &rec.AnswerID, &rec.Answer,
		&rec.UserID, &rec.GroupID, &created, &updated)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = parseTime(created)
	rec.UpdatedAt = parseTime(updated)
	return &rec, nil
}

func (s *SQLiteStore) FindRecordByID(answerID string) (*profile.AnswerRecord, error) {
	row := s.db.QueryRow(s.recordQuery("WHERE a.id = ?", ""), answerID)
	rec, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find record by id: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) ListRecordsByGroup(groupID int64) ([]*profile.AnswerRecord, error) {
	query := s.recordQuery("WHERE a.group_id = ?",
		"ORDER BY s.tag ASC, q.question_number ASC, a.created_at ASC")
	rows, err := s.db.Query(query, groupID)
	if err != nil {
		return nil, fmt.Errorf("list records by group: %w", err)
	}
	return s.collectRecords(rows, "ListRecordsByGroup")
}

func (s *SQLiteStore) ListRecordsBySectionTag(tag string, groupID, userID int64) ([]*profile.AnswerRecord, error) {
	query := s.recordQuery("WHERE s.tag = ? AND a.group_id = ? AND a.user_id = ?", "")
	rows, err := s.db.Query(query, profile.NormalizeTag(tag), groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("list records by section tag: %w", err)
	}
	return s.collectRecords(rows, "ListRecordsBySectionTag")
}

func (s *SQLiteStore) collectRecords(rows *sql.Rows, op string) ([]*profile.AnswerRecord, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logErr(op+": rows.Close", cerr)
		}
	}()
	out := []*profile.AnswerRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
