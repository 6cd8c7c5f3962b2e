package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pavelanni/drill/internal/model"
)

// ErrBankMissing is returned by Load when the question file does not exist.
var ErrBankMissing = errors.New("question bank file not found")

// ErrOutOfRange is returned when a question index is outside the bank.
var ErrOutOfRange = errors.New("question index out of range")

// Load reads the question bank at path. Records without stats or favorite
// are given zeroed stats and favorite=false. A missing file yields an empty
// list and an error wrapping both ErrBankMissing and fs.ErrNotExist.
func Load(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Question{}, fmt.Errorf("%w: %s: %w", ErrBankMissing, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	questions, backfilled, err := decodeBank(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if backfilled > 0 {
		slog.Debug("initialized missing question fields", "path", path, "count", backfilled)
	}
	return questions, nil
}

// Save overwrites path with the full question list. The write is not atomic:
// a crash midway can leave a truncated file.
func Save(path string, questions []model.Question) error {
	data, err := encodeBank(questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Bank is the in-memory question list backed by a JSON file. Every mutation
// rewrites the whole file. A Bank is not safe for concurrent use.
type Bank struct {
	path      string
	questions []model.Question
	missing   bool
}

// Open loads the bank at path. A missing file is not an error: the bank is
// empty and Missing reports true.
func Open(path string) (*Bank, error) {
	questions, err := Load(path)
	if errors.Is(err, ErrBankMissing) {
		slog.Warn("question bank not found, starting empty", "path", path)
		return &Bank{path: path, questions: questions, missing: true}, nil
	}
	if err != nil {
		return nil, err
	}
	slog.Info("loaded question bank", "path", path, "count", len(questions))
	return &Bank{path: path, questions: questions}, nil
}

// Path returns the backing file path.
func (b *Bank) Path() string { return b.path }

// Missing reports whether the backing file was absent at load time.
func (b *Bank) Missing() bool { return b.missing }

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// Question returns the question at index i.
func (b *Bank) Question(i int) (model.Question, error) {
	if i < 0 || i >= len(b.questions) {
		return model.Question{}, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return b.questions[i], nil
}

// Questions returns a copy of the list.
func (b *Bank) Questions() []model.Question {
	out := make([]model.Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// IndexByID returns the index of the question with the given id, or 0 if
// there is none.
func (b *Bank) IndexByID(id int64) int {
	for i, q := range b.questions {
		if q.ID == id {
			return i
		}
	}
	return 0
}

// RecordAnswer grades label against question i, updates its stats and saves
// the bank. It reports whether the answer was correct.
func (b *Bank) RecordAnswer(i int, label string) (bool, error) {
	if i < 0 || i >= len(b.questions) {
		return false, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	q := &b.questions[i]
	correct := label == q.Answer
	q.Stats.Attempts++
	if correct {
		q.Stats.Correct++
	} else {
		q.Stats.Wrong++
	}
	return correct, b.save()
}

// ToggleFavorite flips the favorite flag of question i and saves the bank.
// It returns the new value.
func (b *Bank) ToggleFavorite(i int) (bool, error) {
	if i < 0 || i >= len(b.questions) {
		return false, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	q := &b.questions[i]
	q.Favorite = !q.Favorite
	return q.Favorite, b.save()
}

// ResetStats zeroes the counters of every question and saves the bank.
// Favorites are kept.
func (b *Bank) ResetStats() error {
	for i := range b.questions {
		b.questions[i].Stats = model.Stats{}
	}
	return b.save()
}

func (b *Bank) save() error {
	if err := Save(b.path, b.questions); err != nil {
		slog.Error("failed to save question bank", "path", b.path, "error", err)
		return err
	}
	return nil
}
