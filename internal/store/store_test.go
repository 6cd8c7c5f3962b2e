package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pavelanni/drill/internal/model"
)

func writeBankFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeBankFile: %v", err)
	}
	return path
}

func newTestBank(t *testing.T) *Bank {
	t.Helper()
	path := writeBankFile(t, `[
  {"id": 1, "question": "Q1", "option_A": "a1", "option_B": "b1", "answer": "A"},
  {"id": 2, "question": "Q2", "option_A": "a2", "option_B": "b2", "option_C": "c2", "answer": "C", "favorite": true},
  {"id": 3, "question": "Q3", "option_A": "a3", "option_B": "b3", "answer": "B", "stats": {"attempts": 3, "correct": 1, "wrong": 2}}
]`)
	b, err := Open(path)
	if err != nil {
		t.Fatalf("newTestBank: %v", err)
	}
	return b
}

func TestLoadBackfillsDefaults(t *testing.T) {
	path := writeBankFile(t, `[
  {"id": 1, "question": "What is 2+2?", "option_A": "3", "option_B": "4", "answer": "B", "note": "arithmetic"},
  {"id": 2, "question": "Q2", "option_A": "x", "answer": "A", "favorite": true, "stats": {"attempts": 2, "correct": 1, "wrong": 1}}
]`)

	qs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}

	q := qs[0]
	if q.Stats != (model.Stats{}) {
		t.Errorf("expected zero stats, got %+v", q.Stats)
	}
	if q.Favorite {
		t.Error("expected favorite false")
	}
	if q.ID != 1 || q.Text != "What is 2+2?" || q.Answer != "B" || q.Note != "arithmetic" {
		t.Errorf("other fields altered: %+v", q)
	}
	if q.OptionA != "3" || q.OptionB != "4" || q.OptionC != "" {
		t.Errorf("options altered: %+v", q.Options())
	}

	q = qs[1]
	if !q.Favorite {
		t.Error("expected stored favorite to be kept")
	}
	if q.Stats != (model.Stats{Attempts: 2, Correct: 1, Wrong: 1}) {
		t.Errorf("expected stored stats to be kept, got %+v", q.Stats)
	}
}

func TestLoadMissingFile(t *testing.T) {
	qs, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrBankMissing) {
		t.Fatalf("expected ErrBankMissing, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected error to wrap fs.ErrNotExist")
	}
	if qs == nil || len(qs) != 0 {
		t.Errorf("expected empty non-nil list, got %v", qs)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeBankFile(t, `{"id": 1}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for non-array document")
	}
}

func TestOpenMissingFile(t *testing.T) {
	b, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !b.Missing() {
		t.Error("expected Missing() to be true")
	}
	if b.Len() != 0 {
		t.Errorf("expected empty bank, got %d", b.Len())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeBankFile(t, `[
  {"id": 7, "question": "Ünïcödé <b>&</b> 题目", "option_A": "是", "answer": "A", "source": {"page": 12}, "tags": ["x"]}
]`)
	qs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	qs[0].Stats = model.Stats{Attempts: 1, Correct: 1}
	if err := Save(path, qs); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "Ünïcödé <b>&</b> 题目") {
		t.Errorf("expected text written verbatim, got:\n%s", text)
	}
	if !strings.Contains(text, "\n  {") {
		t.Errorf("expected two-space indentation, got:\n%s", text)
	}

	var generic []map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("saved file is not valid JSON: %v", err)
	}
	rec := generic[0]
	if _, ok := rec["source"]; !ok {
		t.Error("unknown key 'source' was dropped")
	}
	if _, ok := rec["tags"]; !ok {
		t.Error("unknown key 'tags' was dropped")
	}
	if rec["favorite"] != false {
		t.Errorf("expected favorite=false to be written, got %v", rec["favorite"])
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if again[0].Stats != qs[0].Stats {
		t.Errorf("stats not persisted: %+v", again[0].Stats)
	}
	if again[0].Text != qs[0].Text {
		t.Errorf("text changed: %q", again[0].Text)
	}
}

func TestSaveKeepsEmptyOptionalKeys(t *testing.T) {
	path := writeBankFile(t, `[
  {"id": 1, "question": "Q", "option_A": "a", "option_B": "", "answer": "A", "note": null}
]`)
	qs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if qs[0].OptionB != "" || qs[0].Note != "" {
		t.Fatalf("unexpected decode: %+v", qs[0])
	}
	if got := len(qs[0].Options()); got != 1 {
		t.Errorf("expected 1 offered option, got %d", got)
	}
	if err := Save(path, qs); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var generic []map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("saved file is not valid JSON: %v", err)
	}
	rec := generic[0]
	if v, ok := rec["option_B"]; !ok || v != "" {
		t.Errorf("option_B = %v (present %v), want empty string", v, ok)
	}
	if v, ok := rec["note"]; !ok || v != nil {
		t.Errorf("note = %v (present %v), want null", v, ok)
	}
	if _, ok := rec["option_C"]; ok {
		t.Error("option_C was not in the source and must not be added")
	}
}

func TestRecordAnswer(t *testing.T) {
	tests := []struct {
		name        string
		label       string
		wantCorrect bool
		want        model.Stats
	}{
		{"correct", "A", true, model.Stats{Attempts: 1, Correct: 1, Wrong: 0}},
		{"wrong", "B", false, model.Stats{Attempts: 1, Correct: 0, Wrong: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBank(t)
			correct, err := b.RecordAnswer(0, tt.label)
			if err != nil {
				t.Fatalf("RecordAnswer: %v", err)
			}
			if correct != tt.wantCorrect {
				t.Errorf("correct = %v, want %v", correct, tt.wantCorrect)
			}
			q, _ := b.Question(0)
			if q.Stats != tt.want {
				t.Errorf("stats = %+v, want %+v", q.Stats, tt.want)
			}

			// The file is rewritten on every answer.
			reloaded, err := Load(b.Path())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if reloaded[0].Stats != tt.want {
				t.Errorf("persisted stats = %+v, want %+v", reloaded[0].Stats, tt.want)
			}
		})
	}
}

func TestRecordAnswerKeepsInvariant(t *testing.T) {
	b := newTestBank(t)
	for _, label := range []string{"A", "B", "B", "C", "A"} {
		if _, err := b.RecordAnswer(2, label); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
		q, _ := b.Question(2)
		if q.Stats.Attempts != q.Stats.Correct+q.Stats.Wrong {
			t.Fatalf("invariant broken: %+v", q.Stats)
		}
	}
}

func TestRecordAnswerOutOfRange(t *testing.T) {
	b := newTestBank(t)
	if _, err := b.RecordAnswer(99, "A"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := b.ToggleFavorite(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestToggleFavorite(t *testing.T) {
	b := newTestBank(t)

	fav, err := b.ToggleFavorite(0)
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if !fav {
		t.Error("expected favorite to become true")
	}
	fav, _ = b.ToggleFavorite(0)
	if fav {
		t.Error("expected favorite to become false again")
	}

	reloaded, _ := Load(b.Path())
	if reloaded[0].Favorite {
		t.Error("expected persisted favorite false")
	}
	if !reloaded[1].Favorite {
		t.Error("untouched favorite lost")
	}
}

func TestResetStats(t *testing.T) {
	b := newTestBank(t)
	if err := b.ResetStats(); err != nil {
		t.Fatalf("ResetStats: %v", err)
	}
	for i, q := range b.Questions() {
		if q.Stats != (model.Stats{}) {
			t.Errorf("question %d: expected zero stats, got %+v", i, q.Stats)
		}
	}
	q, _ := b.Question(1)
	if !q.Favorite {
		t.Error("reset should keep favorites")
	}
}

func TestIndexByID(t *testing.T) {
	b := newTestBank(t)

	tests := []struct {
		id   int64
		want int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{42, 0},
	}
	for _, tt := range tests {
		if got := b.IndexByID(tt.id); got != tt.want {
			t.Errorf("IndexByID(%d) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestQuestionsIsCopy(t *testing.T) {
	b := newTestBank(t)
	qs := b.Questions()
	qs[0].Favorite = true
	q, _ := b.Question(0)
	if q.Favorite {
		t.Error("mutating the copy changed the bank")
	}
}
