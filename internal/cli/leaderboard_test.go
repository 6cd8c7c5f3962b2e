package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pavelanni/drill/internal/model"
)

func TestRenderLeaderboard(t *testing.T) {
	rows := []model.LeaderboardRow{
		{ID: 7, Snippet: "Which layer routes packets?", Wrong: 4, Correct: 1, Attempts: 5, ErrorRate: 80},
		{ID: 3, Snippet: "What does DNS resolve?", Wrong: 1, Correct: 3, Attempts: 4, ErrorRate: 25},
	}

	var buf bytes.Buffer
	if err := RenderLeaderboard(&buf, rows, 4, model.Summary{Questions: 10, TotalAttempts: 9, Favorites: 2}); err != nil {
		t.Fatalf("RenderLeaderboard: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Which layer routes packets?", "80.0%", "25.0%", "10 questions, 9 answers, 2 favorites"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Which layer") > strings.Index(out, "What does DNS") {
		t.Error("rows out of order")
	}
}

func TestRenderLeaderboardEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderLeaderboard(&buf, nil, 0, model.Summary{}); err != nil {
		t.Fatalf("RenderLeaderboard: %v", err)
	}
	if !strings.Contains(buf.String(), "No answers recorded yet.") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		wrong, max int
		filled     int
	}{
		{0, 0, 0},
		{5, 10, 5},
		{10, 10, 10},
	}
	for _, tt := range tests {
		got := strings.Count(bar(tt.wrong, tt.max), "█")
		if got != tt.filled {
			t.Errorf("bar(%d, %d) filled %d, want %d", tt.wrong, tt.max, got, tt.filled)
		}
	}
}
