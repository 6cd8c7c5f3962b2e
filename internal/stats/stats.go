// Package stats aggregates answer counters for the leaderboard and sidebar.
package stats

import (
	"sort"
	"unicode/utf8"

	"github.com/pavelanni/drill/internal/model"
)

// DefaultLimit is the number of leaderboard rows shown.
const DefaultLimit = 50

const snippetLen = 50

// Leaderboard returns attempted questions ordered by wrong count, highest
// first, truncated to limit rows (limit <= 0 means DefaultLimit). Ties keep
// bank order.
func Leaderboard(questions []model.Question, limit int) []model.LeaderboardRow {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var rows []model.LeaderboardRow
	for _, q := range questions {
		if q.Stats.Attempts == 0 {
			continue
		}
		rows = append(rows, model.LeaderboardRow{
			ID:        q.ID,
			Snippet:   Snippet(q.Text),
			Wrong:     q.Stats.Wrong,
			Correct:   q.Stats.Correct,
			Attempts:  q.Stats.Attempts,
			ErrorRate: q.Stats.ErrorRate(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Wrong > rows[j].Wrong
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// MaxWrong returns the highest wrong count among rows, or 0.
func MaxWrong(rows []model.LeaderboardRow) int {
	m := 0
	for _, r := range rows {
		if r.Wrong > m {
			m = r.Wrong
		}
	}
	return m
}

// Snippet shortens question text to its first 50 characters.
func Snippet(text string) string {
	if utf8.RuneCountInString(text) <= snippetLen {
		return text
	}
	r := []rune(text)
	return string(r[:snippetLen]) + "..."
}

// Summarize counts questions, total attempts and favorites.
func Summarize(questions []model.Question) model.Summary {
	s := model.Summary{Questions: len(questions)}
	for _, q := range questions {
		s.TotalAttempts += q.Stats.Attempts
		if q.Favorite {
			s.Favorites++
		}
	}
	return s
}
