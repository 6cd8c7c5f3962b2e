// Package cli renders question statistics for the terminal.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pavelanni/drill/internal/model"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleWrong  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Padding(0, 1)
	styleSubtle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleBar    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const barWidth = 10

// RenderLeaderboard writes the most-missed table followed by a summary line.
func RenderLeaderboard(w io.Writer, rows []model.LeaderboardRow, maxWrong int, sum model.Summary) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, styleSubtle.Render("No answers recorded yet."))
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleSubtle).
		Headers("ID", "Question", "Wrong", "Correct", "Error rate", "Attempts").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 2:
				return styleWrong
			default:
				return styleCell
			}
		})
	for _, r := range rows {
		t.Row(
			strconv.FormatInt(r.ID, 10),
			r.Snippet,
			bar(r.Wrong, maxWrong)+" "+strconv.Itoa(r.Wrong),
			strconv.Itoa(r.Correct),
			fmt.Sprintf("%.1f%%", r.ErrorRate),
			strconv.Itoa(r.Attempts),
		)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, styleSubtle.Render(fmt.Sprintf(
		"%d questions, %d answers, %d favorites", sum.Questions, sum.TotalAttempts, sum.Favorites)))
	return err
}

// bar draws a fixed-width heat bar for wrong relative to maxWrong.
func bar(wrong, maxWrong int) string {
	filled := 0
	if maxWrong > 0 {
		filled = wrong * barWidth / maxWrong
	}
	return styleBar.Render(strings.Repeat("█", filled)) + styleSubtle.Render(strings.Repeat("░", barWidth-filled))
}
