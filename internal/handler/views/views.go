// Package views holds the HTML pages. The *.templ files are compiled to
// *_templ.go by `templ generate`.
package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pavelanni/drill/internal/model"
)

// Sidebar is the navigation state shown on every page.
type Sidebar struct {
	Page    model.Page
	Mode    model.Mode
	Summary model.Summary
}

// path prefixes p with the base path from context.
func path(ctx context.Context, p string) string {
	return model.BasePathFromContext(ctx) + p
}

func flashClass(kind model.FlashKind) string {
	return "flash flash-" + string(kind)
}

func jumpPath(id int64) string {
	return "/jump/" + strconv.FormatInt(id, 10)
}

// FormatRate formats an error rate with one decimal, e.g. "66.7%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// heatMax is the scale of the wrong-count bars. It is never zero so that
// the bar element stays valid on an all-zero board.
func heatMax(maxWrong int) string {
	if maxWrong <= 0 {
		maxWrong = 1
	}
	return strconv.Itoa(maxWrong)
}
