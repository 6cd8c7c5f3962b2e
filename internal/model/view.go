package model

// LeaderboardRow is one line of the most-missed questions table.
type LeaderboardRow struct {
	ID        int64
	Snippet   string
	Wrong     int
	Correct   int
	Attempts  int
	ErrorRate float64
}

// Summary holds the sidebar counters.
type Summary struct {
	Questions     int
	TotalAttempts int
	Favorites     int
}

// PracticeView is the practice screen projection of a session.
type PracticeView struct {
	Mode      Mode
	Index     int
	Question  *Question // nil when the bank is empty
	Options   []Option
	Selection string
	Submitted bool
	Correct   bool
	Summary   Summary
	Missing   bool   // the bank file was not found at startup
	Path      string // bank file path
}

// LeaderboardView is the leaderboard screen projection.
type LeaderboardView struct {
	Rows     []LeaderboardRow
	MaxWrong int
	Limit    int
	Summary  Summary
	Missing  bool
	Path     string
}
