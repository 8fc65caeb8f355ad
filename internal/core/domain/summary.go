package domain

// HabitSummary is the read-model behind the habit detail view: both
// streaks plus the completion totals rendered next to the heatmap.
type HabitSummary struct {
	HabitID       string `json:"habit_id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	TotalDaysDone int    `json:"total_days_done"`
	DaysThisMonth int    `json:"days_this_month"`
	FirstLogged   DayKey `json:"first_logged,omitempty"`
}

// Heatmap is one habit's completed days inside a display window.
type Heatmap struct {
	HabitID string   `json:"habit_id"`
	Color   string   `json:"color"`
	From    DayKey   `json:"from"`
	To      DayKey   `json:"to"`
	Days    []DayKey `json:"days"`
}
