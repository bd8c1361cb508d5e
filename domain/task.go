package domain

import "time"

// DateLayout is the storage format for task dates.
const DateLayout = "2006-01-02"

// Task is a user-owned to-do item. Date is kept as an ISO YYYY-MM-DD
// string, matching the column type; tasks are never mutated in place.
type Task struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayDate renders the date as MM/DD/YYYY for page templates. The
// stored value is returned unchanged when it does not parse.
func (t *Task) DisplayDate() string {
	if t == nil {
		return ""
	}
	parsed, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return t.Date
	}
	return parsed.Format("01/02/2006")
}
