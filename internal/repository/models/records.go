package models

// UserRecord is a row of the users table. Unset text columns hold ''.
type UserRecord struct {
	UserID       int64  `db:"user_id"`
	Language     string `db:"language"`
	EnglishLevel string `db:"english_level"`
	Name         string `db:"name"`
	Age          string `db:"age"`
	Score        int    `db:"score"`
}

// Plan is a row of the plans table, one per user.
type Plan struct {
	UserID int64  `db:"user_id"`
	Plan   string `db:"plan"`
}

// EssayTopic is a row of the essay_topics table.
type EssayTopic struct {
	EssayID int64  `db:"essay_id"`
	UserID  int64  `db:"user_id"`
	Topic   string `db:"topic"`
	Status  string `db:"status"`
}
