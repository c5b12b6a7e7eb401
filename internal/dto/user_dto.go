package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims defines the custom claims for ops API bearer tokens.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserDetailResponse is the learner view served to operators.
// @Description Learner profile with plan and open essay assignments
type UserDetailResponse struct {
	UserID       int64                `json:"user_id"`
	Language     string               `json:"language"`
	EnglishLevel string               `json:"english_level,omitempty"`
	Name         string               `json:"name,omitempty"`
	Age          string               `json:"age,omitempty"`
	Score        int                  `json:"score"`
	Plan         string               `json:"plan,omitempty"`
	ActiveEssays []EssayTopicResponse `json:"active_essays"`
}

// EssayTopicResponse is one essay assignment.
type EssayTopicResponse struct {
	EssayID int64  `json:"essay_id"`
	Topic   string `json:"topic"`
	Status  string `json:"status"`
}

// BroadcastResponse reports a reminder broadcast run.
// @Description Outcome of a reminder broadcast
type BroadcastResponse struct {
	RunID     string `json:"run_id"`
	Total     int    `json:"total"`
	Delivered int    `json:"delivered"`
	Failed    int    `json:"failed"`
}

// HealthResponse reports the state of each backing store.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
