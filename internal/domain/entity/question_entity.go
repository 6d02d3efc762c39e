package entity

import "time"

// Question is a generated multiple choice question.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// UsedQuestion records a question text that was already handed out.
type UsedQuestion struct {
	ID        string
	Question  string
	Topic     string
	CreatedAt time.Time
}
