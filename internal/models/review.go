package models

import "gorm.io/gorm"

// Review is one rating left by a reviewer about a reviewed user. At most one
// review per (reviewer, reviewed) pair; self-review is forbidden. Both rules
// are enforced by pre-write checks in the handler, not a database constraint.
type Review struct {
	gorm.Model

	ReviewerID string `json:"reviewer_id" gorm:"index"`
	ReviewedID string `json:"reviewed_id" gorm:"index"`
	Rating     int    `json:"rating"` // 1..5
	Text       string `json:"text"`
	Tags       string `json:"tags"` // comma-separated, e.g. "punctual,clean-car"
}

// RatingSummary aggregates a user's review distribution.
type RatingSummary struct {
	UserID  string      `json:"user_id"`
	Total   int         `json:"total"`
	Average float64     `json:"average"`
	Counts  map[int]int `json:"counts"` // star -> count
}
