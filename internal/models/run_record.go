package models

import "time"

// RunRecord is a workout synced from the client's health store.
type RunRecord struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	StartedAt       time.Time `db:"started_at" json:"started_at"`
	DurationSeconds float64   `db:"duration_seconds" json:"duration_seconds"`
	DistanceMeters  float64   `db:"distance_meters" json:"distance_meters"`
	Calories        float64   `db:"calories" json:"calories"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
