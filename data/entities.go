package data

import (
	"github.com/propertylabs/rental-radar-alerts-sub000/criteria"
)

type User struct {
	WhopUserID string `db:"whop_user_id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	CreatedAt  int64  `db:"created_at"`
	UpdatedAt  int64  `db:"updated_at"`
}

// Search is a saved search joined with its criteria row. Timestamps are epoch seconds.
type Search struct {
	ID            string `db:"id"`
	UserID        string `db:"user_id"`
	Name          string `db:"name"`
	Notifications bool   `db:"notifications"`
	CreatedAt     int64  `db:"created_at"`
	UpdatedAt     int64  `db:"updated_at"`
	criteria.Criteria
}

// SearchCriteriaRow is the search_criteria table shape used for inserts.
type SearchCriteriaRow struct {
	SearchID string `db:"search_id"`
	criteria.Criteria
}
