package domain

import "time"

// UserStats counters only grow, once per completed pickup.
type UserStats struct {
	UserID         int32     `json:"user_id"`
	TotalDonated   int32     `json:"total_donated"`
	TotalCollected int32     `json:"total_collected"`
	LastUpdated    time.Time `json:"last_updated"`
}
