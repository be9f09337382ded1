package model

import "time"

// Follow is a directed edge meaning "follower observes followed". The
// composite primary key guarantees at most one edge per ordered pair, so a
// racing duplicate insert fails on the key instead of creating a second
// row.
type Follow struct {
	FollowerID uint      `json:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint      `json:"followed_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName keeps the table name the schema expects.
func (Follow) TableName() string { return "follows" }
