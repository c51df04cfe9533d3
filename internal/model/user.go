package model

import "time"

// User stores Telegram chat metadata so scheduled reports know where to go.
// The tracker itself is single-user: domain data is not partitioned by user.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
