package domain

import "time"

// Notification 表示发给用户的站内通知，目前只有 "你的提问有了新回答" 一种。
type Notification struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index;not null"` // 接收者
	QuestionID uint      `gorm:"not null"`
	AnswerID   uint      `gorm:"not null"`
	Message    string    `gorm:"type:varchar(255);not null"`
	Read       bool      `gorm:"index;not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}
