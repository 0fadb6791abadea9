package domain

import "time"

// Answer 表示针对某条提问的回答。
type Answer struct {
	ID         uint       `gorm:"primaryKey"`
	Content    string     `gorm:"type:text;not null"`
	AuthorID   uint       `gorm:"index;not null"`
	QuestionID uint       `gorm:"index;not null"`
	CreateDate time.Time  `gorm:"index;not null"`
	ModifyDate *time.Time

	Author   User      `gorm:"foreignKey:AuthorID"`
	Comments []Comment `gorm:"foreignKey:AnswerID"`
	Voters   []User    `gorm:"many2many:answer_voters"`
}
