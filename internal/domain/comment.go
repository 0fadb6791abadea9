package domain

import "time"

// Comment 表示针对提问或回答的评论。
// QuestionID 和 AnswerID 有且只有一个在创建时被设置，之后不再变更。
type Comment struct {
	ID         uint       `gorm:"primaryKey"`
	Content    string     `gorm:"type:text;not null"`
	AuthorID   uint       `gorm:"index;not null"`
	QuestionID *uint      `gorm:"index"` // 评论挂在提问下时非空
	AnswerID   *uint      `gorm:"index"` // 评论挂在回答下时非空
	CreateDate time.Time  `gorm:"not null"`
	ModifyDate *time.Time

	Author User `gorm:"foreignKey:AuthorID"`
}

// OnQuestion 报告评论是否直接挂在提问下。
func (c *Comment) OnQuestion() bool {
	return c.QuestionID != nil
}
