package domain

import "time"

// Question 表示一条提问。
// Voters 通过 question_voters 连接表维护推荐关系，联合主键保证
// 同一用户对同一问题至多投一票。
type Question struct {
	ID         uint       `gorm:"primaryKey"`
	Subject    string     `gorm:"type:varchar(200);not null"`
	Content    string     `gorm:"type:text;not null"`
	AuthorID   uint       `gorm:"index;not null"` // 创建后不再变更
	CreateDate time.Time  `gorm:"index;not null"`
	ModifyDate *time.Time // 从未修改过时为 NULL

	Author   User      `gorm:"foreignKey:AuthorID"`
	Answers  []Answer  `gorm:"foreignKey:QuestionID"`
	Comments []Comment `gorm:"foreignKey:QuestionID"`
	Voters   []User    `gorm:"many2many:question_voters"`
}
