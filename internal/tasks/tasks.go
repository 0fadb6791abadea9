// Package tasks 定义 asynq 任务类型和 payload。
package tasks

import "encoding/json"

// 任务类型常量
const (
	TypeAnswerNotification = "notification:answer" // 新回答通知
	TypeNotificationPurge  = "notification:purge"  // 周期清理已读通知
)

// AnswerNotificationPayload 是新回答通知任务的数据
type AnswerNotificationPayload struct {
	QuestionID uint `json:"question_id"`
	AnswerID   uint `json:"answer_id"`
}

// NewAnswerNotificationTask 序列化一个新回答通知任务的 payload
func NewAnswerNotificationTask(questionID, answerID uint) ([]byte, error) {
	return json.Marshal(AnswerNotificationPayload{
		QuestionID: questionID,
		AnswerID:   answerID,
	})
}

// NewNotificationPurgeTask 序列化一个清理任务的 payload (无数据)
func NewNotificationPurgeTask() ([]byte, error) {
	return json.Marshal(struct{}{})
}
