package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phs9607/mysite/internal/domain"
)

// MigrateDB 迁移全部表结构。
// question_voters / answer_voters 连接表由 GORM 根据 many2many 标签创建，
// 联合主键 (question_id/answer_id, user_id) 保证推荐关系的唯一性。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	err := db.AutoMigrate(
		&domain.User{},
		&domain.Question{},
		&domain.Answer{},
		&domain.Comment{},
		&domain.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
