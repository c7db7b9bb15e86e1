package db

import (
	"fmt"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureIndexes(db)
}

// EnsureIndexes adds composite indexes the struct tags cannot express.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_blog_post_status_created ON blog_post(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_product_status_created ON product(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_product_review_product_approved ON product_review(product_id, is_approved)`,
		`CREATE INDEX IF NOT EXISTS idx_blog_comment_post_approved ON blog_comment(post_id, is_approved)`,
		`CREATE INDEX IF NOT EXISTS idx_job_run_status_created ON job_run(status, created_at)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}
