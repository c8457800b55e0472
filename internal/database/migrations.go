package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds query-path indexes beyond what AutoMigrate declares.
// Only meaningful on postgres; other drivers rely on the model tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Order listing is always most-recent-first, optionally per client.
		{"orders", "idx_orders_status", "status"},
		{"orders", "idx_orders_assigned_to", "assigned_to"},
		{"orders", "idx_orders_created_at", "created_at"},

		// PDFs are listed per order, most recent first.
		{"order_pdfs", "idx_order_pdfs_uploaded_at", "uploaded_at"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
