package database

import (
	"context"
	"database/sql"
	"log"
)

// statements creates the four business tables plus staff accounts.
// Orders foreign-key quotes and history rows foreign-key orders; the
// quote reference, order number and tracking token carry UNIQUE
// indexes, which is what turns an identifier collision into a
// retryable duplicate-key error.  quote_id on orders is UNIQUE too, so
// two conversions racing past the pending-status check cannot both
// commit an order for the same quote.  History timestamps use
// DATETIME(6) so that entries appended in quick succession still order
// correctly.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS materials (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price_per_gram_cents BIGINT NOT NULL,
		colors TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS quotes (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		reference VARCHAR(20) NOT NULL,
		customer_name VARCHAR(255) NOT NULL,
		customer_email VARCHAR(255) NOT NULL,
		customer_phone VARCHAR(50) NULL,
		file_name VARCHAR(255) NOT NULL,
		file_ref VARCHAR(255) NOT NULL,
		material VARCHAR(100) NOT NULL,
		color VARCHAR(100) NOT NULL,
		quantity INT NOT NULL,
		urgent TINYINT(1) NOT NULL DEFAULT 0,
		comments TEXT NULL,
		total_cents BIGINT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_quotes_reference (reference)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		order_number VARCHAR(20) NOT NULL,
		quote_id BIGINT UNSIGNED NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
		estimated_delivery DATE NOT NULL,
		tracking_token VARCHAR(64) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_orders_number (order_number),
		UNIQUE KEY uq_orders_token (tracking_token),
		UNIQUE KEY uq_orders_quote (quote_id),
		CONSTRAINT fk_orders_quote FOREIGN KEY (quote_id) REFERENCES quotes(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS status_history (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT UNSIGNED NOT NULL,
		status VARCHAR(20) NOT NULL,
		description TEXT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		KEY ix_history_order (order_id),
		CONSTRAINT fk_history_order FOREIGN KEY (order_id) REFERENCES orders(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS staff_users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_staff_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// seedMaterials is the default catalog inserted on first boot.  The
// per-gram rates double as the pricing table.
var seedMaterials = []struct {
	name   string
	cents  int64
	colors string
}{
	{"PLA", 1500, "White,Black,Red,Blue,Green,Yellow"},
	{"ABS", 2000, "Black,White,Gray"},
	{"PETG", 2500, "Transparent,Black,Blue"},
}

// EnsureSchema creates any missing tables and seeds the material
// catalog when it is empty.  It is safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	var count int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM materials`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		for _, m := range seedMaterials {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO materials (name, price_per_gram_cents, colors) VALUES (?, ?, ?)`,
				m.name, m.cents, m.colors); err != nil {
				return err
			}
		}
		log.Printf("database: seeded default material catalog (%d materials)", len(seedMaterials))
	}
	return nil
}
