package sqlconnect

import "database/sql"

// Schema statements run at startup so a fresh database is usable without a
// separate migration step. Order matters: referenced tables come first.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	"CREATE TABLE IF NOT EXISTS `groups` (" + `
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		created_by INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (created_by) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		id INT AUTO_INCREMENT PRIMARY KEY,
		group_id INT NOT NULL,
		user_id INT NOT NULL,
		joined_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_group_user (group_id, user_id),
		FOREIGN KEY (group_id) REFERENCES ` + "`groups`" + `(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id INT AUTO_INCREMENT PRIMARY KEY,
		description VARCHAR(255) NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		paid_by INT NOT NULL,
		group_id INT NOT NULL,
		split_type ENUM('equal','custom') NOT NULL DEFAULT 'equal',
		expense_date DATE NOT NULL,
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (paid_by) REFERENCES users(id),
		FOREIGN KEY (group_id) REFERENCES ` + "`groups`" + `(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS expense_splits (
		id INT AUTO_INCREMENT PRIMARY KEY,
		expense_id INT NOT NULL,
		user_id INT NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS settlements (
		id INT AUTO_INCREMENT PRIMARY KEY,
		from_user INT NOT NULL,
		to_user INT NOT NULL,
		group_id INT NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (from_user) REFERENCES users(id),
		FOREIGN KEY (to_user) REFERENCES users(id),
		FOREIGN KEY (group_id) REFERENCES ` + "`groups`" + `(id) ON DELETE CASCADE
	)`,
}

func createTables(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
