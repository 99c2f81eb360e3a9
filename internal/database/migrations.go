package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice. Statements must run
// unchanged on both SQLite and PostgreSQL; timestamps are stored as fixed-width
// UTC text so they compare lexically.
var migrations = [][]string{
	// Migration 1: case-management tables
	{
		`CREATE TABLE practice_areas (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE law_firms (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			address TEXT,
			city TEXT,
			state TEXT,
			zip_code TEXT,
			phone_number TEXT,
			email TEXT,
			website TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('lawyer', 'paralegal', 'client', 'admin')),
			phone_number TEXT,
			slack_id TEXT,
			password_hash TEXT NOT NULL,
			avatar_url TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE cases (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL CHECK (status IN ('open', 'pending', 'closed', 'archived')),
			practice_area_id TEXT NOT NULL REFERENCES practice_areas(id),
			firm_id TEXT NOT NULL REFERENCES law_firms(id),
			assigned_to TEXT NOT NULL REFERENCES users(id),
			created_by TEXT REFERENCES users(id),
			case_number TEXT NOT NULL UNIQUE,
			priority TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
			open_date TEXT,
			estimated_completion_date TEXT,
			billing_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_cases_status_created ON cases(status, created_at)`,

		`CREATE TABLE case_participants (
			id TEXT PRIMARY KEY,
			case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (case_id, user_id)
		)`,

		`CREATE TABLE messages (
			id TEXT PRIMARY KEY,
			case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			sender_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recipient_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			message_type TEXT NOT NULL CHECK (message_type IN ('text', 'file', 'system', 'notification')),
			content TEXT NOT NULL,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			CHECK (sender_id <> recipient_id)
		)`,
		`CREATE INDEX idx_messages_case ON messages(case_id)`,

		`CREATE TABLE notes (
			id TEXT PRIMARY KEY,
			case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			sentiment TEXT,
			confidence_scores TEXT,
			key_phrases TEXT,
			entities TEXT,
			is_private BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_notes_case ON notes(case_id)`,

		`CREATE TABLE calendar_events (
			id TEXT PRIMARY KEY,
			case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			location TEXT,
			type TEXT NOT NULL CHECK (type IN ('meeting', 'court_date', 'deadline', 'reminder')),
			is_virtual BOOLEAN NOT NULL DEFAULT FALSE,
			outlook_id TEXT,
			google_calendar_id TEXT,
			zoom_id TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			CHECK (end_time > start_time)
		)`,
		`CREATE INDEX idx_calendar_events_case ON calendar_events(case_id)`,
	},
}
