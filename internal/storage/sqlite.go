// Package storage provides SQLite-based persistence for scores and finished
// game sessions. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/dropmerge/internal/sessionlog"
)

// timeFormat is how timestamps are written to DATETIME columns.
const timeFormat = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// Session is one finished game with its final board.
type Session struct {
	ID          string // UUID, assigned by SaveSession when empty
	GameID      string
	Mode        string
	FinalScore  int
	HighScore   int
	HighestTile int
	Moves       int
	FinalGrid   string // Nested list text, row 0 first
	CreatedAt   time.Time
}

// NewSession converts a session log record.
func NewSession(gameID, mode string, moves int, rec sessionlog.Record) Session {
	return Session{
		GameID:      gameID,
		Mode:        mode,
		FinalScore:  rec.FinalScore,
		HighScore:   rec.HighScore,
		HighestTile: rec.HighestTile,
		Moves:       moves,
		FinalGrid:   sessionlog.FormatGrid(rec.Grid),
		CreatedAt:   rec.Timestamp,
	}
}

// Record converts the session back into a session log record.
func (s Session) Record() (sessionlog.Record, error) {
	grid, err := sessionlog.ParseGrid(s.FinalGrid)
	if err != nil {
		return sessionlog.Record{}, fmt.Errorf("session %s: %w", s.ID, err)
	}
	return sessionlog.Record{
		Timestamp:   s.CreatedAt,
		FinalScore:  s.FinalScore,
		HighScore:   s.HighScore,
		HighestTile: s.HighestTile,
		Grid:        grid,
	}, nil
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			final_score INTEGER NOT NULL,
			high_score INTEGER NOT NULL,
			highest_tile INTEGER NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			final_grid TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_game_id ON sessions(game_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime reads a DATETIME value, which the driver may return as either
// time.Time or text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeFormat, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores and sessions for the given game.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM sessions WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// SaveSession records a finished game and returns its ID. A zero CreatedAt
// is stamped with the current time.
func (s *Store) SaveSession(sess Session) (string, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}

	if err := insertSession(s.db, sess, sess.CreatedAt.UTC().Format(timeFormat)); err != nil {
		return "", err
	}
	return sess.ID, nil
}

// SaveGame stores a finished game's score and session in one transaction
// and returns the session ID.
func (s *Store) SaveGame(sess Session) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	created := sess.CreatedAt.UTC().Format(timeFormat)

	if _, err := tx.Exec(
		"INSERT INTO scores (game_id, score, created_at) VALUES (?, ?, ?)",
		sess.GameID, sess.FinalScore, created,
	); err != nil {
		return "", fmt.Errorf("storage: cannot save score: %w", err)
	}
	if err := insertSession(tx, sess, created); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit game: %w", err)
	}
	return sess.ID, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertSession(db execer, sess Session, created string) error {
	_, err := db.Exec(
		`INSERT INTO sessions
		 (id, game_id, mode, final_score, high_score, highest_tile, moves, final_grid, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.GameID,
		sess.Mode,
		sess.FinalScore,
		sess.HighScore,
		sess.HighestTile,
		sess.Moves,
		sess.FinalGrid,
		created,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save session: %w", err)
	}
	return nil
}

// Sessions returns the most recent sessions for gameID, oldest first.
// An empty gameID selects every game; limit <= 0 means no limit.
func (s *Store) Sessions(gameID string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, mode, final_score, high_score, highest_tile, moves, final_grid, created_at
		 FROM (
			SELECT *, rowid AS seq FROM sessions
			WHERE ? = '' OR game_id = ?
			ORDER BY created_at DESC, seq DESC
			LIMIT ?
		 )
		 ORDER BY created_at ASC, seq ASC`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	return scanSessions(rows)
}

// TopSessions returns the best sessions for gameID by final score.
func (s *Store) TopSessions(gameID string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, mode, final_score, high_score, highest_tile, moves, final_grid, created_at
		 FROM sessions
		 WHERE game_id = ?
		 ORDER BY final_score DESC, created_at ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		var createdAt any
		if err := rows.Scan(
			&sess.ID,
			&sess.GameID,
			&sess.Mode,
			&sess.FinalScore,
			&sess.HighScore,
			&sess.HighestTile,
			&sess.Moves,
			&sess.FinalGrid,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.CreatedAt = parseTime(createdAt)
		out = append(out, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// SessionByID retrieves a session, or nil if it does not exist.
func (s *Store) SessionByID(id string) (*Session, error) {
	var sess Session
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, game_id, mode, final_score, high_score, highest_tile, moves, final_grid, created_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(
		&sess.ID,
		&sess.GameID,
		&sess.Mode,
		&sess.FinalScore,
		&sess.HighScore,
		&sess.HighestTile,
		&sess.Moves,
		&sess.FinalGrid,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	sess.CreatedAt = parseTime(createdAt)
	return &sess, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	BestTile   int // Highest tile over recorded sessions
	LastPlayed time.Time
}

// GameStats retrieves aggregated statistics for a specific game.
func (s *Store) GameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COALESCE(MAX(highest_tile), 0) FROM sessions WHERE game_id = ?`,
		gameID,
	).Scan(&stats.BestTile)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get best tile: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// AllGameStats retrieves statistics for every game that has been played.
func (s *Store) AllGameStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT sc.game_id, COUNT(*), MAX(sc.score), AVG(sc.score), SUM(sc.score), MAX(sc.created_at),
		        COALESCE((SELECT MAX(highest_tile) FROM sessions se WHERE se.game_id = sc.game_id), 0)
		 FROM scores sc
		 GROUP BY sc.game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var st GameStats
		var lastPlayed any
		if err := rows.Scan(&st.GameID, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalScore, &lastPlayed, &st.BestTile); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.GameID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
