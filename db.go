package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"try-scout/tryplot"
)

var ErrArchiveNotFound = errors.New("archive not found")

// Fixed width so stored timestamps sort lexically.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Archive is a saved copy of one session's tries.
type Archive struct {
	ID        int64     `json:"id"`
	MatchID   string    `json:"match_id"`
	Label     string    `json:"label"`
	Tries     int       `json:"tries"`
	CreatedAt time.Time `json:"created_at"`
}

// ArchiveStore keeps saved sessions in SQLite. Live sessions never touch it;
// tries are only written when the analyst saves.
type ArchiveStore struct {
	db *sql.DB
}

func OpenArchiveStore(ctx context.Context, path string) (*ArchiveStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite allows one writer; a single connection also keeps :memory:
	// databases from splitting per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	a := &ArchiveStore{db: db}
	if err := a.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *ArchiveStore) Close() error {
	return a.db.Close()
}

func (a *ArchiveStore) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`
    CREATE TABLE IF NOT EXISTS try_archives (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        match_id TEXT NOT NULL,
        label TEXT NOT NULL DEFAULT '',
        created_at TEXT NOT NULL
    );`,
		`CREATE INDEX IF NOT EXISTS try_archives_match ON try_archives (match_id);`,
		`
    CREATE TABLE IF NOT EXISTS archived_tries (
        archive_id INTEGER NOT NULL REFERENCES try_archives(id) ON DELETE CASCADE,
        position INTEGER NOT NULL,
        try_id TEXT NOT NULL,

        x REAL NOT NULL,
        y REAL NOT NULL,
        try_type TEXT NOT NULL,
        team TEXT NOT NULL,
        zone TEXT NOT NULL,

        quarter INTEGER NOT NULL,
        phase TEXT NOT NULL,

        created_at TEXT NOT NULL,
        PRIMARY KEY (archive_id, position)
    );`,
	}
	for _, stmt := range stmts {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate archive schema: %w", err)
		}
	}
	return nil
}

// Save writes tries, in order, as a new archive for matchID.
func (a *ArchiveStore) Save(ctx context.Context, matchID, label string, tries []tryplot.TryEvent, now time.Time) (Archive, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Archive{}, fmt.Errorf("begin archive tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now = now.UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO try_archives (match_id, label, created_at) VALUES (?, ?, ?)`,
		matchID, label, now.Format(storedTimeLayout))
	if err != nil {
		return Archive{}, fmt.Errorf("insert archive: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Archive{}, fmt.Errorf("archive id: %w", err)
	}

	for i, ev := range tries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO archived_tries (archive_id, position, try_id, x, y, try_type, team, zone, quarter, phase, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, ev.ID, ev.X, ev.Y, string(ev.Type), string(ev.Team), string(ev.Zone), ev.Quarter, string(ev.Phase),
			ev.CreatedAt.UTC().Format(storedTimeLayout))
		if err != nil {
			return Archive{}, fmt.Errorf("insert try %s: %w", ev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Archive{}, fmt.Errorf("commit archive: %w", err)
	}
	return Archive{ID: id, MatchID: matchID, Label: label, Tries: len(tries), CreatedAt: now}, nil
}

// List returns archives newest first; an empty matchID lists every match.
func (a *ArchiveStore) List(ctx context.Context, matchID string) ([]Archive, error) {
	query := `
		SELECT a.id, a.match_id, a.label, a.created_at, COUNT(t.position)
		FROM try_archives a
		LEFT JOIN archived_tries t ON t.archive_id = a.id
		WHERE (? = '' OR a.match_id = ?)
		GROUP BY a.id
		ORDER BY a.created_at DESC, a.id DESC`
	rows, err := a.db.QueryContext(ctx, query, matchID, matchID)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	var out []Archive
	for rows.Next() {
		var (
			ar      Archive
			created string
		)
		if err := rows.Scan(&ar.ID, &ar.MatchID, &ar.Label, &created, &ar.Tries); err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		if ar.CreatedAt, err = time.Parse(storedTimeLayout, created); err != nil {
			return nil, fmt.Errorf("archive %d created_at: %w", ar.ID, err)
		}
		out = append(out, ar)
	}
	return out, rows.Err()
}

// Load returns an archive and its tries in saved order.
func (a *ArchiveStore) Load(ctx context.Context, id int64) (Archive, []tryplot.TryEvent, error) {
	var (
		ar      Archive
		created string
	)
	err := a.db.QueryRowContext(ctx,
		`SELECT id, match_id, label, created_at FROM try_archives WHERE id = ?`, id,
	).Scan(&ar.ID, &ar.MatchID, &ar.Label, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Archive{}, nil, ErrArchiveNotFound
	}
	if err != nil {
		return Archive{}, nil, fmt.Errorf("load archive %d: %w", id, err)
	}
	if ar.CreatedAt, err = time.Parse(storedTimeLayout, created); err != nil {
		return Archive{}, nil, fmt.Errorf("archive %d created_at: %w", id, err)
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT try_id, x, y, try_type, team, zone, quarter, phase, created_at
		FROM archived_tries WHERE archive_id = ? ORDER BY position`, id)
	if err != nil {
		return Archive{}, nil, fmt.Errorf("load tries for archive %d: %w", id, err)
	}
	defer rows.Close()

	tries := []tryplot.TryEvent{}
	for rows.Next() {
		var (
			ev                     tryplot.TryEvent
			typ, team, zone, phase string
			evCreated              string
		)
		if err := rows.Scan(&ev.ID, &ev.X, &ev.Y, &typ, &team, &zone, &ev.Quarter, &phase, &evCreated); err != nil {
			return Archive{}, nil, fmt.Errorf("scan try: %w", err)
		}
		ev.Type = tryplot.TryType(typ)
		ev.Team = tryplot.Team(team)
		ev.Zone = tryplot.Zone(zone)
		ev.Phase = tryplot.Phase(phase)
		if ev.CreatedAt, err = time.Parse(storedTimeLayout, evCreated); err != nil {
			return Archive{}, nil, fmt.Errorf("try %s created_at: %w", ev.ID, err)
		}
		tries = append(tries, ev)
	}
	if err := rows.Err(); err != nil {
		return Archive{}, nil, err
	}
	ar.Tries = len(tries)
	return ar, tries, nil
}
