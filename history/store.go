package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kionell/osu-standard-stable/difficulty"
	"github.com/kionell/osu-standard-stable/performance"
)

const initStatement = `
create table if not exists performance
  (
	id integer not null primary key,
	created_at integer not null,
	beatmap text not null,
	checksum text not null,
	mods integer not null,
	accuracy real not null,
	combo integer not null,
	great integer not null,
	ok integer not null,
	meh integer not null,
	miss integer not null,
	total real not null,
	aim real not null,
	speed real not null,
	accuracy_pp real not null,
	flashlight real not null,
	effective_miss_count real not null
  );
create index if not exists performance_checksum on performance (checksum);
`

const selectColumns = `select id, created_at, beatmap, checksum, mods, accuracy, combo,
	great, ok, meh, miss, total, aim, speed, accuracy_pp, flashlight, effective_miss_count
	from performance`

// Record is one stored performance calculation.
type Record struct {
	ID        int64
	CreatedAt time.Time

	Beatmap  string
	Checksum string

	Score   performance.Score
	Results performance.Results
}

// Store keeps computed performance values in a sqlite database.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if _, err = db.Exec(initStatement); err != nil {
		db.Close()
		return nil, fmt.Errorf("init %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Checksum identifies a chart by the contents of its .osu file.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Save inserts r and returns its id. A zero CreatedAt is replaced with the current time.
func (s *Store) Save(ctx context.Context, r Record) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`insert into performance(created_at, beatmap, checksum, mods, accuracy, combo,
			great, ok, meh, miss, total, aim, speed, accuracy_pp, flashlight, effective_miss_count)
			values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CreatedAt.UnixMilli(), r.Beatmap, r.Checksum, int64(r.Score.Mods), r.Score.Accuracy, r.Score.MaxCombo,
		r.Score.Statistics.Great, r.Score.Statistics.Ok, r.Score.Statistics.Meh, r.Score.Statistics.Miss,
		r.Results.Total, r.Results.Aim, r.Results.Speed, r.Results.Accuracy, r.Results.Flashlight,
		r.Results.EffectiveMissCount,
	)
	if err != nil {
		return 0, fmt.Errorf("save record: %w", err)
	}

	return res.LastInsertId()
}

// Recent returns the latest limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	return s.query(ctx, selectColumns+" order by created_at desc, id desc limit ?", limit)
}

// ForChecksum returns every record of a chart, best first.
func (s *Store) ForChecksum(ctx context.Context, checksum string) ([]Record, error) {
	return s.query(ctx, selectColumns+" where checksum = ? order by total desc", checksum)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r         Record
			createdAt int64
			mods      int64
		)

		err := rows.Scan(
			&r.ID, &createdAt, &r.Beatmap, &r.Checksum, &mods, &r.Score.Accuracy, &r.Score.MaxCombo,
			&r.Score.Statistics.Great, &r.Score.Statistics.Ok, &r.Score.Statistics.Meh, &r.Score.Statistics.Miss,
			&r.Results.Total, &r.Results.Aim, &r.Results.Speed, &r.Results.Accuracy, &r.Results.Flashlight,
			&r.Results.EffectiveMissCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		r.CreatedAt = time.UnixMilli(createdAt)
		r.Score.Mods = difficulty.Modifier(mods)

		records = append(records, r)
	}

	return records, rows.Err()
}
