package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Video is one scanned library entry with its probed metadata. Identity
// is the sanitized capture namespace and unique per library.
type Video struct {
	ID       string
	Identity string
	Filename string
	Duration float64
	Width    int
	Height   int
	AddedAt  time.Time
}

func NewVideo(identity, filename string, duration float64, width, height int) *Video {
	return &Video{
		ID:       uuid.New().String(),
		Identity: identity,
		Filename: filename,
		Duration: duration,
		Width:    width,
		Height:   height,
		AddedAt:  time.Now(),
	}
}

type VideoRepository struct {
	db *DB
}

func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Upsert inserts or refreshes a video keyed by identity, keeping the
// original id and added_at when the row already exists.
func (r *VideoRepository) Upsert(video *Video) error {
	query := `
		INSERT INTO videos (id, identity, filename, duration, width, height, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET
			filename = excluded.filename,
			duration = excluded.duration,
			width = excluded.width,
			height = excluded.height`

	_, err := r.db.conn.Exec(query,
		video.ID, video.Identity, video.Filename,
		video.Duration, video.Width, video.Height, video.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert video: %w", err)
	}
	return nil
}

func (r *VideoRepository) GetByIdentity(identity string) (*Video, error) {
	row := r.db.conn.QueryRow(`
		SELECT id, identity, filename, duration, width, height, added_at
		FROM videos WHERE identity = ?`, identity)

	video, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("video not found: %s", identity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

func (r *VideoRepository) List() ([]Video, error) {
	rows, err := r.db.conn.Query(`
		SELECT id, identity, filename, duration, width, height, added_at
		FROM videos ORDER BY filename ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *video)
	}
	return videos, rows.Err()
}

// Clear drops every row; called when the user picks a new library
// directory, since identities are only unique within one library.
func (r *VideoRepository) Clear() error {
	if _, err := r.db.conn.Exec(`DELETE FROM videos`); err != nil {
		return fmt.Errorf("failed to clear videos: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*Video, error) {
	var v Video
	err := row.Scan(&v.ID, &v.Identity, &v.Filename, &v.Duration, &v.Width, &v.Height, &v.AddedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
