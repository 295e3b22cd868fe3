package sqldb

import (
	"database/sql"
	"fmt"
	"time"

	"shipwatch/internal/model"
	"shipwatch/internal/repository"
)

// VideoRepository implements repository.VideoRepository.
type VideoRepository struct {
	db *DB
}

// NewVideoRepository creates a new video repository.
func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Insert adds a video record and fills in its ID and creation time.
func (r *VideoRepository) Insert(video *model.Video) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	if video.Status == 0 {
		video.Status = model.VideoProcessing
	}
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now().Truncate(time.Second)
	}

	result, err := r.db.Conn().Exec(`
		INSERT INTO videos (video_name, video_url, status, created_at)
		VALUES (?, ?, ?, ?)
	`, video.Name, video.URL, int(video.Status), video.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert video: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read video id: %w", err)
	}
	video.ID = id
	return id, nil
}

// GetByID retrieves a video by its ID. It returns nil when no row matches.
func (r *VideoRepository) GetByID(id int64) (*model.Video, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var video model.Video
	err := r.db.Conn().QueryRow(`
		SELECT id, video_name, video_url, status, created_at
		FROM videos WHERE id = ?
	`, id).Scan(&video.ID, &video.Name, &video.URL, &video.Status, &video.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &video, nil
}

// GetAll returns every video, newest first.
func (r *VideoRepository) GetAll() ([]model.Video, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, video_name, video_url, status, created_at
		FROM videos ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		var video model.Video
		if err := rows.Scan(&video.ID, &video.Name, &video.URL, &video.Status, &video.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

// GetIDs returns all video IDs in ascending order.
func (r *VideoRepository) GetIDs() ([]int64, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query("SELECT id FROM videos ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query video ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan video id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the number of stored videos.
func (r *VideoRepository) Count() (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	if err := r.db.Conn().QueryRow("SELECT COUNT(*) FROM videos").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return count, nil
}

// UpdateStatus sets the processing status of a video.
// A missing video is not an error: it may have been deleted while processing.
func (r *VideoRepository) UpdateStatus(id int64, status model.VideoStatus) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec("UPDATE videos SET status = ? WHERE id = ?", int(status), id); err != nil {
		return fmt.Errorf("failed to update video status: %w", err)
	}
	return nil
}

// Delete removes a video record. Results recorded for it are kept.
func (r *VideoRepository) Delete(id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec("DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
