package sqldb

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"shipwatch/internal/model"
	"shipwatch/internal/repository"
)

// ResultRepository implements repository.ResultRepository.
type ResultRepository struct {
	db  *DB
	now func() time.Time
}

// NewResultRepository creates a new result repository.
func NewResultRepository(db *DB) *ResultRepository {
	return &ResultRepository{db: db, now: time.Now}
}

// FrameID derives the short frame identifier stored with each result.
func FrameID(regionURL string, at time.Time) string {
	seconds := float64(at.UnixNano()) / float64(time.Second)
	sum := sha256.Sum256([]byte(regionURL + "_" + strconv.FormatFloat(seconds, 'f', -1, 64)))
	return "fid_" + hex.EncodeToString(sum[:])[:12]
}

// Insert stores one detection result. FrameID and CreatedAt are generated when empty.
func (r *ResultRepository) Insert(res *model.Result) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	now := r.now()
	if res.FrameID == "" {
		res.FrameID = FrameID(res.RegionURL, now)
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now.Truncate(time.Second)
	}

	result, err := r.db.Conn().Exec(`
		INSERT INTO results (video_id, frame_id, category, ship_id, bbox, ship_bbox, region_url, timestamp, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, res.VideoID, res.FrameID, res.Category, res.ShipID, res.BBox, res.ShipBBox, res.RegionURL, res.Timestamp, res.Confidence, res.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert result: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read result id: %w", err)
	}
	res.ID = id
	return id, nil
}

// GetAll retrieves results matching the filter, newest first.
func (r *ResultRepository) GetAll(filter *model.ResultFilter) ([]model.Result, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if filter == nil {
		filter = &model.ResultFilter{}
	}

	query := `
		SELECT id, video_id, frame_id, category, ship_id, bbox, ship_bbox, region_url, timestamp, confidence, created_at
		FROM results
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.VideoID > 0 {
		query += " AND video_id = ?"
		args = append(args, filter.VideoID)
	}

	if filter.ShipID != "" {
		query += " AND ship_id = ?"
		args = append(args, filter.ShipID)
	}

	if filter.Category > 0 {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}

	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, repository.NormalizeLimit(filter.Limit))

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := []model.Result{}
	for rows.Next() {
		var res model.Result
		if err := rows.Scan(&res.ID, &res.VideoID, &res.FrameID, &res.Category, &res.ShipID, &res.BBox,
			&res.ShipBBox, &res.RegionURL, &res.Timestamp, &res.Confidence, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// GetStats returns result totals per category and per video.
func (r *ResultRepository) GetStats() (*model.ResultStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &model.ResultStats{
		PerCategory: make(map[int]int),
		PerVideo:    make(map[int64]int),
	}

	if err := r.db.Conn().QueryRow("SELECT COUNT(*), COUNT(DISTINCT video_id) FROM results").
		Scan(&stats.TotalResults, &stats.TotalVideos); err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}

	rows, err := r.db.Conn().Query("SELECT category, COUNT(*) FROM results GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to query category stats: %w", err)
	}
	for rows.Next() {
		var category, count int
		if err := rows.Scan(&category, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan category stats: %w", err)
		}
		stats.PerCategory[category] = count
	}
	rows.Close()

	rows, err = r.db.Conn().Query("SELECT video_id, COUNT(*) FROM results GROUP BY video_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query video stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var videoID int64
		var count int
		if err := rows.Scan(&videoID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan video stats: %w", err)
		}
		stats.PerVideo[videoID] = count
	}

	return stats, rows.Err()
}
