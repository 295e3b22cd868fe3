package repository

import (
	"errors"

	"shipwatch/internal/model"
)

var (
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned by updates and deletes that match no row.
	ErrNotFound = errors.New("record not found")
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// VideoRepository defines the interface for video data operations.
type VideoRepository interface {
	// Create operations
	Insert(video *model.Video) (int64, error)

	// Read operations
	GetByID(id int64) (*model.Video, error)
	GetAll() ([]model.Video, error)
	GetIDs() ([]int64, error)
	Count() (int, error)

	// Update operations
	UpdateStatus(id int64, status model.VideoStatus) error

	// Delete operations
	Delete(id int64) error
}

// ResultRepository defines the interface for detection result operations.
type ResultRepository interface {
	// Create operations
	Insert(result *model.Result) (int64, error)

	// Read operations
	GetAll(filter *model.ResultFilter) ([]model.Result, error)
	GetStats() (*model.ResultStats, error)
}

// ShipProfileRepository defines the interface for ship profile operations.
type ShipProfileRepository interface {
	// Create operations
	Insert(profile *model.ShipProfile) (int64, error)

	// Read operations
	GetByID(id int64) (*model.ShipProfile, error)
	GetAll() ([]model.ShipProfile, error)
	Count() (int, error)

	// Update operations
	Update(profile *model.ShipProfile) error

	// Delete operations
	Delete(id int64) error
}

// NormalizeLimit applies the default and caps the value at MaxLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
