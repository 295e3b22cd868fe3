package sqldb

import (
	"errors"
	"fmt"
	"math/rand"

	"shipwatch/internal/model"
	"shipwatch/internal/repository"
)

var demoVideos = []model.Video{
	{Name: "视频1", URL: "http://example.com/video1.mp4", Status: model.VideoProcessing},
	{Name: "视频2", URL: "http://example.com/video2.m3u8", Status: model.VideoCompleted},
	{Name: "视频3", URL: "http://example.com/video3.mp4", Status: model.VideoFailed},
}

// Seed fills empty tables with demo videos and two TEST-nnnnn ship profiles.
// Tables that already hold rows are left untouched.
func Seed(videos repository.VideoRepository, profiles repository.ShipProfileRepository) (int, error) {
	inserted := 0

	count, err := videos.Count()
	if err != nil {
		return inserted, err
	}
	if count == 0 {
		for _, demo := range demoVideos {
			video := demo
			if _, err := videos.Insert(&video); err != nil {
				return inserted, fmt.Errorf("failed to seed video %s: %w", video.Name, err)
			}
			inserted++
		}
	}

	count, err = profiles.Count()
	if err != nil {
		return inserted, err
	}
	for added := 0; count == 0 && added < 2; {
		categoryID := rand.Intn(len(model.Categories)) + 1
		profile := &model.ShipProfile{
			CategoryID:   categoryID,
			CategoryName: model.CategoryName(categoryID),
			ShipID:       fmt.Sprintf("TEST-%d", 10000+rand.Intn(90000)),
		}
		if _, err := profiles.Insert(profile); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return inserted, fmt.Errorf("failed to seed ship profile: %w", err)
		}
		added++
		inserted++
	}

	return inserted, nil
}
