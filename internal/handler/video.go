package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shipwatch/internal/dto"
	"shipwatch/internal/logger"
	"shipwatch/internal/model"
	"shipwatch/internal/repository"
)

// JobSubmitter starts background processing of a stored video.
type JobSubmitter interface {
	Submit(video model.Video) error
}

// AddVideoHandler handles POST /api/video/add_video: stores the video and starts processing it.
func AddVideoHandler(videos repository.VideoRepository, jobs JobSubmitter, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.AddVideoRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if strings.TrimSpace(req.VideoName) == "" || strings.TrimSpace(req.VideoURL) == "" {
			respondError(w, http.StatusUnprocessableEntity, "video_name and video_url are required")
			return
		}

		video := model.Video{Name: req.VideoName, URL: req.VideoURL}
		if !submitVideo(w, videos, jobs, logger, &video) {
			return
		}
		respondJSON(w, http.StatusOK, dto.NewVideoResponse(video))
	}
}

// UploadVideoHandler handles POST /api/video/upload_video (multipart "file" and "video_name").
// The file is kept under videoDir as <video_name>_<YYYYmmdd_HHMMSS>.mp4.
func UploadVideoHandler(videos repository.VideoRepository, jobs JobSubmitter, videoDir string, maxBytes int64, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseUpload(w, r, maxBytes) {
			return
		}

		name := strings.TrimSpace(r.FormValue("video_name"))
		if name == "" {
			respondError(w, http.StatusUnprocessableEntity, "video_name is required")
			return
		}

		dir, err := filepath.Abs(videoDir)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("Failed to create video directory: %v", err)
			respondError(w, http.StatusInternalServerError, "cannot store video")
			return
		}

		fileName := fmt.Sprintf("%s_%s.mp4", filepath.Base(name), time.Now().Format("20060102_150405"))
		savePath := filepath.Join(dir, fileName)

		out, err := os.Create(savePath)
		if err != nil {
			logger.Error("Failed to create %s: %v", savePath, err)
			respondError(w, http.StatusInternalServerError, "cannot store video")
			return
		}
		err = saveFormFile(r, "file", out)
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(savePath)
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Info("📥 Saved uploaded video %s", savePath)

		video := model.Video{Name: name, URL: savePath}
		if !submitVideo(w, videos, jobs, logger, &video) {
			return
		}
		respondJSON(w, http.StatusOK, dto.NewVideoResponse(video))
	}
}

func submitVideo(w http.ResponseWriter, videos repository.VideoRepository, jobs JobSubmitter, logger *logger.Logger, video *model.Video) bool {
	if _, err := videos.Insert(video); err != nil {
		logger.Error("Failed to insert video: %v", err)
		respondError(w, http.StatusInternalServerError, "cannot store video")
		return false
	}
	if err := jobs.Submit(*video); err != nil {
		logger.Error("Failed to start video %d: %v", video.ID, err)
		if updateErr := videos.UpdateStatus(video.ID, model.VideoFailed); updateErr != nil {
			logger.Error("Failed to set status of video %d: %v", video.ID, updateErr)
		}
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return false
	}
	logger.Info("🎬 Started processing video %d (%s)", video.ID, video.URL)
	return true
}

// DeleteVideoHandler handles DELETE /api/video/delete_video/{video_id}.
func DeleteVideoHandler(videos repository.VideoRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "video_id")
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := videos.Delete(id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				respondError(w, http.StatusNotFound, fmt.Sprintf("Video with ID %d not found.", id))
				return
			}
			logger.Error("Failed to delete video %d: %v", id, err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, dto.MessageResponse{
			Message: fmt.Sprintf("Video with ID %d has been deleted successfully.", id),
		})
	}
}

// GetAllVideosHandler handles GET /api/video/get_all_videos.
func GetAllVideosHandler(videos repository.VideoRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := videos.GetAll()
		if err != nil {
			logger.Error("Failed to list videos: %v", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		response := make([]dto.VideoResponse, 0, len(all))
		for _, v := range all {
			response = append(response, dto.NewVideoResponse(v))
		}
		respondJSON(w, http.StatusOK, response)
	}
}

// GetVideoIDsHandler handles GET /api/video/get_video_ids.
func GetVideoIDsHandler(videos repository.VideoRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := videos.GetIDs()
		if err != nil {
			logger.Error("Failed to list video ids: %v", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if ids == nil {
			ids = []int64{}
		}
		respondJSON(w, http.StatusOK, ids)
	}
}
