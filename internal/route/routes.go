package route

import (
	"net/http"

	"shipwatch/internal/auth"
	"shipwatch/internal/config"
	"shipwatch/internal/handler"
	"shipwatch/internal/logger"
	"shipwatch/internal/middleware"
	"shipwatch/internal/repository"
	"shipwatch/internal/service/ai"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Config *config.Config
	Logger *logger.Logger
	Auth   *auth.Service

	Videos   repository.VideoRepository
	Results  repository.ResultRepository
	Profiles repository.ShipProfileRepository

	Jobs       handler.JobSubmitter
	Hub        handler.ViewerHub
	Images     handler.ImageAnalyzer
	Streamer   handler.VideoStreamer
	Detector   ai.Detector
	Recognizer ai.Recognizer
}

// SetupRoutes registers the API endpoints and wraps the mux with CORS and
// request logging. With AUTH_REQUIRED the video, result and ship id
// endpoints need a bearer token.
func SetupRoutes(d Dependencies) http.Handler {
	mux := http.NewServeMux()
	cfg, log := d.Config, d.Logger
	maxUpload := cfg.MaxUploadMB << 20

	authenticated := middleware.AuthMiddleware(d.Auth)
	protect := func(h http.HandlerFunc) http.Handler {
		if cfg.AuthRequired {
			return authenticated(h)
		}
		return h
	}

	mux.HandleFunc("GET /{$}", handler.RootHandler())
	mux.HandleFunc("GET /api/v1/health", handler.HealthHandler())

	// Auth
	mux.HandleFunc("POST /api/v1/auth/token", handler.TokenHandler(d.Auth, log))
	mux.Handle("GET /api/v1/auth/users/me", authenticated(handler.CurrentUserHandler()))
	mux.Handle("GET /api/v1/auth/admin-only", middleware.Chain(handler.AdminOnlyHandler(),
		authenticated, middleware.RequirePermission("admin")))

	// Video
	mux.Handle("POST /api/video/add_video", protect(handler.AddVideoHandler(d.Videos, d.Jobs, log)))
	mux.Handle("POST /api/video/upload_video", protect(handler.UploadVideoHandler(d.Videos, d.Jobs, cfg.VideoDirectory(), maxUpload, log)))
	mux.Handle("DELETE /api/video/delete_video/{video_id}", protect(handler.DeleteVideoHandler(d.Videos, log)))
	mux.Handle("GET /api/video/get_all_videos", protect(handler.GetAllVideosHandler(d.Videos, log)))
	mux.Handle("GET /api/video/get_video_ids", protect(handler.GetVideoIDsHandler(d.Videos, log)))
	mux.HandleFunc("GET /api/video/progress", handler.ProgressWebsocketHandler(d.Hub, log))

	// Results
	mux.Handle("GET /api/result/get_results_by_video_id", protect(handler.GetResultsByVideoIDHandler(d.Results, log)))
	mux.Handle("GET /api/result/get_results_by_ship_id", protect(handler.GetResultsByShipIDHandler(d.Results, log)))
	mux.Handle("GET /api/result/get_results_by_category", protect(handler.GetResultsByCategoryHandler(d.Results, log)))
	mux.Handle("GET /api/result/get_all_results", protect(handler.GetAllResultsHandler(d.Results, log)))
	mux.Handle("GET /api/result/stats", protect(handler.ResultStatsHandler(d.Results, log)))

	// Ship profiles
	mux.Handle("GET /api/ship_id/ship_profiles", protect(handler.ListShipProfilesHandler(d.Profiles, log)))
	mux.Handle("POST /api/ship_id/ship_profiles", protect(handler.CreateShipProfileHandler(d.Profiles, log)))
	mux.Handle("PUT /api/ship_id/ship_profiles/{id}", protect(handler.UpdateShipProfileHandler(d.Profiles, log)))
	mux.Handle("DELETE /api/ship_id/ship_profiles/{id}", protect(handler.DeleteShipProfileHandler(d.Profiles, log)))
	mux.Handle("GET /api/ship_id/ship_profiles/search", protect(handler.SearchShipProfilesHandler(d.Profiles, log)))
	mux.Handle("GET /api/ship_id/categories", protect(handler.CategoriesHandler()))

	// Samples, mounted twice like the dashboard expects
	for _, prefix := range []string{"/api/sample", "/api/picture"} {
		mux.HandleFunc("POST "+prefix+"/test_image", handler.TestImageHandler(d.Images, maxUpload, log))
		mux.HandleFunc("POST "+prefix+"/test_video", handler.TestVideoHandler(d.Streamer, maxUpload, log))
	}

	// Models
	mux.HandleFunc("POST /api/v1/predict/yolov8/image", handler.PredictImageHandler(d.Detector, maxUpload, log))
	mux.HandleFunc("POST /api/v1/predict/yolov8/data", handler.PredictDataHandler(d.Detector, maxUpload, log))
	mux.HandleFunc("POST /api/ppocr/recognize_text_from_image", handler.RecognizeTextHandler(d.Recognizer, maxUpload, log))
	mux.HandleFunc("POST /api/ppocr/detect_text_regions_from_image", handler.DetectTextRegionsHandler(d.Recognizer, maxUpload, log))

	// Log endpoints
	mux.HandleFunc("GET /logs/{level}", handler.ShowLogsHandler(log))
	mux.HandleFunc("POST /logs/{level}/clear", handler.ClearLogsHandler(log))

	// Crops kept by the local image host
	if cfg.ImageHost == "local" {
		mux.Handle("GET /hosted/", http.StripPrefix("/hosted/", http.FileServer(http.Dir(cfg.HostedDirectory()))))
	}

	return middleware.Chain(mux, middleware.CORS, middleware.Logging(log))
}
