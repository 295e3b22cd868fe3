package handler

import (
	"net/http"
	"strconv"
	"strings"

	"shipwatch/internal/dto"
	"shipwatch/internal/logger"
	"shipwatch/internal/model"
	"shipwatch/internal/repository"
)

// filterBuilder reads the query parameters of one result endpoint into a filter.
type filterBuilder func(r *http.Request, filter *model.ResultFilter) (status int, detail string)

func resultsHandler(results repository.ResultRepository, logger *logger.Logger, build filterBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryLimit(r)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		filter := &model.ResultFilter{Limit: limit}
		if status, detail := build(r, filter); status != 0 {
			respondError(w, status, detail)
			return
		}

		found, err := results.GetAll(filter)
		if err != nil {
			logger.Error("Failed to query results: %v", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, dto.NewResultResponses(found))
	}
}

// GetResultsByVideoIDHandler handles GET /api/result/get_results_by_video_id?video_id=&limit=.
func GetResultsByVideoIDHandler(results repository.ResultRepository, logger *logger.Logger) http.HandlerFunc {
	return resultsHandler(results, logger, func(r *http.Request, filter *model.ResultFilter) (int, string) {
		id, err := strconv.ParseInt(r.URL.Query().Get("video_id"), 10, 64)
		if err != nil || id < 1 {
			return http.StatusUnprocessableEntity, "video_id must be a positive integer"
		}
		filter.VideoID = id
		return 0, ""
	})
}

// GetResultsByShipIDHandler handles GET /api/result/get_results_by_ship_id?ship_id=&limit=.
func GetResultsByShipIDHandler(results repository.ResultRepository, logger *logger.Logger) http.HandlerFunc {
	return resultsHandler(results, logger, func(r *http.Request, filter *model.ResultFilter) (int, string) {
		shipID := strings.TrimSpace(r.URL.Query().Get("ship_id"))
		if shipID == "" {
			return http.StatusUnprocessableEntity, "ship_id is required"
		}
		filter.ShipID = shipID
		return 0, ""
	})
}

// GetResultsByCategoryHandler handles GET /api/result/get_results_by_category?category=&limit=.
func GetResultsByCategoryHandler(results repository.ResultRepository, logger *logger.Logger) http.HandlerFunc {
	return resultsHandler(results, logger, func(r *http.Request, filter *model.ResultFilter) (int, string) {
		category, err := strconv.Atoi(r.URL.Query().Get("category"))
		if err != nil || !model.ValidCategory(category) {
			return http.StatusUnprocessableEntity, "category must be an integer between 1 and 6"
		}
		filter.Category = category
		return 0, ""
	})
}

// GetAllResultsHandler handles GET /api/result/get_all_results?limit=.
func GetAllResultsHandler(results repository.ResultRepository, logger *logger.Logger) http.HandlerFunc {
	return resultsHandler(results, logger, func(*http.Request, *model.ResultFilter) (int, string) {
		return 0, ""
	})
}

// ResultStatsHandler handles GET /api/result/stats.
func ResultStatsHandler(results repository.ResultRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := results.GetStats()
		if err != nil {
			logger.Error("Failed to compute result stats: %v", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}
