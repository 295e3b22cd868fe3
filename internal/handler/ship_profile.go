package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"shipwatch/internal/dto"
	"shipwatch/internal/logger"
	"shipwatch/internal/model"
	"shipwatch/internal/repository"
	"shipwatch/internal/service/similarity"
)

// ListShipProfilesHandler handles GET /api/ship_id/ship_profiles.
func ListShipProfilesHandler(profiles repository.ShipProfileRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := profiles.GetAll()
		if err != nil {
			logger.Error("Failed to list ship profiles: %v", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		response := make([]dto.ShipProfileResponse, 0, len(all))
		for _, p := range all {
			response = append(response, dto.NewShipProfileResponse(p))
		}
		respondJSON(w, http.StatusOK, response)
	}
}

// CreateShipProfileHandler handles POST /api/ship_id/ship_profiles.
// Unknown category ids are stored with the name "unknown".
func CreateShipProfileHandler(profiles repository.ShipProfileRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ShipProfileCreate
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if strings.TrimSpace(req.ShipID) == "" {
			respondError(w, http.StatusUnprocessableEntity, "ship_id is required")
			return
		}

		profile := model.ShipProfile{
			CategoryID:   req.CategoryID,
			CategoryName: model.CategoryName(req.CategoryID),
			ShipID:       req.ShipID,
		}
		if _, err := profiles.Insert(&profile); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				respondError(w, http.StatusBadRequest, "Ship ID already exists")
				return
			}
			logger.Error("Failed to create ship profile: %v", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, dto.NewShipProfileResponse(profile))
	}
}

// UpdateShipProfileHandler handles PUT /api/ship_id/ship_profiles/{id}.
// Omitted fields keep their value; an unknown category keeps the stored name.
func UpdateShipProfileHandler(profiles repository.ShipProfileRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		var req dto.ShipProfileUpdate
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		profile, err := profiles.GetByID(id)
		if err != nil {
			logger.Error("Failed to load ship profile %d: %v", id, err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if profile == nil {
			respondError(w, http.StatusNotFound, "Record not found")
			return
		}

		if req.CategoryID != nil {
			profile.CategoryID = *req.CategoryID
			if name, ok := model.Categories[profile.CategoryID]; ok {
				profile.CategoryName = name
			}
		}
		if req.ShipID != nil {
			profile.ShipID = *req.ShipID
		}

		if err := profiles.Update(profile); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicate):
				respondError(w, http.StatusBadRequest, "Duplicate ship ID")
			case errors.Is(err, repository.ErrNotFound):
				respondError(w, http.StatusNotFound, "Record not found")
			default:
				logger.Error("Failed to update ship profile %d: %v", id, err)
				respondError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}

		respondJSON(w, http.StatusOK, dto.NewShipProfileResponse(*profile))
	}
}

// DeleteShipProfileHandler handles DELETE /api/ship_id/ship_profiles/{id}.
func DeleteShipProfileHandler(profiles repository.ShipProfileRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := profiles.Delete(id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				respondError(w, http.StatusNotFound, "Record not found")
				return
			}
			logger.Error("Failed to delete ship profile %d: %v", id, err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, dto.DeleteResponse{
			Success: true,
			Message: fmt.Sprintf("Ship profile %d deleted.", id),
		})
	}
}

// SearchShipProfilesHandler handles GET /api/ship_id/ship_profiles/search?q=.
func SearchShipProfilesHandler(profiles repository.ShipProfileRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !r.URL.Query().Has("q") {
			respondError(w, http.StatusUnprocessableEntity, "q is required")
			return
		}

		all, err := profiles.GetAll()
		if err != nil {
			logger.Error("Failed to list ship profiles: %v", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		matches := similarity.Search(r.URL.Query().Get("q"), all)
		response := make([]dto.ShipProfileResponse, 0, len(matches))
		for _, m := range matches {
			response = append(response, dto.NewShipProfileResponse(m.Profile))
		}
		respondJSON(w, http.StatusOK, response)
	}
}

// CategoriesHandler handles GET /api/ship_id/categories and returns the id -> name map.
func CategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, model.Categories)
	}
}
