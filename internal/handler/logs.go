package handler

import (
	"net/http"
	"os"

	"shipwatch/internal/dto"
	"shipwatch/internal/logger"
)

// logFiles maps the {level} path segment to the file it serves.
var logFiles = map[string]string{
	"info":    logger.InfoFile,
	"warning": logger.WarningFile,
	"error":   logger.ErrorFile,
}

// ShowLogsHandler serves GET /logs/{level} as text/plain.
func ShowLogsHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := logFiles[r.PathValue("level")]
		if !ok {
			respondError(w, http.StatusNotFound, "unknown log level")
			return
		}
		serveLogFile(w, r, logger.Path(name), name)
	}
}

// serveLogFile sets headers and serves a log file if it exists.
func serveLogFile(w http.ResponseWriter, r *http.Request, filePath, filename string) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Log file not found: " + filename))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	http.ServeFile(w, r, filePath)
}

// ClearLogsHandler handles POST /logs/{level}/clear by rotating the file.
func ClearLogsHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := logFiles[r.PathValue("level")]
		if !ok {
			respondError(w, http.StatusNotFound, "unknown log level")
			return
		}
		if err := logger.CleanLogs(name); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, dto.MessageResponse{Message: name + " cleared"})
	}
}
