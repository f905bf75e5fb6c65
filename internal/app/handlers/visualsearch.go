package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/partsfinda/partsfinda-api/internal/service"
)

const visualSearchMaxMemory = 11 << 20

// VisualSearchHandler handles POST /api/visual-search with a multipart
// image upload plus optional maxResults, includeUsed and priceRange fields.
func VisualSearchHandler(log *slog.Logger, searchService service.VisualSearchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.VisualSearchHandler"
		logger := log.With(slog.String("op", op))

		if err := r.ParseMultipartForm(visualSearchMaxMemory); err != nil {
			logger.Error("invalid request: multipart parse error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Image file is required")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "Image file is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			logger.Error("failed to read image", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Image file is required")
			return
		}

		maxResults := 0
		if raw := r.FormValue("maxResults"); raw != "" {
			if n, convErr := strconv.Atoi(raw); convErr == nil {
				maxResults = n
			}
		}
		includeUsed := r.FormValue("includeUsed") == "true"

		analysis, results, err := searchService.Search(r.Context(), service.VisualSearchInput{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Image:       data,
			MaxResults:  maxResults,
			IncludeUsed: includeUsed,
			PriceRange:  r.FormValue("priceRange"),
		})
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, visualSearchErrorMessage(err))
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":  true,
			"analysis": analysis,
			"results":  results,
		})
	}
}

// VisualSearchCapabilitiesHandler handles GET /api/visual-search.
func VisualSearchCapabilitiesHandler(log *slog.Logger, searchService service.VisualSearchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.VisualSearchCapabilitiesHandler"
		logger := log.With(slog.String("op", op))

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"success":      true,
			"capabilities": searchService.Capabilities(),
		})
	}
}

func visualSearchErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrImageRequired):
		return "Image file is required"
	case errors.Is(err, service.ErrNotAnImage):
		return "Invalid file type. Please upload an image."
	case errors.Is(err, service.ErrImageTooLarge):
		return "File too large. Maximum size is 10MB."
	}
	return "Visual search failed"
}
