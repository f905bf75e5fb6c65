package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/partsfinda/partsfinda-api/internal/clients/vin"
)

// VINDecoder decodes a 17-character VIN into vehicle attributes.
type VINDecoder interface {
	Decode(ctx context.Context, rawVIN string) (*vin.DecodedVehicle, error)
}

// DecodeVINHandler handles GET /api/vin?vin=.
func DecodeVINHandler(log *slog.Logger, decoder VINDecoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DecodeVINHandler"
		logger := log.With(slog.String("op", op))

		rawVIN := r.URL.Query().Get("vin")

		vehicle, err := decoder.Decode(r.Context(), rawVIN)
		if err != nil {
			if errors.Is(err, vin.ErrInvalidVIN) {
				writeError(w, logger, http.StatusBadRequest, "Invalid VIN")
				return
			}
			logger.Error("failed to decode vin", slog.Any("error", err))
			writeError(w, logger, http.StatusBadGateway, "VIN decode failed")
			return
		}

		writeJSON(w, logger, http.StatusOK, vehicle)
	}
}
