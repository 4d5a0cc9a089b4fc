package api

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crimson-sun/seizurewatch/internal/engine/normalize"
	"github.com/crimson-sun/seizurewatch/internal/model"
	"github.com/crimson-sun/seizurewatch/internal/pipeline"
)

// Handler serves the seizure detection HTTP API.
type Handler struct {
	pipeline *pipeline.Pipeline
}

// NewHandler creates a Handler backed by p.
func NewHandler(p *pipeline.Pipeline) *Handler {
	return &Handler{pipeline: p}
}

// NewRouter registers every route and wraps them in CORS handling.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(instrument)

	r.HandleFunc("/upload", h.Upload).Methods(http.MethodPost)
	r.HandleFunc("/seizure_log", h.SeizureLog).Methods(http.MethodGet)
	r.HandleFunc("/health", HealthCheck).Methods(http.MethodGet)
	r.Path("/metrics").Handler(promhttp.Handler())

	return corsMiddleware(r)
}

// Upload handles POST /upload. The body is either {"eegData": [...]} or,
// with Content-Type application/octet-stream, raw little-endian float32
// samples.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	samples, err := decodeSamples(r)
	if err != nil {
		respondError(w, fmt.Sprintf("invalid payload: %v", err), http.StatusInternalServerError)
		return
	}
	windowSamples.Observe(float64(len(samples)))

	det, err := h.pipeline.Upload(r.Context(), samples)
	switch {
	case errors.Is(err, normalize.ErrDegenerateSignal):
		predictionsTotal.WithLabelValues("rejected").Inc()
		respondError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		predictionsTotal.WithLabelValues("error").Inc()
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	seizureProbability.Observe(det.Probability)
	if det.IsSeizure {
		predictionsTotal.WithLabelValues("seizure").Inc()
	} else {
		predictionsTotal.WithLabelValues("normal").Inc()
	}
	respondJSON(w, det, http.StatusOK)
}

// SeizureLog handles GET /seizure_log.
func (h *Handler) SeizureLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.pipeline.Log(r.Context())
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, entries, http.StatusOK)
}

// HealthCheck handles GET /health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

func decodeSamples(r *http.Request) ([]float64, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/octet-stream" {
		return decodeFloat32LE(r.Body)
	}

	var req model.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if req.EEGData == nil {
		return nil, errors.New(`missing "eegData"`)
	}
	samples := make([]float64, len(*req.EEGData))
	for i, v := range *req.EEGData {
		if v == nil {
			return nil, fmt.Errorf("eegData[%d] is null", i)
		}
		samples[i] = *v
	}
	return samples, nil
}

func decodeFloat32LE(body io.Reader) ([]float64, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("binary body length %d is not a multiple of 4", len(data))
	}
	samples := make([]float64, len(data)/4)
	for i := range samples {
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("sample %d is not finite", i)
		}
		samples[i] = float64(v)
	}
	return samples, nil
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("encode response", "error", err)
		body, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("encode response: %v", err)})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
