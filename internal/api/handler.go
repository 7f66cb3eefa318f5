package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/san-kum/threephase/internal/config"
	"github.com/san-kum/threephase/internal/phasor"
)

// CalculateRequest carries the raw load arrays. Entries are decoded leniently
// by Powers.
type CalculateRequest struct {
	PY     json.RawMessage `json:"p_y"`
	PDelta json.RawMessage `json:"p_delta"`
}

type PresetInfo struct {
	Name string `json:"name"`
	config.Preset
}

type PresetResult struct {
	PresetInfo
	Result phasor.LineCurrentSet `json:"result"`
}

type errorBody struct {
	Error string `json:"error"`
}

type Handler struct {
	Voltage float64
}

func NewHandler(voltage float64) *Handler {
	return &Handler{Voltage: voltage}
}

func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	writeJSON(w, http.StatusOK, phasor.Compute(Powers(req.PY), Powers(req.PDelta), h.Voltage))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	names := config.ListPresets()
	out := make([]PresetInfo, 0, len(names))
	for _, name := range names {
		out = append(out, PresetInfo{Name: name, Preset: config.Presets[name]})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Preset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	p, err := config.GetPreset(name)
	if errors.Is(err, config.ErrUnknownPreset) {
		writeError(w, http.StatusNotFound, "unknown preset "+name)
		return
	}
	writeJSON(w, http.StatusOK, PresetResult{
		PresetInfo: PresetInfo{Name: name, Preset: p},
		Result:     phasor.Compute(p.Y, p.Delta, h.Voltage),
	})
}

// Powers reads up to three numbers from a JSON array. Each entry is decoded
// on its own: missing, null, non-numeric, out of range and surplus entries
// leave zeros behind without affecting their neighbours.
func Powers(raw json.RawMessage) [3]float64 {
	var out [3]float64
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return out
	}
	for i := 0; i < len(items) && i < 3; i++ {
		var v float64
		if json.Unmarshal(items[i], &v) == nil {
			out[i] = v
		}
	}
	return out
}

// writeJSON logs encode failures; the status line is already sent by then.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "status", status, "err", err)
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
