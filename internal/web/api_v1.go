package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"

	"github.com/rook-computer/circleface/internal/render"
	"github.com/rook-computer/circleface/internal/scene"
	"github.com/rook-computer/circleface/internal/state"
)

// FaceSource is the running face as seen by the API.
type FaceSource interface {
	Millis() uint64
	CurrentScene() (scene.Scene, error)
}

type APIV1Deps struct {
	Store  *state.Store
	Face   FaceSource
	Raster *render.Rasterizer

	// CanvasSize is the edge of frame.png in pixels.
	CanvasSize int

	// ReadOnlyTime rejects time updates, e.g. when the wall clock drives the face.
	ReadOnlyTime bool

	// OnTimeSet runs after a successful time update.
	OnTimeSet func()
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	if d.CanvasSize <= 0 {
		d.CanvasSize = render.CanvasSize
	}
	if d.Raster == nil {
		d.Raster = render.NewRasterizer(nil)
	}
	return d
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type clockResponse struct {
	Phase          string `json:"phase"`
	Millis         uint64 `json:"millis"`
	Frames         uint64 `json:"frames"`
	PaintErrors    uint64 `json:"paintErrors"`
	LastPaintMs    uint64 `json:"lastPaintMs"`
	LastPaintError string `json:"lastPaintError,omitempty"`
}

type primitiveJSON struct {
	Kind  string          `json:"kind"`
	Value scene.Primitive `json:"value"`
}

type sceneResponse struct {
	scene.Scene
	Extras []primitiveJSON `json:"extras"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/time", func(w http.ResponseWriter, r *http.Request) { handleTime(w, r, deps) })
	mux.HandleFunc("/clock", func(w http.ResponseWriter, r *http.Request) { handleClock(w, r, deps) })
	mux.HandleFunc("/scene", func(w http.ResponseWriter, r *http.Request) { handleScene(w, r, deps) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, deps) })
	return mux
}

func handleTime(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, deps.Store.Time())
	case http.MethodPut, http.MethodPost:
		if deps.ReadOnlyTime {
			writeAPIError(w, http.StatusConflict, "time_read_only", "time follows the system clock")
			return
		}
		var tv state.TimeValue
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&tv); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		if err := deps.Store.SetTime(tv); err != nil {
			code := "set_time_failed"
			if errors.Is(err, state.ErrInvalidTime) {
				code = "invalid_time"
			}
			writeAPIError(w, http.StatusBadRequest, code, err.Error())
			return
		}
		if deps.OnTimeSet != nil {
			deps.OnTimeSet()
		}
		writeJSON(w, http.StatusOK, deps.Store.Time())
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func handleClock(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	snap := deps.Store.Snapshot()
	resp := clockResponse{
		Phase:          snap.Phase.String(),
		Frames:         snap.Frame.Frames,
		PaintErrors:    snap.Frame.PaintErrors,
		LastPaintMs:    snap.Frame.LastPaintMs,
		LastPaintError: snap.Frame.LastPaintError,
	}
	if deps.Face != nil {
		resp.Millis = deps.Face.Millis()
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleScene(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	sc, ok := currentScene(w, deps)
	if !ok {
		return
	}
	resp := sceneResponse{Scene: sc, Extras: make([]primitiveJSON, 0, len(sc.Extras))}
	for _, extra := range sc.Extras {
		resp.Extras = append(resp.Extras, primitiveJSON{Kind: extra.Kind(), Value: extra})
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleFrame(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	sc, ok := currentScene(w, deps)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, deps.Raster.Frame(sc, deps.CanvasSize)); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func currentScene(w http.ResponseWriter, deps APIV1Deps) (scene.Scene, bool) {
	if deps.Face == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "no face configured")
		return scene.Scene{}, false
	}
	sc, err := deps.Face.CurrentScene()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return scene.Scene{}, false
	}
	return sc, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
