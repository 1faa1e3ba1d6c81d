package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/circleface/internal/scene"
	"github.com/rook-computer/circleface/internal/state"
	"github.com/rook-computer/circleface/internal/watchface"
)

type stubFace struct {
	store  *state.Store
	millis uint64
	err    error
}

func (f stubFace) Millis() uint64 { return f.millis }

func (f stubFace) CurrentScene() (scene.Scene, error) {
	if f.err != nil {
		return scene.Scene{}, f.err
	}
	sc, err := watchface.New().Render(f.store.Time(), image.Rect(0, 0, 240, 240))
	if err != nil {
		return scene.Scene{}, err
	}
	return sc.WithExtras(scene.Label{Text: "04:45"}), nil
}

func newTestMux(t *testing.T, mutate func(*APIV1Deps)) (*http.ServeMux, *state.Store) {
	t.Helper()
	store := state.NewStore(state.TimeValue{Hour: 4, Minute: 45})
	deps := APIV1Deps{Store: store, Face: stubFace{store: store, millis: 1234}}
	if mutate != nil {
		mutate(&deps)
	}
	return NewDefaultMux(deps), store
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestGetTime(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	rec := do(mux, http.MethodGet, "/api/v1/time", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hour":4,"minute":45}`, rec.Body.String())
}

func TestPutTime(t *testing.T) {
	var notified int
	mux, store := newTestMux(t, func(d *APIV1Deps) { d.OnTimeSet = func() { notified++ } })

	rec := do(mux, http.MethodPut, "/api/v1/time", `{"hour":11,"minute":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, state.TimeValue{Hour: 11, Minute: 0}, store.Time())
	assert.Equal(t, 1, notified)

	rec = do(mux, http.MethodPost, "/api/v1/time", `{"hour":0,"minute":30}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, state.TimeValue{Hour: 0, Minute: 30}, store.Time())
	assert.Equal(t, 2, notified)
}

func TestPutTimeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name, body, code string
	}{
		{"minute too large", `{"hour":1,"minute":60}`, "invalid_time"},
		{"negative hour", `{"hour":-1,"minute":0}`, "invalid_time"},
		{"not json", `nope`, "invalid_json"},
		{"unknown field", `{"hour":1,"minute":2,"second":3}`, "invalid_json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, store := newTestMux(t, nil)
			rec := do(mux, http.MethodPut, "/api/v1/time", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp apiError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error)
			assert.Equal(t, state.TimeValue{Hour: 4, Minute: 45}, store.Time())
		})
	}
}

func TestPutTimeReadOnly(t *testing.T) {
	mux, store := newTestMux(t, func(d *APIV1Deps) { d.ReadOnlyTime = true })
	rec := do(mux, http.MethodPut, "/api/v1/time", `{"hour":1,"minute":2}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, state.TimeValue{Hour: 4, Minute: 45}, store.Time())
}

func TestTimeMethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	rec := do(mux, http.MethodDelete, "/api/v1/time", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetClock(t *testing.T) {
	mux, store := newTestMux(t, nil)
	store.SetPhase(state.RUNNING)
	store.RecordPaint(10, nil)
	store.RecordPaint(20, errors.New("fb gone"))

	rec := do(mux, http.MethodGet, "/api/v1/clock", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp clockResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, clockResponse{
		Phase:          "running",
		Millis:         1234,
		Frames:         2,
		PaintErrors:    1,
		LastPaintMs:    20,
		LastPaintError: "fb gone",
	}, resp)
}

func TestGetScene(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	rec := do(mux, http.MethodGet, "/api/v1/scene", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Arc struct {
			StartAngle int `json:"startAngle"`
			EndAngle   int `json:"endAngle"`
		} `json:"arc"`
		Indicators []struct {
			Index   int  `json:"index"`
			Elapsed bool `json:"elapsed"`
		} `json:"indicators"`
		Extras []struct {
			Kind  string          `json:"kind"`
			Value json.RawMessage `json:"value"`
		} `json:"extras"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 90, resp.Arc.StartAngle)
	assert.Equal(t, 0, resp.Arc.EndAngle)
	require.Len(t, resp.Indicators, scene.IndicatorCount)
	for _, indicator := range resp.Indicators {
		assert.Equal(t, indicator.Index <= 4, indicator.Elapsed, "indicator %d", indicator.Index)
	}
	require.Len(t, resp.Extras, 2)
	assert.Equal(t, "marker", resp.Extras[0].Kind)
	assert.Equal(t, "label", resp.Extras[1].Kind)
	assert.Contains(t, string(resp.Extras[1].Value), `"text":"04:45"`)
}

func TestSceneRenderFailure(t *testing.T) {
	mux, _ := newTestMux(t, func(d *APIV1Deps) {
		d.Face = stubFace{err: errors.New("degenerate")}
	})
	rec := do(mux, http.MethodGet, "/api/v1/scene", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSceneWithoutFace(t *testing.T) {
	mux, _ := newTestMux(t, func(d *APIV1Deps) { d.Face = nil })
	rec := do(mux, http.MethodGet, "/api/v1/frame.png", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestGetFramePNG(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	rec := do(mux, http.MethodGet, "/api/v1/frame.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 240, 240), img.Bounds())
}

func TestRootRedirectsToFrame(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	rec := do(mux, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/v1/frame.png", rec.Header().Get("Location"))

	rec = do(mux, http.MethodGet, "/elsewhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDevCORS(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	handler := WithDevCORS(mux)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/time", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPServerLifecycle(t *testing.T) {
	mux, _ := newTestMux(t, nil)
	server := NewHTTPServer(ServerConfig{ListenAddr: "127.0.0.1:0"})
	server.Handler = mux

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, server.Start(ctx))

	resp, err := http.Get("http://" + server.Addr() + "/api/v1/time")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, server.Stop())
	require.NoError(t, server.Stop())
	require.Error(t, server.Start(ctx))
}

func TestHTTPServerRequiresHandler(t *testing.T) {
	server := NewHTTPServer(ServerConfig{})
	assert.Equal(t, ":80", server.Addr())
	require.Error(t, server.Start(context.Background()))
}
