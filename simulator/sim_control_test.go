package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/circleface/internal/state"
)

func newControl(t *testing.T) (*SimControl, *int) {
	t.Helper()
	redraws := 0
	store := state.NewStore(state.TimeValue{Hour: 4, Minute: 45})
	return NewSimControl(store, func() { redraws++ }), &redraws
}

func TestAdvanceWraps(t *testing.T) {
	control, redraws := newControl(t)

	tv, err := control.Advance(20)
	require.NoError(t, err)
	assert.Equal(t, state.TimeValue{Hour: 5, Minute: 5}, tv)

	tv, err = control.Advance(-6 * 60)
	require.NoError(t, err)
	assert.Equal(t, state.TimeValue{Hour: 23, Minute: 5}, tv)

	tv, err = control.Advance(60)
	require.NoError(t, err)
	assert.Equal(t, state.TimeValue{Hour: 0, Minute: 5}, tv)
	assert.Equal(t, 3, *redraws)
}

func TestResetRestoresStartAndClearsFaults(t *testing.T) {
	control, _ := newControl(t)
	control.SetFaults(SimFaults{PaintFail: true})
	require.ErrorIs(t, control.PaintFault(), errSimulatedPaint)
	_, err := control.Advance(90)
	require.NoError(t, err)

	require.NoError(t, control.Reset())
	assert.NoError(t, control.PaintFault())
	assert.Equal(t, state.TimeValue{Hour: 4, Minute: 45}, control.store.Time())
}

func TestSimEndpoints(t *testing.T) {
	control, _ := newControl(t)
	mux := http.NewServeMux()
	registerSimEndpoints(mux, control)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sim/faults", strings.NewReader(`{"paintFail":true}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, control.Faults().PaintFail)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sim/advance", strings.NewReader(`{"minutes":15}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hour":5,"minute":0}`, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sim/reset", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sim/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, control.Faults().PaintFail)
}
