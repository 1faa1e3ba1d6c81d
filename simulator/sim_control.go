package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/rook-computer/circleface/internal/scene"
	"github.com/rook-computer/circleface/internal/state"
)

var errSimulatedPaint = errors.New("simulated paint failure")

type SimFaults struct {
	PaintFail bool `json:"paintFail"`
}

// SimControl lets a browser or script steer the simulated face.
type SimControl struct {
	store  *state.Store
	start  state.TimeValue
	redraw func()

	faults struct {
		mu sync.RWMutex
		v  SimFaults
	}
}

func NewSimControl(store *state.Store, redraw func()) *SimControl {
	if redraw == nil {
		redraw = func() {}
	}
	return &SimControl{store: store, start: store.Time(), redraw: redraw}
}

func (c *SimControl) Faults() SimFaults {
	c.faults.mu.RLock()
	defer c.faults.mu.RUnlock()
	return c.faults.v
}

func (c *SimControl) SetFaults(v SimFaults) {
	c.faults.mu.Lock()
	c.faults.v = v
	c.faults.mu.Unlock()
}

// PaintFault is the PNG renderer's fault hook.
func (c *SimControl) PaintFault() error {
	if c.Faults().PaintFail {
		return errSimulatedPaint
	}
	return nil
}

func (c *SimControl) Reset() error {
	c.SetFaults(SimFaults{})
	if err := c.store.SetTime(c.start); err != nil {
		return err
	}
	c.redraw()
	return nil
}

// Advance moves the face by minutes (may be negative) on a 24 hour dial.
func (c *SimControl) Advance(minutes int) (state.TimeValue, error) {
	tv := c.store.Time()
	total := scene.Mod(tv.Hour*60+tv.Minute+minutes, 24*60)
	next := state.TimeValue{Hour: total / 60, Minute: total % 60}
	if err := c.store.SetTime(next); err != nil {
		return tv, err
	}
	c.redraw()
	return next, nil
}

func registerSimEndpoints(handler http.Handler, control *SimControl) {
	mux, ok := handler.(*http.ServeMux)
	if !ok {
		// Only supported when the simulator uses the default mux.
		return
	}

	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := control.Reset(); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "time": control.store.Time()})
	})

	mux.HandleFunc("/sim/advance", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req struct {
			Minutes int `json:"minutes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeSimError(w, http.StatusBadRequest, "invalid json")
			return
		}
		tv, err := control.Advance(req.Minutes)
		if err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, tv)
	})

	mux.HandleFunc("/sim/faults", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, control.Faults())
			return
		case http.MethodPost:
			var patch struct {
				PaintFail *bool `json:"paintFail"`
			}
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			current := control.Faults()
			if patch.PaintFail != nil {
				current.PaintFail = *patch.PaintFail
			}
			control.SetFaults(current)
			writeSimJSON(w, http.StatusOK, current)
			return
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
