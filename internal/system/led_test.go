package system

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	calls     [][]string
	deadlines []time.Duration
	err       error
}

func (r *recordingRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	r.calls = append(r.calls, append([]string{cmd}, args...))
	if deadline, ok := ctx.Deadline(); ok {
		r.deadlines = append(r.deadlines, time.Until(deadline))
	}
	if r.err != nil {
		return "", "boom", r.err
	}
	return "", "", nil
}

func TestNewLED(t *testing.T) {
	assert.IsType(t, NoopLED{}, NewLED("  ", nil))
	assert.IsType(t, &SysfsLED{}, NewLED("/sys/class/leds/led0", nil))
	assert.IsType(t, &ScriptLED{}, NewLED("lifeline.sh", nil))
}

func TestSysfsLED(t *testing.T) {
	dir := t.TempDir()
	led := &SysfsLED{Dir: dir}
	ctx := context.Background()

	require.NoError(t, led.Set(ctx, true))
	brightness, err := os.ReadFile(filepath.Join(dir, "brightness"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(brightness))
	trigger, err := os.ReadFile(filepath.Join(dir, "trigger"))
	require.NoError(t, err)
	assert.Equal(t, "none", string(trigger))

	require.NoError(t, led.Set(ctx, false))
	brightness, err = os.ReadFile(filepath.Join(dir, "brightness"))
	require.NoError(t, err)
	assert.Equal(t, "0", string(brightness))
}

func TestSysfsLEDMissingDir(t *testing.T) {
	led := &SysfsLED{Dir: filepath.Join(t.TempDir(), "missing")}
	require.Error(t, led.Set(context.Background(), true))
}

func TestScriptLED(t *testing.T) {
	runner := &recordingRunner{}
	led := NewLED("lifeline.sh", runner)

	require.NoError(t, led.Set(context.Background(), true))
	require.NoError(t, led.Set(context.Background(), false))
	assert.Equal(t, [][]string{{"lifeline.sh", "on"}, {"lifeline.sh", "off"}}, runner.calls)

	runner.err = errors.New("exit 1")
	err := led.Set(context.Background(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestScriptLEDBoundsEachRun(t *testing.T) {
	runner := &recordingRunner{}
	led := &ScriptLED{Runner: runner, Script: "lifeline.sh", Timeout: 50 * time.Millisecond}

	require.NoError(t, led.Set(context.Background(), true))
	require.Len(t, runner.deadlines, 1)
	assert.LessOrEqual(t, runner.deadlines[0], 50*time.Millisecond)

	led.Timeout = 0
	require.NoError(t, led.Set(context.Background(), false))
	require.Len(t, runner.deadlines, 2)
	assert.LessOrEqual(t, runner.deadlines[1], DefaultLEDTimeout)
	assert.Greater(t, runner.deadlines[1], 50*time.Millisecond)
}

func TestScriptLEDWrapsRunnerError(t *testing.T) {
	exit := errors.New("exit 1")
	led := &ScriptLED{Runner: &recordingRunner{err: exit}, Script: "lifeline.sh"}

	err := led.Set(context.Background(), true)
	require.ErrorIs(t, err, exit)
	assert.Contains(t, err.Error(), "lifeline.sh on failed")
}
