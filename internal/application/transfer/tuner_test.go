package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadThreads(t *testing.T) {
	cases := []struct {
		name        string
		size        int64
		constrained bool
		want        int
	}{
		{"small file", 10 << 20, false, 6},
		{"small file constrained", 10 << 20, true, 6},
		{"just under medium", sizeMedium - 1, false, 6},
		{"medium boundary", sizeMedium, false, 4},
		{"just under large", sizeLarge - 1, false, 4},
		{"large boundary", sizeLarge, false, 3},
		{"huge file", 4 << 30, false, 3},
		{"huge file constrained", 4 << 30, true, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, NewTunerFor(c.constrained).UploadThreads(c.size))
		})
	}
}

func TestDownloadThreads(t *testing.T) {
	cases := []struct {
		name        string
		size        int64
		constrained bool
		want        int
	}{
		{"small file", 10 << 20, false, 8},
		{"small file constrained", 10 << 20, true, 8},
		{"medium boundary", sizeMedium, false, 6},
		{"just under large", sizeLarge - 1, true, 6},
		{"large boundary", sizeLarge, false, 4},
		{"huge file constrained", 4 << 30, true, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, NewTunerFor(c.constrained).DownloadThreads(c.size))
		})
	}
}

func TestConstrainedHost_EnvMarkers(t *testing.T) {
	for _, key := range []string{"RENDER", "RENDER_EXTERNAL_URL", "REPLIT_DEPLOYMENT", "REPL_ID"} {
		t.Setenv(key, "")
	}
	assert.False(t, ConstrainedHost())

	t.Setenv("REPL_ID", "abc123")
	assert.True(t, ConstrainedHost())
}

func TestConstrainedHost_Render(t *testing.T) {
	t.Setenv("RENDER", "true")
	assert.True(t, ConstrainedHost())
}
