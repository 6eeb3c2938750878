package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/panzer3d/internal/engine/terrain"
	"github.com/Faultbox/panzer3d/pkg/math"
)

func TestFlat(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr error
		want    string
	}{
		{"square", []string{"flat", filepath.Join(dir, "a.hfd"), "5", "5", "2"}, nil, "(5 x 5)"},
		{"cell flag", []string{"flat", "-cell", "2", filepath.Join(dir, "b.hfd"), "3", "2", "1"}, nil, "(3 x 2)"},
		{"missing height", []string{"flat", filepath.Join(dir, "c.hfd"), "5", "5"}, errUsage, ""},
		{"bad cols", []string{"flat", filepath.Join(dir, "d.hfd"), "five", "5", "0"}, errUsage, ""},
		{"bad flag", []string{"flat", "-bogus", filepath.Join(dir, "e.hfd"), "5", "5", "0"}, errUsage, ""},
		{"single column", []string{"flat", filepath.Join(dir, "f.hfd"), "1", "5", "0"}, math.ErrInvalidGrid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, &out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), "Wrote: ")
			assert.Contains(t, out.String(), tt.want)
		})
	}

	for _, name := range []string{"c.hfd", "d.hfd", "e.hfd", "f.hfd"} {
		assert.NoFileExists(t, filepath.Join(dir, name))
	}

	hf, err := terrain.Load(terrain.LoadOptions{Path: filepath.Join(dir, "b.hfd")})
	require.NoError(t, err)
	assert.Equal(t, float32(2), hf.CellSize())
	assert.Equal(t, terrain.Bounds{Min: math.Vec2{X: -2, Y: -1}, Max: math.Vec2{X: 2, Y: 1}}, hf.Bounds())
}

func TestInfoAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.hfd")
	require.NoError(t, run([]string{"flat", path, "5", "5", "2"}, &bytes.Buffer{}))

	tests := []struct {
		name    string
		args    []string
		wantErr error
		want    []string
	}{
		{"info", []string{"info", path}, nil, []string{
			"Grid:      5 x 5 nodes",
			"Cell size: 1",
			"Bounds:    X [-2, 2]  Z [-2, 2]",
			"Heights:   [2, 2]",
		}},
		{"query", []string{"query", path, "0.5", "-1.25"}, nil, []string{"Height: 2", "Normal: ("}},
		{"query alias", []string{"q", path, "2", "2"}, nil, []string{"Height: 2"}},
		{"help", []string{"help"}, nil, []string{"terraintool - height field utility"}},
		{"query outside", []string{"query", path, "3", "0"}, terrain.ErrOutOfBounds, nil},
		{"query bad x", []string{"query", path, "east", "0"}, errUsage, nil},
		{"query missing z", []string{"query", path, "0"}, errUsage, nil},
		{"info missing file", []string{"info", filepath.Join(t.TempDir(), "none.hfd")}, nil, nil},
		{"unknown command", []string{"render", path}, errUsage, nil},
		{"no command", nil, errUsage, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, &out)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.want == nil:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				for _, line := range tt.want {
					assert.Contains(t, out.String(), line)
				}
			}
		})
	}
}
