package lister_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/benchdiff/internal/config"
	"github.com/signalnine/benchdiff/internal/lister"
	"github.com/signalnine/benchdiff/internal/result"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "benchmark-test-info.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Lister
		want any
	}{
		{"default", config.Lister{}, lister.Walk{}},
		{"walk", config.Lister{Kind: config.ListerWalk}, lister.Walk{}},
		{"script", config.Lister{Kind: config.ListerScript, Script: "x.sh"}, &lister.Script{}},
		{"docker", config.Lister{Kind: config.ListerDocker, Image: "img"}, &lister.Docker{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := lister.New(tt.cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, l)
		})
	}

	_, err := lister.New(config.Lister{Kind: "ftp"})
	assert.Error(t, err)
}

func TestScriptList(t *testing.T) {
	script := writeScript(t, `echo "# header for $1"
echo "0,anagram,1,1,1,1,0,0,0,0,0,0,0,0"
`)
	runDir := t.TempDir()
	s := &lister.Script{Path: script, Timeout: 10 * time.Second}

	out, err := s.List(context.Background(), runDir)
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "# header for "+runDir, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,anagram"))
}

func TestScriptListFailure(t *testing.T) {
	script := writeScript(t, "echo boom >&2\nexit 2\n")
	s := &lister.Script{Path: script}

	_, err := s.List(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestScriptListMissing(t *testing.T) {
	s := &lister.Script{Path: filepath.Join(t.TempDir(), "absent.sh")}
	_, err := s.List(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestWalkList(t *testing.T) {
	runDir := t.TempDir()
	require.NoError(t, result.WriteTestCase(filepath.Join(runDir, "anagram"), &result.TestCase{
		TestCase:      "anagram",
		TestsOutcomes: []bool{false, true},
	}))

	out, err := lister.Walk{}.List(context.Background(), runDir)
	require.NoError(t, err)
	assert.Contains(t, out, "\n1,anagram,")
}

func TestWalkListHonorsTimeout(t *testing.T) {
	runDir := t.TempDir()
	require.NoError(t, result.WriteTestCase(filepath.Join(runDir, "anagram"), &result.TestCase{
		TestCase:      "anagram",
		TestsOutcomes: []bool{true},
	}))
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := lister.Walk{}.List(ctx, runDir)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFunc(t *testing.T) {
	var got string
	f := lister.Func(func(_ context.Context, dir string) (string, error) {
		got = dir
		return "listing", nil
	})
	out, err := f.List(context.Background(), "runs/a")
	require.NoError(t, err)
	assert.Equal(t, "listing", out)
	assert.Equal(t, "runs/a", got)
}

func TestDockerList(t *testing.T) {
	if os.Getenv("BENCHDIFF_DOCKER_TESTS") == "" {
		t.Skip("set BENCHDIFF_DOCKER_TESTS=1 to run Docker tests")
	}
	script := writeScript(t, `echo "0,$(basename "$1"),1,1,1,1,0,0,0,0,0,0,0,0"
`)
	d := &lister.Docker{Image: "alpine:latest", Script: script, Timeout: 60 * time.Second}

	out, err := d.List(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "0,benchrun,1,1,1,1,0,0,0,0,0,0,0,0", out)
}
