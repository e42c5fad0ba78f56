//go:build unix

package record

import (
	"image/color"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFFmpeg puts an ffmpeg on PATH that copies stdin to its last argument.
func fakeFFmpeg(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	script := "#!/bin/sh\nfor a in \"$@\"; do out=\"$a\"; done\ncat > \"$out\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffmpeg"), []byte(script), 0755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestFFmpegRunsInOwnProcessGroup(t *testing.T) {
	fakeFFmpeg(t)
	path := filepath.Join(t.TempDir(), "out.mp4")
	target, err := Resolve(path, "")
	require.NoError(t, err)

	ff, err := NewFFmpeg(target, 8, 6, 10)
	require.NoError(t, err)
	for k := 0; k < 3; k++ {
		require.NoError(t, ff.WriteFrame(solidFrame(k, 8, 6, color.RGBA{R: 200})))
	}

	pgid, err := syscall.Getpgid(ff.cmd.Process.Pid)
	require.NoError(t, err)
	assert.Equal(t, ff.cmd.Process.Pid, pgid, "ffmpeg must lead its own process group")
	assert.NotEqual(t, syscall.Getpgrp(), pgid, "a terminal interrupt must not reach ffmpeg")

	require.NoError(t, ff.Close())
	info, err := os.Stat(path)
	require.NoError(t, err, "the stream so far must be published")
	assert.EqualValues(t, 3*8*6*3, info.Size())
	_, err = os.Stat(ff.tmp)
	assert.True(t, os.IsNotExist(err))
}
