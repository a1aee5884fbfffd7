package mpv

import (
	"os"
	"os/exec"

	"github.com/user/trimstrip-cli/deps"
)

// LaunchMpv starts mpv paused on videoPath with its IPC server on socketPath.
// It checks that mpv is installed first and returns an error with install
// link if not. The returned *exec.Cmd is used for cleanup.
func LaunchMpv(videoPath, socketPath string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	// A stale socket from a crashed session would make mpv fail to bind.
	_ = os.Remove(socketPath)

	cmd := exec.Command("mpv", launchArgs(videoPath, socketPath)...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func launchArgs(videoPath, socketPath string) []string {
	return []string{
		"--input-ipc-server=" + socketPath,
		"--pause",
		"--keep-open=yes",
		"--force-window=yes",
		videoPath,
	}
}
