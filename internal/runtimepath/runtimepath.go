package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// SocketEnv overrides the control socket path when set.
const SocketEnv = "VOWIN_SOCKET"

// Dir returns the runtime directory used for the control socket. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/vowin-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/vowin-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the control socket path of a running window.
func SocketPath() (string, error) {
	if path := os.Getenv(SocketEnv); path != "" {
		return path, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "vowin.sock"), nil
}
