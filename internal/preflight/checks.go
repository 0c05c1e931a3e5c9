package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// minWorkspaceBytes is the space required to stage a firmware image plus
// compile artifacts with headroom.
const minWorkspaceBytes = 64 << 20

// CheckDirectoryAccess verifies that the directory exists (creating it if
// needed) and is readable and writable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has at least min bytes
// available to the calling user.
func CheckDiskSpace(name, path string, min uint64) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	available := stat.Bavail * uint64(stat.Bsize)
	if available < min {
		return Result{
			Name:   name,
			Detail: fmt.Sprintf("%s (%d MiB free, need %d MiB)", path, available>>20, min>>20),
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, available>>20)}
}
