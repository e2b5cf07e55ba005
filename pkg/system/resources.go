package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DiskUsage holds space figures for a filesystem in bytes
type DiskUsage struct {
	Total     uint64 `json:"total"`
	Used      uint64 `json:"used"`
	Free      uint64 `json:"free"`
	Available uint64 `json:"available"`
}

// DirStatus describes whether downloads can land in a directory
type DirStatus struct {
	Path      string     `json:"path"`
	Exists    bool       `json:"exists"`
	Writable  bool       `json:"writable"`
	Disk      *DiskUsage `json:"disk,omitempty"`
	Error     string     `json:"error,omitempty"`
	CheckedAt string     `json:"checked_at"`
}

// ResourceChecker inspects the local filesystem
type ResourceChecker struct {
	logger Logger
}

// NewResourceChecker creates a new resource checker
func NewResourceChecker(logger Logger) *ResourceChecker {
	return &ResourceChecker{
		logger: logger,
	}
}

// CheckOutputDir reports on path. A directory that does not exist yet is
// judged by its nearest existing ancestor, since downloads create it.
func (rc *ResourceChecker) CheckOutputDir(path string) *DirStatus {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return &DirStatus{Path: path, Error: fmt.Sprintf("failed to get absolute path: %v", err)}
	}
	status := &DirStatus{Path: absPath}

	checked, err := existingAncestor(absPath)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Exists = checked == absPath
	status.CheckedAt = checked

	if err := checkWritePermission(checked); err != nil {
		status.Error = fmt.Sprintf("no write permission for %s: %v", checked, err)
	} else {
		status.Writable = true
	}

	usage, err := getDiskUsage(checked)
	if err != nil {
		if rc.logger != nil {
			rc.logger.Warn("Disk usage unavailable for %s: %v", checked, err)
		}
		return status
	}
	status.Disk = usage

	if rc.logger != nil {
		rc.logger.Debug("Disk space for %s: %d bytes available of %d", checked, usage.Available, usage.Total)
	}
	return status
}

func existingAncestor(path string) (string, error) {
	for {
		info, err := os.Stat(path)
		if err == nil {
			if !info.IsDir() {
				return "", fmt.Errorf("%s is not a directory", path)
			}
			return path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("cannot access %s: %w", path, err)
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", fmt.Errorf("no existing parent for %s", path)
		}
		path = parent
	}
}

// checkWritePermission creates and removes a temporary file in dir
func checkWritePermission(dir string) error {
	file, err := os.CreateTemp(dir, ".rustoredl_write_test*")
	if err != nil {
		return err
	}
	name := file.Name()
	file.Close()
	return os.Remove(name)
}
