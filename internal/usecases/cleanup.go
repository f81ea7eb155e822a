package usecases

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// CleanupService removes scratch workspaces that a crashed or killed run left
// behind. Live runs remove their own workspace on return.
type CleanupService interface {
	CleanupWorkspace(path string) error
	CleanupOldWorkspaces(maxAge time.Duration) (int, error)
}

type cleanupService struct {
	tempDir string
	logger  *zap.Logger
	now     func() time.Time
}

func NewCleanupService(tempDir string, logger *zap.Logger) CleanupService {
	return &cleanupService{
		tempDir: tempDir,
		logger:  logger,
		now:     time.Now,
	}
}

// CleanupWorkspace removes one run workspace. Paths outside tempDir or not
// named like a workspace are refused.
func (s *cleanupService) CleanupWorkspace(path string) error {
	ok, err := filepath.Match(filepath.Join(s.tempDir, WorkspacePattern), filepath.Clean(path))
	if err != nil || !ok {
		return fmt.Errorf("refusing to remove %s: not a run workspace", path)
	}
	return os.RemoveAll(path)
}

func (s *cleanupService) CleanupOldWorkspaces(maxAge time.Duration) (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.tempDir, WorkspacePattern))
	if err != nil {
		return 0, err
	}

	now := s.now()
	removed := 0
	var firstErr error
	for _, dirPath := range matches {
		info, err := os.Stat(dirPath)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("cannot stat %s: %w", dirPath, err)
			}
			continue
		}
		if !info.IsDir() || now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		if err := os.RemoveAll(dirPath); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("cannot remove %s: %w", dirPath, err)
			}
			continue
		}
		removed++
		s.logger.Info("removed stale workspace", zap.String("path", dirPath), zap.Duration("age", now.Sub(info.ModTime())))
	}
	return removed, firstErr
}
