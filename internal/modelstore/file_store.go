package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shayanthavi/FitTrack-AI/internal/learning"
)

const (
	currentFile = "CURRENT"
	versionsDir = "versions"
)

// FileStore はモデルをディレクトリに保存します。
//
// 保存ごとに versions/<version>/ へ3ファイルを書き込み、最後に CURRENT ファイルを
// rename で差し替えます。rename が完了するまで Load は以前のバージョンを読みます。
// 差し替え後は現在と直前のバージョンだけを残し、旧 CURRENT を読んだ
// 別プロセスの Load も読み切れるようにします。
type FileStore struct {
	mu     sync.Mutex
	dir    string
	logger *zap.Logger
}

// NewFileStore creates the store directory if needed.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Join(dir, versionsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) Save(ctx context.Context, b *learning.Bundle) error {
	arts, err := learning.EncodeBundle(b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	previous, _ := s.readPointer()
	version := s.versionDir(b.Metadata.Version)
	vdir := filepath.Join(s.dir, versionsDir, version)
	if err := os.MkdirAll(vdir, 0o755); err != nil {
		return fmt.Errorf("failed to create version directory: %w", err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{ModelFile, arts.Model},
		{ScalerFile, arts.Scaler},
		{InfoFile, arts.Info},
	}
	for _, f := range files {
		if err := writeFileSync(filepath.Join(vdir, f.name), f.data); err != nil {
			_ = os.RemoveAll(vdir)
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}

	tmp := filepath.Join(s.dir, currentFile+".tmp")
	if err := writeFileSync(tmp, []byte(version+"\n")); err != nil {
		_ = os.RemoveAll(vdir)
		return fmt.Errorf("failed to write version pointer: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, currentFile)); err != nil {
		_ = os.Remove(tmp)
		_ = os.RemoveAll(vdir)
		return fmt.Errorf("failed to switch current version: %w", err)
	}

	s.logger.Info("Model saved",
		zap.String("dir", vdir),
		zap.String("version", version),
		zap.String("model", b.Metadata.SelectedModel))
	s.prune(version, previous)
	return nil
}

// versionDir picks the directory name for a new version. The run version is
// used when it is a safe, unused name.
func (s *FileStore) versionDir(version string) string {
	if !validVersion(version) {
		return uuid.NewString()
	}
	if _, err := os.Stat(filepath.Join(s.dir, versionsDir, version)); err == nil {
		return version + "-" + uuid.NewString()
	}
	return version
}

func validVersion(v string) bool {
	return v != "" && v != "." && v != ".." && !strings.ContainsAny(v, "/\\ \t\n")
}

// loadAttempts bounds how often Load follows a moved CURRENT pointer.
const loadAttempts = 3

func (s *FileStore) Load(ctx context.Context) (*learning.Bundle, error) {
	var lastErr error
	for attempt := 0; attempt < loadAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		version, err := s.readPointer()
		if err != nil {
			return nil, err
		}
		b, err := s.loadVersion(filepath.Join(s.dir, versionsDir, version))
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		// a concurrent save pruned the version; follow the new pointer
		lastErr = err
	}
	return nil, lastErr
}

func (s *FileStore) loadVersion(vdir string) (*learning.Bundle, error) {
	var arts learning.Artifacts
	for _, f := range []struct {
		name string
		dst  *[]byte
	}{
		{ModelFile, &arts.Model},
		{ScalerFile, &arts.Scaler},
		{InfoFile, &arts.Info},
	} {
		data, err := os.ReadFile(filepath.Join(vdir, f.name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.name, err)
		}
		*f.dst = data
	}

	b, err := learning.DecodeBundle(&arts)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model in %s: %w", vdir, err)
	}
	return b, nil
}

func (s *FileStore) readPointer() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, currentFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoModel
	}
	if err != nil {
		return "", fmt.Errorf("failed to read version pointer: %w", err)
	}
	version := strings.TrimSpace(string(data))
	if !validVersion(version) {
		return "", fmt.Errorf("corrupt version pointer %q", version)
	}
	return version, nil
}

// prune removes every version directory except current and previous.
func (s *FileStore) prune(current, previous string) {
	entries, err := os.ReadDir(filepath.Join(s.dir, versionsDir))
	if err != nil {
		s.logger.Warn("Failed to list model versions", zap.Error(err))
		return
	}
	for _, e := range entries {
		if e.Name() == current || e.Name() == previous {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.dir, versionsDir, e.Name())); err != nil {
			s.logger.Warn("Failed to remove old model version", zap.String("version", e.Name()), zap.Error(err))
		}
	}
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
