package application

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/devbush/vid2audio/internal/domain"
)

// Discover returns every supported video file under root, sorted by path.
// Symbolic links below root are neither followed nor included.
func (s *ConvertService) Discover(root string) ([]string, error) {
	info, err := s.fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewInvalidPath("source directory does not exist: " + root)
		}
		return nil, domain.NewIOError("failed to access "+root, err)
	}
	if !info.IsDir() {
		return nil, domain.NewInvalidPath("source is not a directory: " + root)
	}

	// Walk uses Lstat, so a symlinked root needs a trailing separator to be entered
	walkRoot := root
	if lst, ok := s.fs.(afero.Lstater); ok {
		if li, lstatCalled, err := lst.LstatIfPossible(root); err == nil && lstatCalled && li.Mode()&os.ModeSymlink != 0 {
			walkRoot = root + string(filepath.Separator)
		}
	}

	var files []string
	err = afero.Walk(s.fs, walkRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return domain.NewIOError("failed to read "+path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if domain.CheckInput(path) == nil {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, domain.NewIOError("failed to walk "+root, err)
	}

	sort.Strings(files)
	s.logger.Debug("discovery complete", "root", root, "files", len(files))
	return files, nil
}

// EnsureOutputDir creates root/audio_exports and returns its path
func (s *ConvertService) EnsureOutputDir(root string) (string, error) {
	dest := filepath.Join(root, domain.OutputDirName)
	if err := s.EnsureDir(dest); err != nil {
		return "", err
	}
	return dest, nil
}

// EnsureDir creates dir and any missing parents. Existing contents are left untouched.
func (s *ConvertService) EnsureDir(dir string) error {
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return domain.NewIOError("failed to create output directory "+dir, err)
	}
	info, err := s.fs.Stat(dir)
	if err != nil {
		return domain.NewIOError("failed to create output directory "+dir, err)
	}
	if !info.IsDir() {
		return domain.NewIOError("output path exists and is not a directory: "+dir, nil)
	}
	return nil
}

// PartitionExisting splits files into those still to convert and those whose
// output already exists in destDir
func (s *ConvertService) PartitionExisting(files []string, destDir string, f domain.AudioFormat) (pending, existing []string) {
	for _, src := range files {
		if _, err := s.fs.Stat(domain.OutputPath(src, destDir, f)); err == nil {
			existing = append(existing, src)
			continue
		}
		pending = append(pending, src)
	}
	return pending, existing
}

// Collision is a set of sources that map to the same output file
type Collision struct {
	Output  string
	Sources []string
}

// OutputCollisions reports sources that would overwrite each other's output
func (s *ConvertService) OutputCollisions(files []string, destDir string, f domain.AudioFormat) []Collision {
	bySource := make(map[string][]string)
	var order []string
	for _, src := range files {
		out := domain.OutputPath(src, destDir, f)
		if _, ok := bySource[out]; !ok {
			order = append(order, out)
		}
		bySource[out] = append(bySource[out], src)
	}

	var collisions []Collision
	for _, out := range order {
		if len(bySource[out]) > 1 {
			collisions = append(collisions, Collision{Output: out, Sources: bySource[out]})
		}
	}
	return collisions
}
