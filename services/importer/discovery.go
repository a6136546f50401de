package importer

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxFileSize = 10 * 1024 * 1024 // 10MB limit

type FileInfo struct {
	Path    string
	RelPath string
	ModTime time.Time
}

func (i *Importer) discoverMarkdownFiles(rootPath string, excludeFolders []string) ([]FileInfo, error) {
	var files []FileInfo
	excludeSet := make(map[string]struct{}, len(excludeFolders))
	for _, folder := range excludeFolders {
		excludeSet[filepath.Clean(folder)] = struct{}{}
	}
	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			i.logger.Error("could not walk through file or directory", "path", path, "err", err.Error())
			if !errors.Is(err, os.ErrPermission) {
				return err
			}
			return nil
		}

		// Skip directories that start with '.' but not the root directory
		if info.IsDir() && strings.HasPrefix(info.Name(), ".") && path != rootPath {
			return filepath.SkipDir
		}

		if info.IsDir() && path != rootPath && isInExcludedPath(path, info.Name(), excludeSet) {
			return filepath.SkipDir
		}

		if info.IsDir() || strings.HasPrefix(info.Name(), ".") || !isMarkdownFile(path) {
			return nil
		}

		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		files = append(files, FileInfo{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			ModTime: info.ModTime(),
		})
		return nil
	})

	return files, err
}

func isMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// An excluded folder may be given by name or by path.
func isInExcludedPath(currentPath string, name string, excludeSet map[string]struct{}) bool {

	if len(excludeSet) == 0 {
		return false
	}

	if _, ok := excludeSet[filepath.Clean(currentPath)]; ok {
		return true
	}
	_, ok := excludeSet[name]
	return ok
}

func readTextFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxFileSize))
	if err != nil {
		return "", err
	}

	return string(content), nil
}
