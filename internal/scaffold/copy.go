package scaffold

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/chainkit-labs/hardhat-create-app/internal/platform"
)

// excludedNames are skipped when copying a template tree.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// CopyTree copies every file and directory under root in src into dest,
// creating directories as needed and overwriting existing files. It returns
// the slash-separated relative paths of the files written.
func CopyTree(src fs.FS, root, dest string) ([]string, error) {
	if err := os.MkdirAll(dest, platform.DirPerm); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dest, err)
	}

	var written []string
	err := fs.WalkDir(src, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != root && shouldExclude(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := relPath(root, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, filepath.FromSlash(rel))

		if d.IsDir() {
			if err := os.MkdirAll(target, platform.DirPerm); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			return nil
		}
		// Skip symlinks and other special files.
		if !d.Type().IsRegular() {
			return nil
		}

		if err := copyFile(src, p, target, d); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("copying templates from %s to %s: %w", root, dest, err)
	}
	return written, nil
}

// copyFile writes the source bytes to target, replacing any existing file.
func copyFile(src fs.FS, p, target string, d fs.DirEntry) error {
	data, err := fs.ReadFile(src, p)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", p, err)
	}

	mode := platform.FilePerm
	if info, err := d.Info(); err == nil && info.Mode().Perm()&0111 != 0 {
		mode = platform.ExecPerm
	}

	if info, err := os.Lstat(target); err == nil && info.IsDir() {
		return fmt.Errorf("cannot overwrite directory %s with template file %s", target, p)
	}

	if err := os.WriteFile(target, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

// relPath returns p relative to root as a slash path ("." for root itself).
func relPath(root, p string) (string, error) {
	if root == "." {
		return p, nil
	}
	if p == root {
		return ".", nil
	}
	prefix := strings.TrimSuffix(root, "/") + "/"
	if !strings.HasPrefix(p, prefix) {
		return "", fmt.Errorf("%s is outside %s", p, root)
	}
	return path.Clean(strings.TrimPrefix(p, prefix)), nil
}

// shouldExclude returns true if the name should be excluded during copy.
func shouldExclude(name string) bool {
	return excludedNames[name]
}
