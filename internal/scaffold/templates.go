package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

//go:embed all:files
var templateFS embed.FS

const (
	templatesRoot = "files"
	commonLayer   = "common"
)

// Result holds the outcome of an overlay.
type Result struct {
	OutputDir string
	// Files are slash-separated paths relative to OutputDir, in copy order.
	Files []string
	// Source describes where the templates came from.
	Source string
}

// Layers returns the embedded template layers applied for variant, in order.
// The common layer always comes first; a variant layer is added when the
// binary ships one.
func Layers(variant string) []string {
	layers := []string{path.Join(templatesRoot, commonLayer)}
	variantDir := path.Join(templatesRoot, variant)
	if info, err := fs.Stat(templateFS, variantDir); err == nil && info.IsDir() {
		layers = append(layers, variantDir)
	}
	return layers
}

// Overlay copies the template tree for variant into dest. When overrideDir is
// set, that directory is copied instead of the embedded layers.
func Overlay(variant, dest, overrideDir string) (*Result, error) {
	res := &Result{OutputDir: dest}

	if overrideDir != "" {
		info, err := os.Stat(overrideDir)
		if err != nil {
			return nil, fmt.Errorf("template directory %s: %w", overrideDir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("template directory %s is not a directory", overrideDir)
		}
		files, err := CopyTree(os.DirFS(overrideDir), ".", dest)
		if err != nil {
			return nil, err
		}
		res.Files = files
		res.Source = overrideDir
		return res, nil
	}

	for _, layer := range Layers(variant) {
		files, err := CopyTree(templateFS, layer, dest)
		if err != nil {
			return nil, err
		}
		res.Files = appendUnique(res.Files, files...)
	}
	res.Source = "embedded:" + variant
	return res, nil
}

// TemplateFiles lists the relative paths the embedded overlay writes for
// variant.
func TemplateFiles(variant string) ([]string, error) {
	var files []string
	for _, layer := range Layers(variant) {
		err := fs.WalkDir(templateFS, layer, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, relErr := relPath(layer, p)
			if relErr != nil {
				return relErr
			}
			files = appendUnique(files, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("listing template layer %s: %w", layer, err)
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no embedded templates")
	}
	return files, nil
}

// ReadTemplate returns the embedded content written at rel for variant. A
// variant layer file shadows the common one.
func ReadTemplate(variant, rel string) ([]byte, error) {
	layers := Layers(variant)
	for i := len(layers) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(templateFS, path.Join(layers[i], rel))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading template %s: %w", rel, err)
		}
	}
	return nil, fmt.Errorf("template %s: %w", rel, fs.ErrNotExist)
}

func appendUnique(list []string, items ...string) []string {
	seen := make(map[string]bool, len(list))
	for _, s := range list {
		seen[s] = true
	}
	for _, s := range items {
		if !seen[s] {
			list = append(list, s)
			seen[s] = true
		}
	}
	return list
}
