package pkgjson

import "fmt"

// Script is one entry of the "scripts" object.
type Script struct {
	Name    string
	Command string
}

// MergeMode decides what happens to scripts already present in the file.
type MergeMode int

const (
	// MergeKeep adds or overwrites the given scripts and keeps the others.
	MergeKeep MergeMode = iota
	// MergeReplace drops every existing script before adding the given ones.
	MergeReplace
)

// SetScripts writes scripts into the document's "scripts" object.
func (d *Document) SetScripts(scripts []Script, mode MergeMode) error {
	obj := NewDocument()
	if mode == MergeKeep {
		existing, err := d.Object("scripts")
		if err != nil {
			return err
		}
		obj = existing
	}
	for _, s := range scripts {
		if err := obj.Set(s.Name, s.Command); err != nil {
			return err
		}
	}
	return d.SetObject("scripts", obj)
}

// Scripts returns the "scripts" object as a map.
func (d *Document) Scripts() (map[string]string, error) {
	scripts := map[string]string{}
	if _, err := d.Get("scripts", &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

// UpdateScripts loads path, applies SetScripts and saves the result.
func UpdateScripts(path string, scripts []Script, mode MergeMode) error {
	doc, err := Load(path)
	if err != nil {
		return err
	}
	if err := doc.SetScripts(scripts, mode); err != nil {
		return fmt.Errorf("updating scripts in %s: %w", path, err)
	}
	return doc.Save(path)
}
