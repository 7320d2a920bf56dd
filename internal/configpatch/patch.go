package configpatch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chainkit-labs/hardhat-create-app/internal/platform"
)

// ErrAnchorMissed is returned by strict application when an anchor is absent.
var ErrAnchorMissed = errors.New("patch anchor not found")

// Patch replaces the first occurrence of Anchor with Replacement.
type Patch struct {
	Name        string
	Anchor      string
	Replacement string
}

// Report records what happened while applying a patch list.
type Report struct {
	Applied []string
	Missed  []Patch
}

// OK reports whether every anchor was found.
func (r Report) OK() bool { return len(r.Missed) == 0 }

// Apply runs patches against text in order and returns the result.
func Apply(text string, patches []Patch) string {
	out, _ := ApplyWithReport(text, patches)
	return out
}

// ApplyWithReport is Apply that also reports which anchors were missing.
func ApplyWithReport(text string, patches []Patch) (string, Report) {
	var rep Report
	for _, p := range patches {
		idx := strings.Index(text, p.Anchor)
		if p.Anchor == "" || idx < 0 {
			rep.Missed = append(rep.Missed, p)
			continue
		}
		text = text[:idx] + p.Replacement + text[idx+len(p.Anchor):]
		rep.Applied = append(rep.Applied, p.Name)
	}
	return text, rep
}

// ApplyFile patches the file at path in place. A missing file is returned as
// an error wrapping fs.ErrNotExist. With strict set, any missed anchor aborts
// before the file is written and the error wraps ErrAnchorMissed.
func ApplyFile(path string, patches []Patch, strict bool) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("reading %s: %w", path, err)
	}

	out, rep := ApplyWithReport(string(data), patches)
	if strict && !rep.OK() {
		return rep, fmt.Errorf("%s: %w: %s", path, ErrAnchorMissed, missedNames(rep.Missed))
	}

	if err := platform.WriteFileAtomic(path, []byte(out), platform.ModeOf(path, platform.FilePerm)); err != nil {
		return rep, err
	}
	return rep, nil
}

func missedNames(patches []Patch) string {
	names := make([]string, len(patches))
	for i, p := range patches {
		names[i] = fmt.Sprintf("%s (anchor %q)", p.Name, p.Anchor)
	}
	return strings.Join(names, ", ")
}
