package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chainkit-labs/hardhat-create-app/internal/pkgmgr"
)

// Variant selects the package-manager ecosystem of a generated project.
type Variant string

const (
	NPM  Variant = pkgmgr.NPM
	Yarn Variant = pkgmgr.Yarn
)

func (v Variant) String() string { return string(v) }

// ParseVariant accepts "npm" or "yarn", case-insensitively.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case NPM, Yarn:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown variant %q (supported: %s, %s)", ErrInvalidArgument, s, NPM, Yarn)
	}
}

// Request is a validated generation request.
type Request struct {
	// Name is the project name as given by the user.
	Name string
	// Root is the absolute project directory.
	Root    string
	Variant Variant
}

// NewRequest validates name and resolves it against the current directory.
func NewRequest(name string, variant Variant) (*Request, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: No project name specified", ErrInvalidArgument)
	}
	if _, err := ParseVariant(string(variant)); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %q: %v", ErrInvalidArgument, name, err)
	}
	return &Request{Name: name, Root: root, Variant: variant}, nil
}
