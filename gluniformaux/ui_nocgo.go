//go:build tinygo || !cgo

package gluniformaux

import (
	"errors"

	"github.com/soypat/gluniform"
)

func ui(set *gluniform.Set, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}

func compileFragment(set *gluniform.Set, cfg UIConfig) error {
	return errors.New("require cgo for shader compilation")
}
