//go:build !tinygo && cgo

package gluniformaux

import (
	"bytes"
	"fmt"

	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gluniform"
)

func compileFragment(set *gluniform.Set, cfg UIConfig) error {
	_, terminate, err := glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "compile",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	if err != nil {
		return err
	}
	defer terminate()
	var buf bytes.Buffer
	err = writeCombinedProgram(&buf, set, cfg)
	if err != nil {
		return err
	}
	combined, err := glgl.ParseCombined(&buf)
	if err != nil {
		return err
	}
	prog, err := glgl.CompileProgram(combined)
	if err != nil {
		return fmt.Errorf("%s\n\n%w", combined.Fragment, err)
	}
	prog.Delete()
	return nil
}
