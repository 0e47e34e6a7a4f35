package cli

import (
	"errors"
	"io/fs"

	"github.com/soypat/gluniform"
	"github.com/soypat/gluniform/gluniformaux"
)

// loadProject reads the project file and loads its variables into a new set.
// Errors are written to the formatter and returned as an ExitError.
func loadProject(formatter *OutputFormatter, filename string) (*gluniformaux.Project, *gluniform.Set, error) {
	project, err := gluniformaux.LoadProjectFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, formatter.fail(ExitCommandError, ErrCodeNotFound, "project file not found: "+filename, err)
	} else if err != nil {
		return nil, nil, formatter.fail(ExitCommandError, ErrCodeDecode, "reading project "+filename, err)
	}
	var set gluniform.Set
	err = project.Load(&set)
	if err != nil {
		return nil, nil, formatter.fail(ExitCommandError, ErrCodeLoad, "loading variables", err)
	}
	formatter.VerboseLog("Loaded %d variable(s) from %s", set.Len(), filename)
	return project, &set, nil
}
