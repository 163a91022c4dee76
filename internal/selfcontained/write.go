package selfcontained

import (
	"fmt"

	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/vfs"
)

// FileName returns "<tag>.js" for the default mode and "<tag>.<mode>.js" otherwise.
func FileName(tag, mode string) string {
	if mode == component.DefaultMode {
		return tag + ".js"
	}
	return tag + "." + mode + ".js"
}

// WriteError is a failed artifact write.
type WriteError struct {
	Component string
	Mode      string
	Path      string
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s (component %s, mode %s): %v", e.Path, e.Component, e.Mode, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteArtifact writes code as the artifact of cmp for mode under target,
// replacing any existing file. It returns the artifact path.
func WriteArtifact(fs vfs.FS, target component.OutputTarget, cmp *component.Component, code, mode string) (string, error) {
	path := fs.Join(target.Dir, FileName(cmp.Tag, mode))
	if err := fs.WriteFile(path, code); err != nil {
		return path, &WriteError{Component: cmp.Tag, Mode: mode, Path: path, Err: err}
	}
	return path, nil
}
