package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/diag"
)

// Project is a loaded stencil project with every path made absolute.
type Project struct {
	File   string
	Root   string
	Config Config

	SourcePath   string
	Source       string
	ManifestPath string
	Targets      []component.OutputTarget
	Components   []*component.Component
	// StyleFiles lists every stylesheet referenced by the project.
	StyleFiles []string
	// Diagnostics holds load-time problems that do not abort loading.
	Diagnostics []diag.Diagnostic
}

// Load finds stencil.toml starting at startDir and loads the project.
func Load(startDir string) (*Project, error) {
	path, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the project described by the stencil.toml at path. Stylesheets
// that cannot be read are kept as missing styles; an unreadable bundle source
// is an error.
func LoadFile(path string) (*Project, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(path)
	p := &Project{
		File:         path,
		Root:         root,
		Config:       cfg,
		SourcePath:   resolve(root, cfg.Build.Source),
		ManifestPath: resolve(root, cfg.Build.Manifest),
	}

	src, err := os.ReadFile(p.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("%s: [build].source: %w", path, err)
	}
	p.Source = string(src)

	for _, out := range cfg.Outputs {
		p.Targets = append(p.Targets, component.OutputTarget{
			Type: strings.TrimSpace(out.Type),
			Dir:  resolve(root, out.Dir),
		})
	}

	for _, cc := range cfg.Components {
		cmp := &component.Component{Tag: cc.Tag}
		for _, mode := range cc.SortedModes() {
			file := resolve(root, cc.Styles[mode])
			p.StyleFiles = append(p.StyleFiles, file)
			st := component.Style{Mode: mode}
			data, err := os.ReadFile(file)
			if err != nil {
				st.Missing = true
				p.Diagnostics = append(p.Diagnostics,
					diag.NewWarning(diag.IOReadStyle, err.Error()).
						WithMode(mode).
						WithComponent(cc.Tag).
						WithOrigin(diag.Origin{File: path}))
			} else {
				st.Text = string(data)
			}
			cmp.Styles = append(cmp.Styles, st)
		}
		p.Components = append(p.Components, cmp)
	}
	return p, nil
}

// WatchPaths returns the files whose changes require a rebuild.
func (p *Project) WatchPaths() []string {
	paths := make([]string, 0, len(p.StyleFiles)+2)
	paths = append(paths, p.File, p.SourcePath)
	paths = append(paths, p.StyleFiles...)
	return paths
}
