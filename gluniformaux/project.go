package gluniformaux

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/soypat/gluniform"
	"gopkg.in/yaml.v3"
)

// Project is a YAML description of a set of variables and optionally the
// fragment shader code that uses them. Only formula text is stored.
type Project struct {
	// Fragment is shader code in the format expected by [UIConfig].
	Fragment  string            `yaml:"fragment,omitempty"`
	Variables []ProjectVariable `yaml:"variables"`
}

// ProjectVariable describes one variable of a [Project].
type ProjectVariable struct {
	Name string `yaml:"name"`
	// Type is the GLSL type of the variable, i.e. "vec3". Defaults to float.
	Type string `yaml:"type,omitempty"`
	// Values are the cell formulas or, for compositions, the operand names.
	Values  []string `yaml:"values"`
	Compose bool     `yaml:"compose,omitempty"`
}

// DecodeProject reads a YAML project from r.
func DecodeProject(r io.Reader) (*Project, error) {
	var p Project
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&p)
	if err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}
	return &p, nil
}

// LoadProjectFile reads the YAML project file with said filename.
func LoadProjectFile(filename string) (*Project, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return DecodeProject(fp)
}

// Config returns the load configuration of the variable.
func (pv ProjectVariable) Config() (gluniform.LoadConfig, error) {
	typ := pv.Type
	if typ == "" {
		typ = "float"
	}
	elem, shape, err := gluniform.ParseGLSLType(typ)
	if err != nil {
		return gluniform.LoadConfig{}, fmt.Errorf("variable %q: %w", pv.Name, err)
	}
	return gluniform.LoadConfig{
		Name:        pv.Name,
		Values:      pv.Values,
		Elem:        elem,
		Shape:       shape,
		ExactType:   pv.Type,
		Composition: pv.Compose,
	}, nil
}

// Load loads every variable of the project into set. Variables that fail to
// load are skipped and their errors returned joined. Invalid formulas are
// not load errors, see [gluniform.Set.Err].
func (p *Project) Load(set *gluniform.Set) error {
	var errs []error
	for _, pv := range p.Variables {
		cfg, err := pv.Config()
		if err == nil {
			_, err = set.Load(cfg)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ProjectFromSet returns a project describing the variables of set in name order.
func ProjectFromSet(set *gluniform.Set, fragment string) *Project {
	p := &Project{Fragment: fragment}
	for _, name := range set.Names() {
		v, _ := set.Lookup(name)
		pv := ProjectVariable{Name: name, Type: v.GLSLType(), Compose: v.IsComposition()}
		if v.IsComposition() {
			pv.Values = append(pv.Values, v.References()...)
		} else {
			for i := range v.NumCells() {
				src, _ := v.Cell(i)
				pv.Values = append(pv.Values, src)
			}
		}
		p.Variables = append(p.Variables, pv)
	}
	return p
}

// Encode writes the project as YAML to w.
func (p *Project) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(p)
	if err != nil {
		return err
	}
	return enc.Close()
}
