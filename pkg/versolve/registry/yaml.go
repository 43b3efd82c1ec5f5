package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/versolve/versolve/pkg/versolve"
	"github.com/versolve/versolve/pkg/versolve/version"
)

// registryFile is the YAML schema for fixture registries:
//
//	packages:
//	  root:
//	    "1.0.0":
//	      foo: "^1.0.0"
//	  foo:
//	    "1.0.0": {}
type registryFile struct {
	Packages map[string]map[string]map[string]string `yaml:"packages"`
}

// Load reads a fixture registry from YAML.
func Load(r io.Reader) (*Fixture, error) {
	var file registryFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	fixture := NewFixture()
	for pkg, versions := range file.Packages {
		for v, deps := range versions {
			if _, err := version.Parse(v); err != nil {
				return nil, fmt.Errorf("registry package %q: %w", pkg, err)
			}
			converted := make(map[versolve.Package]string, len(deps))
			for dep, constraint := range deps {
				if _, err := version.ParseConstraint(constraint); err != nil {
					return nil, fmt.Errorf("registry package %q %s: %w", pkg, v, err)
				}
				converted[versolve.Package(dep)] = constraint
			}
			fixture.Add(versolve.Package(pkg), v, converted)
		}
	}
	return fixture, nil
}

// LoadFile reads a fixture registry from a YAML file.
func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening registry file: %w", err)
	}
	defer f.Close()
	return Load(f)
}
