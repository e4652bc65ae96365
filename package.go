package spadeploy

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// PackageFile is the generated npm package descriptor.
const PackageFile = "package.json"

// Versions of the request handler's npm dependencies.
var (
	RuntimeDependencies = map[string]string{
		"reflect-metadata": "^0.1.13",
		"serverx-ts":       "^3.0.0",
	}
	pluginVersions = map[string]string{
		DomainManagerPlugin:                "^7.0.0",
		"serverless-google-cloudfunctions": "^4.6.0",
	}
)

// PackageJSON describes the output directory as an npm package so the
// installer fetches what the compiled handler requires.
type PackageJSON struct {
	Name            string            `json:"name"`
	Private         bool              `json:"private"`
	Main            string            `json:"main"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// NewPackageJSON returns the package descriptor for a deployment whose
// manifest registers plugins.
func NewPackageJSON(d Deployment, plugins []string) PackageJSON {
	pkg := PackageJSON{
		Name:         d.Common().Service,
		Private:      true,
		Main:         DriverFile,
		Dependencies: make(map[string]string, len(RuntimeDependencies)),
	}
	for name, version := range RuntimeDependencies {
		pkg.Dependencies[name] = version
	}
	for _, p := range plugins {
		if pkg.DevDependencies == nil {
			pkg.DevDependencies = map[string]string{}
		}
		version, ok := pluginVersions[p]
		if !ok {
			version = "*"
		}
		pkg.DevDependencies[p] = version
	}
	return pkg
}

func (p PackageJSON) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding package.json")
	}
	return append(data, '\n'), nil
}
