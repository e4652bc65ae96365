// Package model bundles the provider templates: a serverless manifest and a
// TypeScript request handler per provider.
package model

import (
	"embed"

	"github.com/pkg/errors"
)

//go:embed aws.yml google.yml aws.ts google.ts
var files embed.FS

// Manifest returns the serverless manifest template for provider.
func Manifest(provider string) ([]byte, error) {
	return read(provider + ".yml")
}

// Handler returns the TypeScript handler template for provider.
func Handler(provider string) ([]byte, error) {
	return read(provider + ".ts")
}

func read(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "no template %s", name)
	}
	return data, nil
}
