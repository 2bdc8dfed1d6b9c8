package compose

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// File is the subset of a docker compose file devrig cares about: which
// services exist and which ports they publish.
type File struct {
	Services map[string]Service
}

// Service is a single service entry from the compose file.
type Service struct {
	Image string
	Ports []string
}

// rawFile mirrors the compose YAML layout for decoding.
type rawFile struct {
	Services map[string]rawService `yaml:"services"`
}

type rawService struct {
	Image string   `yaml:"image"`
	Ports []string `yaml:"ports"`
}

// LoadFile parses a compose file. A missing file returns a nil File and no
// error: the recipes may target a compose file that is generated later, and
// service validation is then skipped.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("compose file %s: %w", path, err)
	}

	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("compose file %s: %w", path, err)
	}

	f := &File{Services: make(map[string]Service, len(raw.Services))}
	for name, svc := range raw.Services {
		f.Services[name] = Service{Image: svc.Image, Ports: svc.Ports}
	}
	return f, nil
}

// HasService reports whether the compose file declares the named service.
func (f *File) HasService(name string) bool {
	if f == nil {
		return false
	}
	_, ok := f.Services[name]
	return ok
}

// ServiceNames returns the declared service names in lexical order.
func (f *File) ServiceNames() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.Services))
	for name := range f.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PublishedPorts returns every port mapping declared by the named service.
func (f *File) PublishedPorts(service string) []string {
	if f == nil {
		return nil
	}
	return f.Services[service].Ports
}

// ValidateService returns an error naming the known services when the
// requested one is not declared. A nil File validates everything, since no
// compose file was found to check against.
func (f *File) ValidateService(name string) error {
	if f == nil || f.HasService(name) {
		return nil
	}
	return fmt.Errorf("service %q is not declared in the compose file (known services: %v)", name, f.ServiceNames())
}
