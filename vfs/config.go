package vfs

import (
	"fmt"

	"github.com/driftworks/rescache/codec"
)

// MountConfig is a declarative mount list, typically decoded from a config
// file shipped next to the binary.
type MountConfig struct {
	Mounts []MountSpec `cbor:"mounts" msgpack:"mounts" json:"mounts"`
}

// MountSpec describes one mount point. Kind selects the backend: "host"
// roots a HostBackend at Root, "memory" creates an empty MemoryBackend.
type MountSpec struct {
	Name string `cbor:"name" msgpack:"name" json:"name"`
	Kind string `cbor:"kind" msgpack:"kind" json:"kind"`
	Root string `cbor:"root,omitempty" msgpack:"root,omitempty" json:"root,omitempty"`
}

// ParseMountConfig decodes raw config bytes with the given codec.
func ParseMountConfig(data []byte, c codec.Codec[MountConfig]) (MountConfig, error) {
	return c.Decode(data)
}

// Apply mounts every spec into t. It stops at the first failure and reports
// which spec could not be applied; earlier mounts stay in place.
func (cfg MountConfig) Apply(t *MountTable) error {
	for _, spec := range cfg.Mounts {
		var backend Backend
		switch spec.Kind {
		case "host":
			hb, err := NewHostBackend(spec.Root)
			if err != nil {
				return fmt.Errorf("mount %q: %w", spec.Name, err)
			}
			backend = hb
		case "memory":
			backend = NewMemoryBackend()
		default:
			return fmt.Errorf("mount %q: unknown backend kind %q", spec.Name, spec.Kind)
		}
		if !t.Mount(spec.Name, backend) {
			return fmt.Errorf("mount %q: name rejected or already mounted", spec.Name)
		}
	}
	return nil
}
