package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/ecotrack/internal/engine"
	"github.com/rshade/ecotrack/internal/logging"
)

// deviceFile accepts either a bare list or a document with a devices key.
type deviceFile struct {
	Devices []rawDevice `yaml:"devices"`
}

type rawDevice struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	DisplayName string `yaml:"display_name"`
}

// LoadDevices reads a YAML or JSON device catalogue.
func LoadDevices(ctx context.Context, path string) ([]engine.DeviceDescriptor, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "load_devices").
		Str("path", path).
		Msg("loading device catalogue")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading device file: %w", err)
	}

	devices, err := ReadDevices(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().
		Str("component", "ingest").
		Int("device_count", len(devices)).
		Msg("device catalogue parsed successfully")

	return devices, nil
}

// ReadDevices parses a device catalogue. JSON is read by the YAML decoder.
// Device types are matched case-insensitively; unknown types become other.
// Empty or duplicate ids are rejected.
func ReadDevices(r io.Reader) ([]engine.DeviceDescriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading devices: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var node yaml.Node
	if unmarshalErr := yaml.Unmarshal(data, &node); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, unmarshalErr)
	}

	var raw []rawDevice
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		err = node.Content[0].Decode(&raw)
	} else {
		var doc deviceFile
		err = node.Decode(&doc)
		raw = doc.Devices
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	seen := make(map[string]bool, len(raw))
	devices := make([]engine.DeviceDescriptor, 0, len(raw))
	for i, d := range raw {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: device %d has no id", ErrMalformedInput, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate device id %q", ErrMalformedInput, id)
		}
		seen[id] = true

		name := strings.TrimSpace(d.DisplayName)
		if name == "" {
			name = id
		}
		devices = append(devices, engine.DeviceDescriptor{
			ID:          id,
			Type:        engine.ParseDeviceType(d.Type),
			DisplayName: name,
		})
	}
	return devices, nil
}
