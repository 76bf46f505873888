package device

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileDevice is one terminal entry of the devices file.
type FileDevice struct {
	Name string `yaml:"name"`
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type devicesFile struct {
	Devices []FileDevice `yaml:"devices"`
}

// LoadFile reads terminals from a YAML devices file. ${VAR} placeholders are
// replaced from the environment before parsing.
func LoadFile(path string) ([]FileDevice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading devices file: %w", err)
	}

	var parsed devicesFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &parsed); err != nil {
		return nil, fmt.Errorf("error parsing devices file: %w", err)
	}

	for i, d := range parsed.Devices {
		if d.IP == "" {
			return nil, fmt.Errorf("devices file entry %d: ip is required", i)
		}
	}
	return parsed.Devices, nil
}
