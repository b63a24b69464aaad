package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ScenarioFile is the scenario file name inside a project directory.
const ScenarioFile = "scenario.yaml"

// Load reads a scenario from a YAML file. Fields the file omits keep the
// values of Default.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	return s, nil
}

// LoadProject loads a scenario from a project directory.
// It looks for scenario.yaml in the given directory and resolves a relative
// data_root against that directory. Without a data_root the tables are
// looked up in the project directory itself.
func LoadProject(projectDir string) (*Scenario, error) {
	s, err := Load(filepath.Join(projectDir, ScenarioFile))
	if err != nil {
		return nil, err
	}
	switch {
	case s.DataRoot == "":
		s.DataRoot = filepath.Clean(projectDir)
	case !filepath.IsAbs(s.DataRoot):
		s.DataRoot = filepath.Join(projectDir, s.DataRoot)
	}
	return s, nil
}
