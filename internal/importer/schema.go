package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Anton2181/partykajson/internal/domain"
	"gopkg.in/yaml.v3"
)

// TaskImport is one row of the tasks file. Optional fields are pointers so
// validation can tell missing from zero.
type TaskImport struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Week        int      `json:"week"`
	Day         *string  `json:"day,omitempty"`
	TimeSlot    *string  `json:"time_slot,omitempty"`
	Assignee    *string  `json:"assignee,omitempty"`
	Candidates  []string `json:"candidates"`
	Effort      *float64 `json:"effort,omitempty"`
	RepeatIndex *int     `json:"repeat_index,omitempty"`
}

// MemberImport is one roster entry.
type MemberImport struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
	Both bool   `json:"both" yaml:"both"`
}

// LoadTasks reads a JSON array of tasks.
func LoadTasks(path string) ([]TaskImport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tasks []TaskImport
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parsing tasks file: %w", err)
	}
	return tasks, nil
}

// LoadFamilies reads family definitions from JSON or YAML, chosen by
// extension.
func LoadFamilies(path string) ([]domain.Family, error) {
	var families []domain.Family
	if err := decodeFile(path, &families); err != nil {
		return nil, fmt.Errorf("parsing families file: %w", err)
	}
	return families, nil
}

// LoadRoster reads team members from JSON or YAML, chosen by extension.
func LoadRoster(path string) ([]MemberImport, error) {
	var members []MemberImport
	if err := decodeFile(path, &members); err != nil {
		return nil, fmt.Errorf("parsing roster file: %w", err)
	}
	return members, nil
}

// WriteFamilies writes families back in the format implied by path.
func WriteFamilies(path string, families []domain.Family) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(families)
	} else {
		data, err = json.MarshalIndent(families, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding families: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
