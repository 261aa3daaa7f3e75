package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Anton2181/partykajson/internal/domain"
)

// Files names the outputs written by Save.
type Files struct {
	Assignments string
	Penalties   string
	ByPerson    string
}

// Save writes <prefix>_assignments.json (keyed by group id),
// <prefix>_penalties.json and <prefix>_assignments_by_person.json into dir.
func Save(dir, prefix string, assignments []domain.Assignment, penalties []domain.PenaltyRecord, rep *Report) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("creating output directory: %w", err)
	}
	if prefix != "" {
		prefix += "_"
	}
	files := Files{
		Assignments: filepath.Join(dir, prefix+"assignments.json"),
		Penalties:   filepath.Join(dir, prefix+"penalties.json"),
		ByPerson:    filepath.Join(dir, prefix+"assignments_by_person.json"),
	}

	if penalties == nil {
		penalties = []domain.PenaltyRecord{}
	}
	byPerson := make(map[string]Person, len(rep.People))
	for _, p := range rep.People {
		byPerson[p.Name] = p
	}

	writes := []struct {
		path string
		v    any
	}{
		{files.Assignments, domain.AssignmentsToMap(assignments)},
		{files.Penalties, penalties},
		{files.ByPerson, byPerson},
	}
	for _, w := range writes {
		if err := writeJSON(w.path, w.v); err != nil {
			return Files{}, err
		}
	}
	return files, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
