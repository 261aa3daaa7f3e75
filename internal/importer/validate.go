package importer

import (
	"fmt"
	"math"

	"github.com/Anton2181/partykajson/internal/domain"
)

// ValidateTasks checks the tasks file before conversion and returns every
// problem found.
func ValidateTasks(tasks []TaskImport) []error {
	var errs []error
	ids := make(map[string]int, len(tasks))

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if first, dup := ids[t.ID]; dup {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q (first at tasks[%d])", prefix, t.ID, first))
		} else {
			ids[t.ID] = i
		}
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if t.Week < 0 {
			errs = append(errs, fmt.Errorf("%s.week must be non-negative, got %d", prefix, t.Week))
		}
		if t.Day != nil && *t.Day != "" && !domain.ValidDay(*t.Day) {
			errs = append(errs, fmt.Errorf("%s.day: unknown day %q", prefix, *t.Day))
		}
		if t.Effort != nil && (*t.Effort < 0 || math.IsNaN(*t.Effort) || math.IsInf(*t.Effort, 0)) {
			errs = append(errs, fmt.Errorf("%s.effort must be a non-negative number", prefix))
		}
		if t.RepeatIndex != nil && *t.RepeatIndex < 1 {
			errs = append(errs, fmt.Errorf("%s.repeat_index must be at least 1", prefix))
		}
		for j, c := range t.Candidates {
			if c == "" {
				errs = append(errs, fmt.Errorf("%s.candidates[%d] is empty", prefix, j))
			}
		}
	}
	return errs
}

// ValidateFamilies checks family definitions. Group definition names must
// be unique across all families because exclusions refer to them by name.
func ValidateFamilies(families []domain.Family) []error {
	var errs []error
	names := make(map[string]string)

	for i, fam := range families {
		prefix := fmt.Sprintf("families[%d]", i)
		if fam.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		for j, def := range fam.Groups {
			gp := fmt.Sprintf("%s.groups[%d]", prefix, j)
			if def.Name == "" {
				errs = append(errs, fmt.Errorf("%s.name is required", gp))
			} else if other, dup := names[def.Name]; dup {
				errs = append(errs, fmt.Errorf("%s.name: %q already defined in family %q", gp, def.Name, other))
			} else {
				names[def.Name] = fam.Name
			}
			if len(def.Tasks) == 0 {
				errs = append(errs, fmt.Errorf("%s.tasks must not be empty", gp))
			}
			if def.LeaderCount < 0 || def.FollowerCount < 0 || def.AnyCount < 0 {
				errs = append(errs, fmt.Errorf("%s: group counts must be non-negative", gp))
			}
			for k, ex := range def.Exclusive {
				if ex == def.Name {
					errs = append(errs, fmt.Errorf("%s.exclusive[%d]: group cannot exclude itself", gp, k))
				}
			}
		}
	}
	return errs
}

// ValidateRoster checks team members.
func ValidateRoster(members []MemberImport) []error {
	var errs []error
	seen := make(map[string]bool, len(members))

	for i, m := range members {
		prefix := fmt.Sprintf("roster[%d]", i)
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if seen[m.Name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate member %q", prefix, m.Name))
		}
		seen[m.Name] = true
		if _, ok := domain.ParseRole(m.Role); !ok {
			errs = append(errs, fmt.Errorf("%s.role: invalid value %q", prefix, m.Role))
		}
	}
	return errs
}
