package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Anton2181/partykajson/internal/domain"
)

// ErrInvalidInput wraps every validation failure reported by Load.
var ErrInvalidInput = errors.New("invalid input")

// ConvertTasks turns validated task rows into domain tasks. Rows without a
// repeat_index are numbered 1, 2, ... in input order within their
// (week, day, name) bucket, skipping numbers already taken explicitly.
func ConvertTasks(rows []TaskImport) []domain.Task {
	type bucket struct {
		week int
		day  string
		name string
	}
	taken := make(map[bucket]map[int]bool)
	for _, r := range rows {
		if r.RepeatIndex == nil {
			continue
		}
		k := bucket{r.Week, strings.ToLower(deref(r.Day)), r.Name}
		if taken[k] == nil {
			taken[k] = make(map[int]bool)
		}
		taken[k][*r.RepeatIndex] = true
	}

	next := make(map[bucket]int)
	tasks := make([]domain.Task, 0, len(rows))
	for _, r := range rows {
		t := domain.Task{
			ID:         r.ID,
			Name:       r.Name,
			Week:       r.Week,
			Day:        strings.TrimSpace(deref(r.Day)),
			TimeSlot:   deref(r.TimeSlot),
			Assignee:   strings.TrimSpace(deref(r.Assignee)),
			Candidates: dedupe(r.Candidates),
		}
		if r.Effort != nil {
			t.Effort = *r.Effort
		}
		if r.RepeatIndex != nil {
			t.RepeatIndex = *r.RepeatIndex
		} else {
			k := bucket{r.Week, strings.ToLower(t.Day), r.Name}
			n := next[k] + 1
			for taken[k][n] {
				n++
			}
			next[k] = n
			t.RepeatIndex = n
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// ConvertRoster turns validated roster rows into team members.
func ConvertRoster(rows []MemberImport) []domain.TeamMember {
	out := make([]domain.TeamMember, 0, len(rows))
	for _, r := range rows {
		role, _ := domain.ParseRole(r.Role)
		out = append(out, domain.TeamMember{Name: r.Name, Role: role, Both: r.Both})
	}
	return out
}

// Inputs is everything the aggregator needs.
type Inputs struct {
	Tasks    []domain.Task
	Families []domain.Family
	Members  []domain.TeamMember
}

// Paths names the three input files.
type Paths struct {
	Tasks    string
	Families string
	Roster   string
}

// Load reads, validates and converts all three inputs. Validation problems
// from every file are reported together, wrapped in ErrInvalidInput.
func Load(p Paths) (*Inputs, error) {
	taskRows, err := LoadTasks(p.Tasks)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	families, err := LoadFamilies(p.Families)
	if err != nil {
		return nil, fmt.Errorf("loading families: %w", err)
	}
	memberRows, err := LoadRoster(p.Roster)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}

	var errs []error
	errs = append(errs, ValidateTasks(taskRows)...)
	errs = append(errs, ValidateFamilies(families)...)
	errs = append(errs, ValidateRoster(memberRows)...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}

	return &Inputs{
		Tasks:    ConvertTasks(taskRows),
		Families: families,
		Members:  ConvertRoster(memberRows),
	}, nil
}

// LoadGroups reads a groups file written by the aggregate command.
func LoadGroups(path string) ([]domain.Group, error) {
	var groups []domain.Group
	if err := decodeFile(path, &groups); err != nil {
		return nil, fmt.Errorf("parsing groups file: %w", err)
	}
	if _, err := domain.NewRegistry(groups); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return groups, nil
}

// LoadMembers reads, validates and converts a roster file on its own.
func LoadMembers(path string) ([]domain.TeamMember, error) {
	rows, err := LoadRoster(path)
	if err != nil {
		return nil, err
	}
	if errs := ValidateRoster(rows); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return ConvertRoster(rows), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
