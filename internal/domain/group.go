package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// TaskRef points at a constituent task of a group. It serialises as a
// two-element array [id, name].
type TaskRef struct {
	ID   string
	Name string
}

func (r TaskRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{r.ID, r.Name})
}

func (r *TaskRef) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("task ref: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("task ref: expected [id, name], got %d elements", len(pair))
	}
	r.ID, r.Name = pair[0], pair[1]
	return nil
}

func (r TaskRef) MarshalYAML() (any, error) {
	return []string{r.ID, r.Name}, nil
}

func (r *TaskRef) UnmarshalYAML(node *yaml.Node) error {
	var pair []string
	if err := node.Decode(&pair); err != nil {
		return fmt.Errorf("task ref: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("task ref: expected [id, name], got %d elements", len(pair))
	}
	r.ID, r.Name = pair[0], pair[1]
	return nil
}

// Group is the unit of assignment: one or more raw tasks that a single
// person covers. Groups are produced by the aggregator and read-only after.
type Group struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Family      string    `json:"family" yaml:"family"`
	Role        Role      `json:"role" yaml:"role"`
	Week        int       `json:"week" yaml:"week"`
	Day         string    `json:"day,omitempty" yaml:"day,omitempty"`
	RepeatIndex int       `json:"repeat_index" yaml:"repeat_index"`
	Tasks       []TaskRef `json:"tasks" yaml:"tasks"`
	TaskCount   int       `json:"task_count" yaml:"task_count"`
	Effort      float64   `json:"effort" yaml:"effort"`

	CandidateList                 []string `json:"candidate_list" yaml:"candidate_list"`
	FilteredCandidateList         []string `json:"filtered_candidate_list" yaml:"filtered_candidate_list"`
	PriorityCandidateList         []string `json:"priority_candidate_list" yaml:"priority_candidate_list"`
	FilteredPriorityCandidateList []string `json:"filtered_priority_candidate_list" yaml:"filtered_priority_candidate_list"`

	ExclusiveGroups     []string `json:"exclusive_groups" yaml:"exclusive_groups"`
	CooldownGroups      []string `json:"cooldown_groups" yaml:"cooldown_groups"`
	IntraCooldownGroups []string `json:"intra_cooldown_groups" yaml:"intra_cooldown_groups"`

	Assignee string `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Note     string `json:"note,omitempty" yaml:"note,omitempty"`
}

// DayNumber is the numeric weekday of the group, 0 when floating.
func (g *Group) DayNumber() int {
	return DayNumber(g.Day)
}

// Candidates is the set of people the optimizer may place on the group:
// filtered priority, filtered and the manual assignee, sorted.
func (g *Group) Candidates() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(names ...string) {
		for _, n := range names {
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	add(g.FilteredPriorityCandidateList...)
	add(g.FilteredCandidateList...)
	add(g.Assignee)
	sort.Strings(out)
	return out
}

// EligibleList is the filtered candidate list, falling back to the raw
// candidate list when the filter left nothing.
func (g *Group) EligibleList() []string {
	if len(g.FilteredCandidateList) > 0 {
		return g.FilteredCandidateList
	}
	return g.CandidateList
}

// PriorityList is the filtered priority list, falling back to the raw one.
func (g *Group) PriorityList() []string {
	if len(g.FilteredPriorityCandidateList) > 0 {
		return g.FilteredPriorityCandidateList
	}
	return g.PriorityCandidateList
}

// Registry is an arena of groups addressed by id.
type Registry struct {
	groups []Group
	index  map[string]int
}

// NewRegistry copies groups into a registry. Duplicate ids are rejected.
func NewRegistry(groups []Group) (*Registry, error) {
	r := &Registry{
		groups: make([]Group, len(groups)),
		index:  make(map[string]int, len(groups)),
	}
	copy(r.groups, groups)
	for i, g := range r.groups {
		if _, dup := r.index[g.ID]; dup {
			return nil, fmt.Errorf("duplicate group id %q", g.ID)
		}
		r.index[g.ID] = i
	}
	return r, nil
}

func (r *Registry) Len() int { return len(r.groups) }

// At returns the group stored at position i.
func (r *Registry) At(i int) *Group { return &r.groups[i] }

func (r *Registry) Get(id string) (*Group, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return &r.groups[i], true
}

// Index returns the arena position of id, or -1.
func (r *Registry) Index(id string) int {
	i, ok := r.index[id]
	if !ok {
		return -1
	}
	return i
}

// All returns a copy of the stored groups in arena order.
func (r *Registry) All() []Group {
	out := make([]Group, len(r.groups))
	copy(out, r.groups)
	return out
}
