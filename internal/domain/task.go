package domain

// Task is one raw availability row: a unit of work on a given week/day with
// the people who can cover it.
type Task struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Week        int      `json:"week"`
	Day         string   `json:"day,omitempty"`
	TimeSlot    string   `json:"time_slot,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	Candidates  []string `json:"candidates"`
	Effort      float64  `json:"effort"`
	RepeatIndex int      `json:"repeat_index"`
}

// IsCandidate reports whether name is listed as eligible for the task.
func (t *Task) IsCandidate(name string) bool {
	for _, c := range t.Candidates {
		if c == name {
			return true
		}
	}
	return false
}

// TeamMember is a roster entry.
type TeamMember struct {
	Name string `json:"name" yaml:"name"`
	Role Role   `json:"role" yaml:"role"`
	Both bool   `json:"both" yaml:"both"`
}

// CanServe reports whether the member may fill a slot of the given role.
func (m TeamMember) CanServe(r Role) bool {
	switch r {
	case RoleLeader:
		return m.Role == RoleLeader || m.Both
	case RoleFollower:
		return m.Role == RoleFollower || m.Both
	default:
		return true
	}
}

// StrictRole returns the member's role when they cannot switch sides.
func (m TeamMember) StrictRole() (Role, bool) {
	if m.Both || (m.Role != RoleLeader && m.Role != RoleFollower) {
		return "", false
	}
	return m.Role, true
}

// Roster indexes team members by name.
type Roster map[string]TeamMember

func NewRoster(members []TeamMember) Roster {
	r := make(Roster, len(members))
	for _, m := range members {
		r[m.Name] = m
	}
	return r
}
