package domain

import "encoding/json"

// Assignment is the optimizer's decision for one group.
type Assignment struct {
	GroupID   string `json:"-"`
	GroupName string `json:"group_name"`
	Assignee  string `json:"assignee"`
	Method    Method `json:"method"`
}

type assignmentJSON struct {
	GroupName string  `json:"group_name"`
	Assignee  *string `json:"assignee"`
	Method    Method  `json:"method"`
}

func (a Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(assignmentJSON{
		GroupName: a.GroupName,
		Assignee:  nullable(a.Assignee),
		Method:    a.Method,
	})
}

func (a *Assignment) UnmarshalJSON(data []byte) error {
	var raw assignmentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.GroupName = raw.GroupName
	a.Assignee = deref(raw.Assignee)
	a.Method = raw.Method
	return nil
}

// AssignmentsToMap keys assignments by group id, the on-disk layout.
func AssignmentsToMap(as []Assignment) map[string]Assignment {
	m := make(map[string]Assignment, len(as))
	for _, a := range as {
		m[a.GroupID] = a
	}
	return m
}

// AssignmentsFromMap restores group ids from map keys.
func AssignmentsFromMap(m map[string]Assignment) []Assignment {
	out := make([]Assignment, 0, len(m))
	for id, a := range m {
		a.GroupID = id
		out = append(out, a)
	}
	return out
}

// PenaltyRecord attributes part of the objective to a rule and a subject.
type PenaltyRecord struct {
	Rule    string `json:"rule"`
	Person  string `json:"person_name"`
	GroupID string `json:"group_id"`
	Cost    int64  `json:"cost"`
	Details string `json:"details"`
}

type penaltyJSON struct {
	Rule    string  `json:"rule"`
	Person  *string `json:"person_name"`
	GroupID *string `json:"group_id"`
	Cost    int64   `json:"cost"`
	Details string  `json:"details"`
}

func (p PenaltyRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(penaltyJSON{
		Rule:    p.Rule,
		Person:  nullable(p.Person),
		GroupID: nullable(p.GroupID),
		Cost:    p.Cost,
		Details: p.Details,
	})
}

func (p *PenaltyRecord) UnmarshalJSON(data []byte) error {
	var raw penaltyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PenaltyRecord{
		Rule:    raw.Rule,
		Person:  deref(raw.Person),
		GroupID: deref(raw.GroupID),
		Cost:    raw.Cost,
		Details: raw.Details,
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
