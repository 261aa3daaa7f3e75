package domain

// GroupDefinition describes how raw tasks are bundled into groups.
type GroupDefinition struct {
	Name              string   `json:"name" yaml:"name"`
	Tasks             []string `json:"tasks" yaml:"tasks"`
	LeaderCount       int      `json:"leader_group_count" yaml:"leader_group_count"`
	FollowerCount     int      `json:"follower_group_count" yaml:"follower_group_count"`
	AnyCount          int      `json:"any_group_count" yaml:"any_group_count"`
	Exclusive         []string `json:"exclusive" yaml:"exclusive"`
	PriorityAssignees []string `json:"priority_assignees,omitempty" yaml:"priority_assignees,omitempty"`
}

// TotalInstances is the number of groups the definition produces per day.
func (d GroupDefinition) TotalInstances() int {
	return d.LeaderCount + d.FollowerCount + d.AnyCount
}

// Family is a named collection of group definitions sharing cooldown and
// diversity semantics.
type Family struct {
	Name   string            `json:"name" yaml:"name"`
	Groups []GroupDefinition `json:"groups" yaml:"groups"`
}
