package domain

import "strings"

type Role string

const (
	RoleLeader   Role = "leader"
	RoleFollower Role = "follower"
	RoleAny      Role = "any"
)

// ParseRole normalises a role string. Unknown values return false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleLeader:
		return RoleLeader, true
	case RoleFollower:
		return RoleFollower, true
	case RoleAny, "":
		return RoleAny, true
	}
	return "", false
}

type Method string

const (
	MethodManual     Method = "manual"
	MethodAutomatic  Method = "automatic"
	MethodUnassigned Method = "unassigned"
)

type RunStatus string

const (
	StatusOptimal    RunStatus = "optimal"
	StatusFeasible   RunStatus = "feasible"
	StatusNoSolution RunStatus = "no_solution"
)

// HasSolution reports whether assignments were produced.
func (s RunStatus) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}

var dayNumbers = map[string]int{
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
	"sunday":    7,
}

// DayNumber maps a day name to Monday=1 ... Sunday=7. Floating and unknown
// days map to 0.
func DayNumber(day string) int {
	return dayNumbers[strings.ToLower(strings.TrimSpace(day))]
}

// ValidDay reports whether day is empty (floating) or a known weekday name.
func ValidDay(day string) bool {
	return strings.TrimSpace(day) == "" || DayNumber(day) > 0
}

func IsSunday(day string) bool {
	return DayNumber(day) == 7
}

// IsWeekday is true for Monday through Saturday.
func IsWeekday(day string) bool {
	n := DayNumber(day)
	return n >= 1 && n <= 6
}
