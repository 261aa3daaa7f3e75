package aggregate

import "github.com/Anton2181/partykajson/internal/domain"

// roleSlots tracks how many instances of each role a definition still has
// to hand out.
type roleSlots struct {
	leader   int
	follower int
	any      int
}

// choose picks the role for an instance. A strict preference comes from a
// manual assignee who cannot switch sides. Without one, leader and follower
// slots are only taken while they exceed what later instances have
// reserved.
func (s roleSlots) choose(pref domain.Role, reservedLeader, reservedFollower int) domain.Role {
	switch pref {
	case domain.RoleLeader:
		switch {
		case s.leader > 0:
			return domain.RoleLeader
		case s.any > 0:
			return domain.RoleAny
		case s.follower > 0:
			return domain.RoleFollower
		}
		return domain.RoleAny
	case domain.RoleFollower:
		switch {
		case s.follower > 0:
			return domain.RoleFollower
		case s.any > 0:
			return domain.RoleAny
		case s.leader > 0:
			return domain.RoleLeader
		}
		return domain.RoleAny
	}

	switch {
	case s.leader > 0 && s.leader > reservedLeader:
		return domain.RoleLeader
	case s.follower > 0 && s.follower > reservedFollower:
		return domain.RoleFollower
	case s.any > 0:
		return domain.RoleAny
	case s.leader > 0:
		return domain.RoleLeader
	case s.follower > 0:
		return domain.RoleFollower
	}
	return domain.RoleAny
}

func (s *roleSlots) take(r domain.Role) {
	switch r {
	case domain.RoleLeader:
		s.leader--
	case domain.RoleFollower:
		s.follower--
	default:
		s.any--
	}
}

// strictPreference returns leader if any assignee is leader-only, else
// follower if any is follower-only, else any. People missing from the
// roster carry no preference.
func strictPreference(roster domain.Roster, assignees []string) domain.Role {
	hasLeader, hasFollower := false, false
	for _, name := range assignees {
		m, ok := roster[name]
		if !ok {
			continue
		}
		if r, strict := m.StrictRole(); strict {
			switch r {
			case domain.RoleLeader:
				hasLeader = true
			case domain.RoleFollower:
				hasFollower = true
			}
		}
	}
	switch {
	case hasLeader:
		return domain.RoleLeader
	case hasFollower:
		return domain.RoleFollower
	}
	return domain.RoleAny
}

func canServe(roster domain.Roster, name string, r domain.Role) bool {
	m, ok := roster[name]
	if !ok {
		return false
	}
	return m.CanServe(r)
}
