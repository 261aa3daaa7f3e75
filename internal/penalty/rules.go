package penalty

// Canonical rule names. They double as configuration keys, so the exact
// spelling is part of the file format.
const (
	RuleUnassigned       = "Unassigned Group"
	RuleUnderworked      = "Underworked Team Member (< Threshold)"
	RuleIntraCooldown    = "Intra-Week Cooldown (Same Week)"
	RuleTeachingPref     = "Teaching/Assisting Preference"
	RuleMultiWeekday     = "Multi-Day Weekdays (e.g. Tue+Wed)"
	RuleTeachingEquality = "Teaching/Assisting Equality"
	RuleRoleDiversity    = "Role Diversity (Assignments in each capable family)"
	RuleInefficientDay   = "Inefficient Day (< 2 Tasks)"
	RuleMultiGeneral     = "Multi-Day General (Weekday+Sunday)"
	RuleCooldown         = "Cooldown (Adjacent Weeks)"
	RulePreferredPair    = "Preferred Pair"
	RuleEffortEqualize   = "Effort Equalization (Squared Deviation)"
)

// DefaultOrder is the ladder used when none is configured, highest priority
// first.
var DefaultOrder = []string{
	RuleUnassigned,
	RuleUnderworked,
	RuleIntraCooldown,
	RuleTeachingPref,
	RuleMultiWeekday,
	RuleTeachingEquality,
	RuleRoleDiversity,
	RuleInefficientDay,
	RuleMultiGeneral,
	RuleCooldown,
	RulePreferredPair,
	RuleEffortEqualize,
}

var descriptions = map[string]string{
	RuleUnassigned:       "A group left without anyone assigned.",
	RuleUnderworked:      "A team member whose total effort falls below the threshold.",
	RuleIntraCooldown:    "Two different groups of the same family in the same week for one person.",
	RuleTeachingPref:     "A teaching-capable person without a teaching slot (half cost when assisting instead).",
	RuleMultiWeekday:     "Working on several distinct weekdays in one week; grows by 3x per extra day.",
	RuleTeachingEquality: "Holding two or more teaching or assisting slots when some are not forced.",
	RuleRoleDiversity:    "Families a person is capable of but never assigned to; grows by 3x per missed family.",
	RuleInefficientDay:   "Coming in on a day to cover fewer than two tasks.",
	RuleMultiGeneral:     "Working both a weekday and a Sunday during the schedule.",
	RuleCooldown:         "Same family in consecutive weeks, with escalating cost for streaks of 3 to 5 weeks.",
	RulePreferredPair:    "A configured pair split across a group where only one of them appears.",
	RuleEffortEqualize:   "Squared distance between a person's effort and the team average.",
}

// Describe returns a one-line description of a rule, or "" if unknown.
func Describe(rule string) string {
	return descriptions[rule]
}

// Known reports whether rule is one of the canonical names.
func Known(rule string) bool {
	_, ok := descriptions[rule]
	return ok
}
