package optimizer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/pbmodel"
	"github.com/Anton2181/partykajson/internal/penalty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grp(id, name, family string, week int, day string, cands ...string) domain.Group {
	return domain.Group{
		ID:                    id,
		Name:                  name,
		Family:                family,
		Role:                  domain.RoleAny,
		Week:                  week,
		Day:                   day,
		TaskCount:             1,
		Effort:                1,
		CandidateList:         cands,
		FilteredCandidateList: cands,
	}
}

func team(names ...string) []domain.TeamMember {
	out := make([]domain.TeamMember, len(names))
	for i, n := range names {
		out[i] = domain.TeamMember{Name: n, Role: domain.RoleLeader}
	}
	return out
}

func newOptimizer(t *testing.T, ladder ...string) *Optimizer {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TimeLimit = 20 * time.Second
	if len(ladder) > 0 {
		cfg.Ladder = ladder
	}
	o, err := New(cfg, pbmodel.NewGophersatEngine(nil))
	require.NoError(t, err)
	return o
}

func solve(t *testing.T, o *Optimizer, groups []domain.Group, members []domain.TeamMember) *Result {
	t.Helper()
	res, err := o.Solve(context.Background(), groups, members, nil)
	require.NoError(t, err)
	require.True(t, res.Status.HasSolution(), "status %s", res.Status)
	return res
}

// solveFixed builds the model, forces the listed (group, person) pairs and
// solves it, returning the extracted penalties.
func solveFixed(t *testing.T, o *Optimizer, groups []domain.Group, members []domain.TeamMember, fixed map[string]string) []domain.PenaltyRecord {
	t.Helper()
	plan, err := o.Build(groups, members)
	require.NoError(t, err)
	for id, person := range fixed {
		i := plan.b.reg.Index(id)
		require.GreaterOrEqual(t, i, 0)
		plan.Model.Fix(plan.b.x[i][person], true)
	}
	sol, err := pbmodel.NewGophersatEngine(nil).Solve(context.Background(), plan.Model, pbmodel.SolveOptions{TimeLimit: 20 * time.Second})
	require.NoError(t, err)
	require.Equal(t, pbmodel.StatusOptimal, sol.Status)
	ps := plan.b.penalties(sol.Values)
	assert.Equal(t, sol.Objective, sumCosts(ps))
	return ps
}

func sumCosts(ps []domain.PenaltyRecord) int64 {
	var total int64
	for _, p := range ps {
		total += p.Cost
	}
	return total
}

func byRule(ps []domain.PenaltyRecord, rule string) []domain.PenaltyRecord {
	var out []domain.PenaltyRecord
	for _, p := range ps {
		if p.Rule == rule {
			out = append(out, p)
		}
	}
	return out
}

func assigneeOf(res *Result, id string) domain.Assignment {
	for _, a := range res.Assignments {
		if a.GroupID == id {
			return a
		}
	}
	return domain.Assignment{}
}

func TestNew_RejectsBadRatio(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PenaltyRatio = 1
	_, err := New(cfg, pbmodel.NewGophersatEngine(nil))
	assert.Error(t, err)
}

func TestNew_RejectsSaturatedLadder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PenaltyRatio = 100
	_, err := New(cfg, pbmodel.NewGophersatEngine(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large for 12 active rules")

	cfg.DisabledRules = penalty.DefaultOrder[4:]
	_, err = New(cfg, pbmodel.NewGophersatEngine(nil))
	assert.NoError(t, err)
}

func TestNew_DisabledRulesDropFromLadder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisabledRules = []string{penalty.RuleEffortEqualize}
	o, err := New(cfg, pbmodel.NewGophersatEngine(nil))
	require.NoError(t, err)
	assert.Equal(t, int64(0), o.Ladder().CostOf(penalty.RuleEffortEqualize))
	assert.Equal(t, int64(1), o.Ladder().CostOf(penalty.RulePreferredPair))
}

func TestSolve_EmptyInput(t *testing.T) {
	o := newOptimizer(t)
	_, err := o.Solve(context.Background(), nil, team("Alice"), nil)
	assert.ErrorIs(t, err, ErrEmptyModel)
}

func TestSolve_UnassignedGroupDetailsIncludeID(t *testing.T) {
	o := newOptimizer(t)
	res := solve(t, o, []domain.Group{grp("G_TEST_ID_123", "Test Group", "TestFam", 1, "Monday")}, team("Alice"))

	a := assigneeOf(res, "G_TEST_ID_123")
	assert.Equal(t, domain.MethodUnassigned, a.Method)
	assert.Empty(t, a.Assignee)

	ps := byRule(res.Penalties, penalty.RuleUnassigned)
	require.Len(t, ps, 1)
	assert.Contains(t, ps[0].Details, "(ID: G_TEST_ID_123)")
	assert.Equal(t, o.Ladder().CostOf(penalty.RuleUnassigned), ps[0].Cost)
}

func TestSolve_ManualAndAutomaticMethods(t *testing.T) {
	manual := grp("G1", "Door", "Door", 1, "Monday", "Alice", "Bob")
	manual.Assignee = "Alice"
	auto := grp("G2", "Bar", "Bar", 1, "Monday", "Alice", "Bob")
	single := grp("G3", "Sound", "Sound", 1, "Monday", "Bob")

	res := solve(t, newOptimizer(t), []domain.Group{manual, auto, single}, team("Alice", "Bob"))

	assert.Equal(t, domain.Assignment{GroupID: "G1", GroupName: "Door", Assignee: "Alice", Method: domain.MethodManual}, assigneeOf(res, "G1"))
	assert.Equal(t, domain.MethodAutomatic, assigneeOf(res, "G2").Method)
	assert.Equal(t, domain.Assignment{GroupID: "G3", GroupName: "Sound", Assignee: "Bob", Method: domain.MethodManual}, assigneeOf(res, "G3"))
}

func TestSolve_ObjectiveEqualsPenaltySum(t *testing.T) {
	groups := []domain.Group{
		grp("G1", "Door", "Door", 1, "Monday", "Alice", "Bob"),
		grp("G2", "Bar", "Bar", 1, "Tuesday", "Alice", "Bob"),
		grp("G3", "Door", "Door", 2, "Sunday", "Alice", "Carol"),
		grp("G4", "Clean", "Clean", 2, "Wednesday"),
	}
	groups[0].CooldownGroups = []string{"G3"}
	groups[2].CooldownGroups = []string{"G1"}

	res := solve(t, newOptimizer(t), groups, team("Alice", "Bob", "Carol"))
	assert.Equal(t, domain.StatusOptimal, res.Status)
	assert.Equal(t, res.Objective, sumCosts(res.Penalties))
	assert.NotEmpty(t, res.Penalties)
	assert.Positive(t, res.Solutions)
}

func TestSolve_ExclusiveGroupsShareNoPerson(t *testing.T) {
	g1 := grp("G1", "Door", "Door", 1, "Monday", "Alice")
	g2 := grp("G2", "Bar", "Bar", 1, "Monday", "Alice")
	g1.ExclusiveGroups = []string{"G2"}
	g2.ExclusiveGroups = []string{"G1"}

	res := solve(t, newOptimizer(t, penalty.RuleUnassigned), []domain.Group{g1, g2}, team("Alice"))

	assigned := 0
	for _, a := range res.Assignments {
		if a.Assignee == "Alice" {
			assigned++
		}
	}
	assert.Equal(t, 1, assigned)
	assert.Equal(t, int64(1), res.Objective)
}

func TestSolve_ManualOnBothExclusiveSidesCoexist(t *testing.T) {
	g1 := grp("G1", "Door", "Door", 1, "Monday", "Alice")
	g2 := grp("G2", "Bar", "Bar", 1, "Monday", "Alice")
	g1.ExclusiveGroups, g1.Assignee = []string{"G2"}, "Alice"
	g2.ExclusiveGroups, g2.Assignee = []string{"G1"}, "Alice"

	res := solve(t, newOptimizer(t), []domain.Group{g1, g2}, team("Alice"))
	assert.Equal(t, "Alice", assigneeOf(res, "G1").Assignee)
	assert.Equal(t, "Alice", assigneeOf(res, "G2").Assignee)
}

func TestSolve_PriorityCandidatesAreHard(t *testing.T) {
	g := grp("G1", "Teach", "Teaching", 1, "Monday", "Alice", "Bob")
	g.PriorityCandidateList = []string{"Bob"}
	g.FilteredPriorityCandidateList = []string{"Bob"}

	res := solve(t, newOptimizer(t), []domain.Group{g}, team("Alice", "Bob"))
	a := assigneeOf(res, "G1")
	assert.Equal(t, "Bob", a.Assignee)
	assert.Equal(t, domain.MethodManual, a.Method)
}

func TestSolve_MultiWeekdayCascade(t *testing.T) {
	days := []string{"Monday", "Tuesday", "Wednesday"}
	var groups []domain.Group
	for _, d := range days {
		g := grp("G"+d, "Task"+d, "F"+d, 1, d, "Alice")
		g.Assignee = "Alice"
		groups = append(groups, g)
	}
	o := newOptimizer(t, penalty.RuleMultiWeekday)

	two := solve(t, o, groups[:2], team("Alice"))
	require.Len(t, two.Penalties, 1)
	assert.Equal(t, int64(1), two.Penalties[0].Cost)

	three := solve(t, o, groups, team("Alice"))
	require.Len(t, three.Penalties, 1)
	assert.Equal(t, int64(3), three.Penalties[0].Cost)
	assert.Equal(t, "Alice", three.Penalties[0].Person)
	assert.Contains(t, three.Penalties[0].Details, "3 weekdays")
}

func TestSolve_MultiWeekdayMixedForcedAndChosen(t *testing.T) {
	mon := grp("G1", "A", "A", 1, "Monday", "Alice")
	mon.Assignee = "Alice"
	tue := grp("G2", "B", "B", 1, "Tuesday", "Alice", "Bob")
	wed := grp("G3", "C", "C", 1, "Wednesday", "Alice", "Bob")
	o := newOptimizer(t, penalty.RuleMultiWeekday)

	ps := solveFixed(t, o, []domain.Group{mon, tue, wed}, team("Alice", "Bob"), map[string]string{"G2": "Alice", "G3": "Alice"})
	require.Len(t, ps, 1)
	assert.Equal(t, "Alice", ps[0].Person)
	assert.Equal(t, int64(3), ps[0].Cost)
	assert.Contains(t, ps[0].Details, "3 weekdays")
}

func TestSolve_ProgressCountsPenaltiesNotSteps(t *testing.T) {
	var groups []domain.Group
	for _, d := range []string{"Monday", "Tuesday", "Wednesday"} {
		g := grp("G"+d, "Task"+d, "F"+d, 1, d, "Alice")
		g.Assignee = "Alice"
		groups = append(groups, g)
	}
	var last Progress
	res, err := newOptimizer(t, penalty.RuleMultiWeekday).Solve(context.Background(), groups, team("Alice"), func(p Progress) { last = p })
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.Objective)
	assert.Equal(t, 1, last.Penalties)
	assert.Equal(t, len(res.Penalties), last.Penalties)
}

func TestSolve_SundayDoesNotCountAsWeekday(t *testing.T) {
	mon := grp("G1", "A", "A", 1, "Monday", "Alice")
	sun := grp("G2", "B", "B", 1, "Sunday", "Alice")
	mon.Assignee, sun.Assignee = "Alice", "Alice"

	res := solve(t, newOptimizer(t, penalty.RuleMultiWeekday, penalty.RuleMultiGeneral), []domain.Group{mon, sun}, team("Alice"))
	assert.Empty(t, byRule(res.Penalties, penalty.RuleMultiWeekday))
	general := byRule(res.Penalties, penalty.RuleMultiGeneral)
	require.Len(t, general, 1)
	assert.Equal(t, "Worked on Weekday + Sunday", general[0].Details)
}

func TestSolve_InefficientDay(t *testing.T) {
	lone := grp("G1", "A", "A", 1, "Monday", "Alice")
	lone.Assignee = "Alice"
	pairA := grp("G2", "B", "B", 1, "Tuesday", "Alice")
	pairB := grp("G3", "C", "C", 1, "Tuesday", "Alice")
	pairA.Assignee, pairB.Assignee = "Alice", "Alice"
	floating := grp("G4", "D", "D", 1, "", "Alice")
	floating.Assignee = "Alice"

	res := solve(t, newOptimizer(t, penalty.RuleInefficientDay), []domain.Group{lone, pairA, pairB, floating}, team("Alice"))
	ps := byRule(res.Penalties, penalty.RuleInefficientDay)
	require.Len(t, ps, 1)
	assert.Equal(t, "W1 Monday: 1 task(s)", ps[0].Details)
}

func TestSolve_UnderworkedDetails(t *testing.T) {
	g := grp("G1", "A", "A", 1, "Monday", "Alice")
	g.Effort = 2

	res := solve(t, newOptimizer(t, penalty.RuleUnassigned, penalty.RuleUnderworked), []domain.Group{g}, team("Alice"))
	ps := byRule(res.Penalties, penalty.RuleUnderworked)
	require.Len(t, ps, 1)
	assert.Equal(t, "Total Effort: 2.0 < 8.0", ps[0].Details)
	assert.Equal(t, int64(1), ps[0].Cost)
}

func cooldownChain(weeks int) []domain.Group {
	var groups []domain.Group
	for w := 1; w <= weeks; w++ {
		g := grp(groupName(w), "Door", "Door", w, "Monday", "Alice", "Bob")
		if w > 1 {
			g.CooldownGroups = append(g.CooldownGroups, groupName(w-1))
		}
		if w < weeks {
			g.CooldownGroups = append(g.CooldownGroups, groupName(w+1))
		}
		groups = append(groups, g)
	}
	return groups
}

func groupName(week int) string {
	return "G" + strings.Repeat("I", week)
}

func TestCooldown_StreakCostsTelescope(t *testing.T) {
	o := newOptimizer(t, penalty.RuleCooldown)
	for weeks, want := range map[int]int64{2: 1, 3: 3, 4: 9, 5: 27} {
		groups := cooldownChain(weeks)
		fixed := make(map[string]string)
		for _, g := range groups {
			fixed[g.ID] = "Alice"
		}
		ps := solveFixed(t, o, groups, team("Alice", "Bob"), fixed)
		assert.Equal(t, want, sumCosts(ps), "weeks=%d", weeks)
	}
}

func TestCooldown_StreakDetails(t *testing.T) {
	groups := cooldownChain(3)
	ps := solveFixed(t, newOptimizer(t, penalty.RuleCooldown), groups, team("Alice", "Bob"),
		map[string]string{"GI": "Alice", "GII": "Alice", "GIII": "Alice"})

	var details []string
	for _, p := range ps {
		details = append(details, p.Details)
	}
	assert.Contains(t, details, "Geometric Streak (3 weeks): W1 -> W2 -> W3")
	assert.Contains(t, details, "Door (W1) & Door (W2)")
}

func TestCooldown_FullyForcedChainIsExempt(t *testing.T) {
	groups := cooldownChain(3)
	for i := range groups {
		groups[i].Assignee = "Alice"
	}
	res := solve(t, newOptimizer(t, penalty.RuleCooldown), groups, team("Alice", "Bob"))
	assert.Empty(t, res.Penalties)
	assert.Equal(t, int64(0), res.Objective)
}

func TestCooldown_PartiallyForcedChainPays(t *testing.T) {
	groups := cooldownChain(3)
	groups[0].Assignee = "Alice"
	groups[2].Assignee = "Alice"
	ps := solveFixed(t, newOptimizer(t, penalty.RuleCooldown), groups, team("Alice", "Bob"),
		map[string]string{"GII": "Alice"})
	assert.Equal(t, int64(3), sumCosts(ps))
}

func TestIntraCooldown_SkipsForcedPairs(t *testing.T) {
	g1 := grp("G1", "Door", "Door", 1, "Monday", "Alice", "Bob")
	g2 := grp("G2", "Door Late", "Door", 1, "Friday", "Alice", "Bob")
	g1.IntraCooldownGroups = []string{"G2"}
	g2.IntraCooldownGroups = []string{"G1"}

	o := newOptimizer(t, penalty.RuleIntraCooldown)
	ps := solveFixed(t, o, []domain.Group{g1, g2}, team("Alice", "Bob"), map[string]string{"G1": "Alice", "G2": "Alice"})
	require.Len(t, ps, 1)
	assert.Equal(t, "Intra-week: Door & Door Late", ps[0].Details)

	g1.Assignee, g2.Assignee = "Alice", "Alice"
	res := solve(t, o, []domain.Group{g1, g2}, team("Alice", "Bob"))
	assert.Empty(t, res.Penalties)
}

func TestRoleDiversity_Cascade(t *testing.T) {
	g1 := grp("G1", "Door", "Door", 1, "Monday", "Alice", "Bob")
	g2 := grp("G2", "Bar", "Bar", 1, "Monday", "Alice", "Bob")
	g1.Assignee, g2.Assignee = "Bob", "Bob"

	res := solve(t, newOptimizer(t, penalty.RuleRoleDiversity), []domain.Group{g1, g2}, team("Alice", "Bob"))
	require.Len(t, res.Penalties, 1)
	assert.Equal(t, "Alice", res.Penalties[0].Person)
	assert.Equal(t, int64(3), res.Penalties[0].Cost)
	assert.Equal(t, "Missed assignment in capable family: Bar, Door", res.Penalties[0].Details)
}

func TestTeachingPreference_HalfCostWhenOnlyAssisting(t *testing.T) {
	teach := grp("G1", "Teach", familyTeaching, 1, "Monday", "Alice", "Bob")
	assist := grp("G2", "Assist", familyAssisting, 1, "Monday", "Alice", "Bob")
	teach.Assignee, assist.Assignee = "Bob", "Alice"

	o := newOptimizer(t, penalty.RuleTeachingPref, penalty.RuleEffortEqualize)
	res := solve(t, o, []domain.Group{teach, assist}, team("Alice", "Bob"))
	ps := byRule(res.Penalties, penalty.RuleTeachingPref)
	require.Len(t, ps, 1)
	assert.Equal(t, "Alice", ps[0].Person)
	assert.Equal(t, int64(5), ps[0].Cost)
}

func TestTeachingEquality_ForcedHoardingIsExempt(t *testing.T) {
	var groups []domain.Group
	for _, id := range []string{"G1", "G2"} {
		g := grp(id, "Teach "+id, familyTeaching, 1, "Monday", "Alice", "Bob")
		g.Assignee = "Alice"
		groups = append(groups, g)
	}
	o := newOptimizer(t, penalty.RuleTeachingEquality)
	res := solve(t, o, groups, team("Alice", "Bob"))
	assert.Empty(t, res.Penalties)

	groups[1].Assignee = ""
	ps := solveFixed(t, o, groups, team("Alice", "Bob"), map[string]string{"G2": "Alice"})
	require.Len(t, ps, 1)
	assert.Equal(t, int64(1), ps[0].Cost)
	assert.Equal(t, "2 Teaching assignments (1 forced)", ps[0].Details)
}

func TestPreferredPair_KeepsPairTogether(t *testing.T) {
	g1 := grp("G1", "Door", "Door", 1, "Monday", "Alice", "Bob")
	g2 := grp("G2", "Door", "Door", 1, "Monday", "Alice", "Bob")
	g2.RepeatIndex = 2

	cfg := DefaultConfig()
	cfg.Ladder = []string{penalty.RuleUnassigned, penalty.RulePreferredPair}
	cfg.PreferredPairs = [][2]string{{"Alice", "Bob"}}
	o, err := New(cfg, pbmodel.NewGophersatEngine(nil))
	require.NoError(t, err)

	res := solve(t, o, []domain.Group{g1, g2}, team("Alice", "Bob"))
	assert.Equal(t, int64(0), res.Objective)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, []string{assigneeOf(res, "G1").Assignee, assigneeOf(res, "G2").Assignee})

	ps := solveFixed(t, o, []domain.Group{g1, g2}, team("Alice", "Bob"), map[string]string{"G1": "Alice", "G2": "Alice"})
	require.Len(t, ps, 1)
	assert.Equal(t, "Alice", ps[0].Person)
	assert.Equal(t, int64(1), ps[0].Cost)
}

func TestPreferredPair_SkipsGroupsOnlyOneCanTake(t *testing.T) {
	g1 := grp("G1", "Door", "Door", 1, "Monday", "Alice")
	g2 := grp("G2", "Door", "Door", 1, "Monday", "Alice")
	g2.RepeatIndex = 2

	cfg := DefaultConfig()
	cfg.Ladder = []string{penalty.RuleUnassigned, penalty.RulePreferredPair}
	cfg.PreferredPairs = [][2]string{{"Alice", "Bob"}}
	o, err := New(cfg, pbmodel.NewGophersatEngine(nil))
	require.NoError(t, err)

	res := solve(t, o, []domain.Group{g1, g2}, team("Alice", "Bob"))
	assert.Empty(t, byRule(res.Penalties, penalty.RulePreferredPair))
}

func TestEffortEqualization_SpreadsWork(t *testing.T) {
	groups := []domain.Group{
		grp("G1", "A", "A", 1, "Monday", "Alice", "Bob"),
		grp("G2", "B", "B", 1, "Monday", "Alice", "Bob"),
	}
	o := newOptimizer(t, penalty.RuleUnassigned, penalty.RuleEffortEqualize)
	res := solve(t, o, groups, team("Alice", "Bob"))
	assert.Equal(t, int64(0), res.Objective)
	assert.NotEqual(t, assigneeOf(res, "G1").Assignee, assigneeOf(res, "G2").Assignee)
}

func TestEffortEqualization_MatchesFormula(t *testing.T) {
	heavy := grp("G1", "A", "A", 1, "Monday", "Alice")
	heavy.Assignee, heavy.Effort = "Alice", 15.0
	light := grp("G2", "B", "B", 1, "Tuesday", "Bob")
	light.Assignee, light.Effort = "Bob", 1.1

	// Scaled target is (150 + 11) / 2 = 81.
	res := solve(t, newOptimizer(t, penalty.RuleEffortEqualize), []domain.Group{heavy, light}, team("Alice", "Bob"))
	ps := byRule(res.Penalties, penalty.RuleEffortEqualize)
	require.Len(t, ps, 2)
	costs := map[string]int64{ps[0].Person: ps[0].Cost, ps[1].Person: ps[1].Cost}
	assert.Equal(t, int64(69*69/100), costs["Alice"])
	assert.Equal(t, int64(70*70/100), costs["Bob"])
	assert.Equal(t, res.Objective, sumCosts(res.Penalties))
}

func TestEffortEqualization_ExactAboveTwelve(t *testing.T) {
	var groups []domain.Group
	for _, id := range []string{"G1", "G2", "G3"} {
		g := grp(id, "Task "+id, "F"+id, 1, "Monday", "Alice", "Bob")
		g.Effort = 5
		groups = append(groups, g)
	}
	o := newOptimizer(t, penalty.RuleEffortEqualize)

	// Target 75; Alice carries 150, Bob nothing.
	ps := solveFixed(t, o, groups, team("Alice", "Bob"), map[string]string{"G1": "Alice", "G2": "Alice", "G3": "Alice"})
	require.Len(t, ps, 2)
	for _, p := range ps {
		assert.Equal(t, int64(75*75/100), p.Cost, p.Person)
	}
}

func TestReachableEfforts(t *testing.T) {
	terms := func(ws ...int64) []pbmodel.Term {
		out := make([]pbmodel.Term, len(ws))
		for i, w := range ws {
			out[i] = pbmodel.Term{Lit: pbmodel.Lit(i + 1), Weight: w}
		}
		return out
	}
	assert.Equal(t, []int64{0}, reachableEfforts(nil))
	assert.Equal(t, []int64{0, 10, 15, 25}, reachableEfforts(terms(10, 15)))
	assert.Equal(t, []int64{0, 60, 70, 130}, reachableEfforts(terms(60, 70)))
	assert.Equal(t, []int64{0, 65, 130, 195}, reachableEfforts(terms(65, 65, 65)))
}

type stubEngine struct {
	status pbmodel.Status
}

func (s stubEngine) Solve(context.Context, *pbmodel.Model, pbmodel.SolveOptions) (*pbmodel.Solution, error) {
	return &pbmodel.Solution{Status: s.status}, nil
}

func TestSolve_NoSolutionIsAStatus(t *testing.T) {
	o, err := New(DefaultConfig(), stubEngine{status: pbmodel.StatusUnknown})
	require.NoError(t, err)
	res, err := o.Solve(context.Background(), []domain.Group{grp("G1", "A", "A", 1, "Monday", "Alice")}, team("Alice"), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoSolution, res.Status)
	assert.Empty(t, res.Assignments)
	assert.Empty(t, res.Penalties)
}

type recorder struct {
	incumbents []Progress
	results    []*Result
}

func (r *recorder) ObserveIncumbent(p Progress) { r.incumbents = append(r.incumbents, p) }
func (r *recorder) ObserveResult(res *Result)    { r.results = append(r.results, res) }

func TestSolve_ReportsProgress(t *testing.T) {
	rec := &recorder{}
	cfg := DefaultConfig()
	o, err := New(cfg, pbmodel.NewGophersatEngine(nil), WithRecorder(rec))
	require.NoError(t, err)

	var lines []string
	groups := []domain.Group{
		grp("G1", "A", "A", 1, "Monday", "Alice", "Bob"),
		grp("G2", "B", "B", 1, "Tuesday", "Alice", "Bob"),
	}
	res, err := o.Solve(context.Background(), groups, team("Alice", "Bob"), func(p Progress) {
		lines = append(lines, p.Line())
	})
	require.NoError(t, err)
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "Solution 1, time = "))
	assert.Len(t, rec.incumbents, len(lines))
	require.Len(t, rec.results, 1)
	assert.Same(t, res, rec.results[0])
}

func TestProgressLine(t *testing.T) {
	p := Progress{Solution: 3, Elapsed: 1500 * time.Millisecond, Objective: 42, Penalties: 5}
	assert.Equal(t, "Solution 3, time = 1.50 s, objective = 42, penalties = 5", p.Line())
}

func TestSortPenalties(t *testing.T) {
	ps := []domain.PenaltyRecord{
		{Rule: "B", Person: "x", Cost: 1},
		{Rule: "A", Person: "y", Cost: 1},
		{Rule: "A", Person: "x", Cost: 1, GroupID: "G2"},
		{Rule: "A", Person: "x", Cost: 1, GroupID: "G1"},
		{Rule: "Z", Cost: 10},
	}
	SortPenalties(ps)
	assert.Equal(t, "Z", ps[0].Rule)
	assert.Equal(t, "G1", ps[1].GroupID)
	assert.Equal(t, "G2", ps[2].GroupID)
	assert.Equal(t, "y", ps[3].Person)
	assert.Equal(t, "B", ps[4].Rule)
}
