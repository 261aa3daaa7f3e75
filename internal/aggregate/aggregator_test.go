package aggregate

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster() []domain.TeamMember {
	return []domain.TeamMember{
		{Name: "Ann", Role: domain.RoleLeader},
		{Name: "Bob", Role: domain.RoleFollower},
		{Name: "Cid", Role: domain.RoleLeader, Both: true},
		{Name: "Lea", Role: domain.RoleLeader},
		{Name: "Fay", Role: domain.RoleFollower},
	}
}

func task(id, name string, week int, day string, candidates ...string) domain.Task {
	return domain.Task{ID: id, Name: name, Week: week, Day: day, Candidates: candidates, Effort: 1}
}

func assigned(t domain.Task, who string) domain.Task {
	t.Assignee = who
	return t
}

func repeat(t domain.Task, n int) domain.Task {
	t.RepeatIndex = n
	return t
}

func family(name string, defs ...domain.GroupDefinition) domain.Family {
	return domain.Family{Name: name, Groups: defs}
}

func findGroup(t *testing.T, groups []domain.Group, id string) domain.Group {
	t.Helper()
	for _, g := range groups {
		if g.ID == id {
			return g
		}
	}
	require.Failf(t, "group not found", "id %s", id)
	return domain.Group{}
}

func TestAggregate_StrictConsumption(t *testing.T) {
	fams := []domain.Family{family("Bar", domain.GroupDefinition{
		Name: "Bar Shift", Tasks: []string{"Setup", "Close"}, LeaderCount: 1,
	})}
	tasks := []domain.Task{
		repeat(task("t1", "Setup", 1, "Tuesday", "Ann", "Bob"), 1),
		repeat(task("t2", "Close", 1, "Tuesday", "Ann", "Bob"), 1),
		repeat(task("t3", "Setup", 1, "Tuesday", "Ann", "Bob"), 2),
	}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)

	g := res.Groups[0]
	assert.Equal(t, "G1_2_1_1", g.ID)
	assert.Equal(t, "Bar Shift", g.Name)
	assert.Equal(t, "Bar", g.Family)
	assert.Equal(t, domain.RoleLeader, g.Role)
	assert.Equal(t, []domain.TaskRef{{ID: "t1", Name: "Setup"}, {ID: "t2", Name: "Close"}}, g.Tasks)
	assert.Equal(t, 2, g.TaskCount)
	assert.Equal(t, 2.0, g.Effort)
	assert.Equal(t, []string{"Ann", "Bob"}, g.CandidateList)
	assert.Equal(t, []string{"Ann"}, g.FilteredCandidateList)
	assert.Equal(t, 1, res.Stats.Discarded)
	assert.Equal(t, 0, res.Stats.Standalone)
}

func TestAggregate_LeftoversAreNotOfferedAgain(t *testing.T) {
	fams := []domain.Family{family("Bar",
		domain.GroupDefinition{Name: "Bar Shift", Tasks: []string{"Setup", "Close"}, LeaderCount: 1},
		domain.GroupDefinition{Name: "Extra Setup", Tasks: []string{"Setup"}, LeaderCount: 1},
	)}
	tasks := []domain.Task{
		repeat(task("t1", "Setup", 1, "Tuesday", "Ann"), 1),
		repeat(task("t2", "Close", 1, "Tuesday", "Ann"), 1),
		repeat(task("t3", "Setup", 1, "Tuesday", "Ann"), 2),
	}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "Bar Shift", res.Groups[0].Name)
	assert.Equal(t, 1, res.Stats.Discarded)
	assert.Equal(t, 1, res.Stats.Rollbacks)
	assert.Equal(t, 0, res.Stats.Standalone)
}

func TestAggregate_SplitOnCapabilityMismatch(t *testing.T) {
	fams := []domain.Family{family("Bar", domain.GroupDefinition{
		Name: "Bar Shift", Tasks: []string{"Setup", "Close"}, AnyCount: 1,
	})}
	tasks := []domain.Task{
		assigned(task("t1", "Setup", 1, "Tuesday", "Ann", "Bob"), "Ann"),
		task("t2", "Close", 1, "Tuesday", "Bob"),
	}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)

	kept := findGroup(t, res.Groups, "G1_2_1_1")
	assert.Equal(t, "Ann", kept.Assignee)
	assert.Equal(t, []domain.TaskRef{{ID: "t1", Name: "Setup"}}, kept.Tasks)
	assert.Equal(t, domain.RoleAny, kept.Role)
	assert.Equal(t, "Group split due to capability mismatch.; Role set to any (Instance-level).", kept.Note)

	split := findGroup(t, res.Groups, "G1_2_2_1")
	assert.Empty(t, split.Assignee)
	assert.Equal(t, []domain.TaskRef{{ID: "t2", Name: "Close"}}, split.Tasks)
	assert.Equal(t, "Split from original group due to assignee capability mismatch.", split.Note)
	assert.Equal(t, 1, res.Stats.Splits)
}

func TestAggregate_PropagatesAssignee(t *testing.T) {
	fams := []domain.Family{family("Bar", domain.GroupDefinition{
		Name: "Bar Shift", Tasks: []string{"Setup", "Close"}, AnyCount: 1,
	})}
	tasks := []domain.Task{
		assigned(task("t1", "Setup", 1, "Tuesday", "Ann", "Bob"), "Ann"),
		task("t2", "Close", 1, "Tuesday", "Ann", "Bob"),
	}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "Ann", res.Groups[0].Assignee)
	assert.Len(t, res.Groups[0].Tasks, 2)
	assert.Equal(t, "Role set to any (Instance-level).", res.Groups[0].Note)
}

func TestAggregate_MultipleAssigneesSplit(t *testing.T) {
	fams := []domain.Family{family("Bar", domain.GroupDefinition{
		Name: "Bar Shift", Tasks: []string{"Setup", "Close", "Lights"}, AnyCount: 1,
	})}
	tasks := []domain.Task{
		assigned(task("t1", "Setup", 1, "Friday", "Ann", "Bob"), "Ann"),
		assigned(task("t2", "Close", 1, "Friday", "Ann", "Bob"), "Bob"),
		task("t3", "Lights", 1, "Friday", "Ann", "Bob", "Cid"),
	}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 3)

	assert.Equal(t, "G1_5_1_1", res.Groups[0].ID)
	assert.Equal(t, "Ann", res.Groups[0].Assignee)
	assert.Contains(t, res.Groups[0].Note, "Split due to multiple assignees in same group.")
	assert.Equal(t, "G1_5_2_1", res.Groups[1].ID)
	assert.Equal(t, "Bob", res.Groups[1].Assignee)
	assert.Equal(t, "G1_5_3_1", res.Groups[2].ID)
	assert.Empty(t, res.Groups[2].Assignee)
	assert.Equal(t, "Split residue from multiple assignees.", res.Groups[2].Note)
	assert.Equal(t, []string{"Ann", "Bob", "Cid"}, res.Groups[2].CandidateList)
}

func TestAggregate_RepeatsAreExclusive(t *testing.T) {
	fams := []domain.Family{family("Door", domain.GroupDefinition{
		Name: "Door", Tasks: []string{"Door"}, AnyCount: 2,
	})}
	tasks := []domain.Task{
		task("t1", "Door", 1, "Saturday", "Ann", "Bob"),
		task("t2", "Door", 1, "Saturday", "Ann", "Cid"),
	}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)

	first := findGroup(t, res.Groups, "G1_6_1_1")
	second := findGroup(t, res.Groups, "G1_6_1_2")
	assert.Equal(t, []string{second.ID}, first.ExclusiveGroups)
	assert.Equal(t, []string{first.ID}, second.ExclusiveGroups)
	assert.Empty(t, first.IntraCooldownGroups)
}

func TestAggregate_ReservationHoldsLeaderForLaterInstance(t *testing.T) {
	fams := []domain.Family{family("Door", domain.GroupDefinition{
		Name: "Door", Tasks: []string{"Door"}, LeaderCount: 1, FollowerCount: 1,
	})}
	tasks := []domain.Task{
		repeat(task("t1", "Door", 2, "Monday", "Ann", "Bob", "Cid"), 1),
		repeat(assigned(task("t2", "Door", 2, "Monday", "Lea", "Bob"), "Lea"), 2),
	}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, domain.RoleFollower, res.Groups[0].Role)
	assert.Equal(t, []string{"Bob", "Cid"}, res.Groups[0].FilteredCandidateList)
	assert.Equal(t, domain.RoleLeader, res.Groups[1].Role)
	assert.Equal(t, "Lea", res.Groups[1].Assignee)
}

func TestAggregate_RoleMismatchDropsAssignee(t *testing.T) {
	fams := []domain.Family{family("Door", domain.GroupDefinition{
		Name: "Door", Tasks: []string{"Door"}, FollowerCount: 1,
	})}
	tasks := []domain.Task{assigned(task("t1", "Door", 1, "Monday", "Lea", "Bob"), "Lea")}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	g := res.Groups[0]
	assert.Equal(t, domain.RoleFollower, g.Role)
	assert.Empty(t, g.Assignee)
	assert.Equal(t, "Assignee Lea dropped (Role Mismatch for follower).; Unassigned (No valid instance assignee found).", g.Note)
	assert.Equal(t, []string{"Bob"}, g.FilteredCandidateList)
}

func TestAggregate_RoleMismatchReassigns(t *testing.T) {
	fams := []domain.Family{family("Bar", domain.GroupDefinition{
		Name: "Bar Shift", Tasks: []string{"Setup", "Close"}, LeaderCount: 1,
	})}
	tasks := []domain.Task{
		assigned(task("t1", "Setup", 1, "Monday", "Ann", "Bob"), "Ann"),
		assigned(task("t2", "Close", 1, "Monday", "Ann", "Bob"), "Bob"),
	}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)
	bobs := res.Groups[1]
	assert.Equal(t, domain.RoleLeader, bobs.Role)
	assert.Equal(t, "Ann", bobs.Assignee)
	assert.Contains(t, bobs.Note, "Assignee Bob dropped (Role Mismatch for leader).")
	assert.Contains(t, bobs.Note, "Reassigned to Ann (Valid Instance Assignee).")
}

func TestAggregate_RollbackOnMissingTask(t *testing.T) {
	fams := []domain.Family{family("Bar", domain.GroupDefinition{
		Name: "Bar Shift", Tasks: []string{"Setup", "Close"}, AnyCount: 2,
	})}
	tasks := []domain.Task{
		repeat(task("t1", "Setup", 1, "Monday", "Ann"), 1),
		repeat(task("t2", "Close", 1, "Monday", "Ann"), 1),
		repeat(task("t3", "Setup", 1, "Monday", "Ann"), 2),
	}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, 1, res.Stats.Rollbacks)
	assert.Equal(t, 1, res.Stats.Discarded)
}

func TestAggregate_ZeroInstancesConsumesTasks(t *testing.T) {
	fams := []domain.Family{family("Misc", domain.GroupDefinition{Name: "Ignored", Tasks: []string{"Coffee"}})}
	tasks := []domain.Task{task("t1", "Coffee", 1, "Monday", "Ann")}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	assert.Empty(t, res.Groups)
}

func TestAggregate_StandaloneGroups(t *testing.T) {
	tasks := []domain.Task{
		repeat(task("t1", "Photos", 3, "", "Bob", "Ann"), 1),
		repeat(task("t2", "Flyers", 3, "", "Fay"), 1),
	}
	tasks[0].Effort = 1.234

	res, err := New(nil, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)

	assert.Equal(t, "G3_0_1_1", res.Groups[0].ID)
	assert.Equal(t, "Flyers", res.Groups[0].Name)
	assert.Equal(t, "Flyers", res.Groups[0].Family)
	assert.Equal(t, "G3_0_2_1", res.Groups[1].ID)
	assert.Equal(t, domain.RoleAny, res.Groups[1].Role)
	assert.Equal(t, []string{"Ann", "Bob"}, res.Groups[1].FilteredCandidateList)
	assert.Equal(t, 1.23, res.Groups[1].Effort)
	assert.Equal(t, 2, res.Stats.Standalone)
}

func TestAggregate_PriorityLists(t *testing.T) {
	fams := []domain.Family{family("Teaching", domain.GroupDefinition{
		Name: "Class", Tasks: []string{"Class"}, LeaderCount: 1, PriorityAssignees: []string{"Ann", "Bob"},
	})}
	tasks := []domain.Task{task("t1", "Class", 1, "Wednesday", "Ann", "Bob", "Cid")}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	g := res.Groups[0]
	assert.Equal(t, []string{"Ann", "Bob"}, g.PriorityCandidateList)
	assert.Equal(t, []string{"Ann"}, g.FilteredPriorityCandidateList)
	assert.Equal(t, []string{"Ann", "Cid"}, g.FilteredCandidateList)
}

func TestAggregate_LinksFamilies(t *testing.T) {
	fams := []domain.Family{family("Bar",
		domain.GroupDefinition{Name: "Bar Early", Tasks: []string{"Early"}, AnyCount: 1, Exclusive: []string{"Bar Late"}},
		domain.GroupDefinition{Name: "Bar Late", Tasks: []string{"Late"}, AnyCount: 1},
	)}
	tasks := []domain.Task{
		task("w1e", "Early", 1, "Friday", "Ann"),
		task("w1l", "Late", 1, "Friday", "Ann"),
		task("w2e", "Early", 2, "Friday", "Ann"),
	}

	res, err := New(fams, roster()).Aggregate(tasks)
	require.NoError(t, err)
	require.Len(t, res.Groups, 3)

	early1 := findGroup(t, res.Groups, "G1_5_1_1")
	late1 := findGroup(t, res.Groups, "G1_5_2_1")
	early2 := findGroup(t, res.Groups, "G2_5_1_1")

	assert.Equal(t, []string{late1.ID}, early1.ExclusiveGroups)
	assert.Equal(t, []string{early1.ID}, late1.ExclusiveGroups)
	assert.Equal(t, []string{late1.ID}, early1.IntraCooldownGroups)
	assert.Equal(t, []string{early2.ID}, early1.CooldownGroups)
	assert.ElementsMatch(t, []string{early1.ID, late1.ID}, early2.CooldownGroups)
	assert.Equal(t, 1, res.Stats.ExclusionFix)
}

func TestAggregate_DuplicateTaskID(t *testing.T) {
	_, err := New(nil, roster()).Aggregate([]domain.Task{
		task("t1", "A", 1, "Monday"),
		task("t1", "B", 1, "Monday"),
	})
	require.Error(t, err)
}

func TestAggregate_RandomInputsConsumeEachTaskOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"Setup", "Close", "Door", "Photos"}
	days := []string{"Monday", "Tuesday", "Sunday", ""}
	people := []string{"Ann", "Bob", "Cid", "Lea", "Fay"}
	fams := []domain.Family{
		family("Bar", domain.GroupDefinition{Name: "Bar", Tasks: []string{"Setup", "Close"}, LeaderCount: 1, FollowerCount: 1}),
		family("Door", domain.GroupDefinition{Name: "Door", Tasks: []string{"Door"}, AnyCount: 2}),
	}

	for iter := 0; iter < 50; iter++ {
		var tasks []domain.Task
		for i := 0; i < 30; i++ {
			tk := task(fmt.Sprintf("t%d", i), names[rng.Intn(len(names))], 1+rng.Intn(3), days[rng.Intn(len(days))])
			for _, p := range people {
				if rng.Intn(2) == 0 {
					tk.Candidates = append(tk.Candidates, p)
				}
			}
			if rng.Intn(5) == 0 && len(tk.Candidates) > 0 {
				tk.Assignee = tk.Candidates[0]
			}
			tasks = append(tasks, tk)
		}

		res, err := New(fams, roster()).Aggregate(tasks)
		require.NoError(t, err)

		ids := make(map[string]bool)
		used := make(map[string]bool)
		for _, g := range res.Groups {
			assert.False(t, ids[g.ID], "duplicate group id %s", g.ID)
			ids[g.ID] = true
			for _, ref := range g.Tasks {
				assert.False(t, used[ref.ID], "task %s in two groups", ref.ID)
				used[ref.ID] = true
			}
			for _, c := range g.FilteredCandidateList {
				assert.Contains(t, g.CandidateList, c)
			}
		}
	}
}
