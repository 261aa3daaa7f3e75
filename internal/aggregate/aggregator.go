// Package aggregate turns raw availability rows into linked groups: the
// units of work the optimizer assigns.
package aggregate

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/Anton2181/partykajson/internal/domain"
)

// Stats summarises one aggregation pass.
type Stats struct {
	Groups       int
	Standalone   int
	Splits       int
	Rollbacks    int
	Discarded    int
	Relaxed      int
	ExclusionFix int
}

// Result holds the linked groups in creation order.
type Result struct {
	Groups []domain.Group
	Stats  Stats
}

type Option func(*Aggregator)

// WithLogger sets the logger used for rollbacks and deadlock corrections.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// Aggregator bundles tasks according to family definitions.
type Aggregator struct {
	families []domain.Family
	roster   domain.Roster
	logger   *slog.Logger
	fixes    []string
}

// New prepares an aggregator. Exclusions in families are made symmetric on
// a private copy; the caller's slice is left untouched.
func New(families []domain.Family, members []domain.TeamMember, opts ...Option) *Aggregator {
	normalized, fixes := NormalizeExclusions(families)
	a := &Aggregator{
		families: normalized,
		roster:   domain.NewRoster(members),
		logger:   slog.New(slog.DiscardHandler),
		fixes:    fixes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Families returns the normalised definitions the aggregator works from.
func (a *Aggregator) Families() []domain.Family {
	return a.families
}

// Aggregate builds, resolves and links the groups for tasks. Task ids must
// be unique.
func (a *Aggregator) Aggregate(tasks []domain.Task) (*Result, error) {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate task id %q", t.ID)
		}
		seen[t.ID] = true
	}

	r := &pass{
		agg:      a,
		queues:   buildQueues(tasks),
		consumed: make(map[string]bool),
		counters: make(map[dayKey]int),
	}
	r.stats.ExclusionFix = len(a.fixes)

	for _, ctx := range sortedContexts(tasks) {
		for _, fam := range a.families {
			for _, def := range fam.Groups {
				r.expand(ctx, fam, def)
			}
		}
	}
	r.standalone(tasks)

	r.stats.Relaxed = ResolveDeadlocks(r.groups, a.logger)
	Link(r.groups, a.families)
	r.stats.Groups = len(r.groups)

	return &Result{Groups: r.groups, Stats: r.stats}, nil
}

// pass is the mutable state of a single Aggregate call.
type pass struct {
	agg      *Aggregator
	queues   map[bucketKey]*taskQueue
	consumed map[string]bool
	counters map[dayKey]int
	groups   []domain.Group
	stats    Stats
}

// bundle is a set of tasks from one instance that will become one group.
type bundle struct {
	tasks    []domain.Task
	assignee string
	notes    []string
}

func (p *pass) queue(ctx dayKey, name string) *taskQueue {
	return p.queues[bucketKey{week: ctx.week, day: ctx.day, name: name}]
}

func (p *pass) nextNumber(ctx dayKey) int {
	p.counters[ctx]++
	return p.counters[ctx]
}

// expand creates every instance of def in ctx.
func (p *pass) expand(ctx dayKey, fam domain.Family, def domain.GroupDefinition) {
	total := def.TotalInstances()
	if total == 0 {
		p.consumeRemaining(ctx, def.Tasks)
		return
	}

	base := p.nextNumber(ctx)
	slots := roleSlots{leader: def.LeaderCount, follower: def.FollowerCount, any: def.AnyCount}

	reserved := p.reservations(ctx, def.Tasks, total)
	reservedLeader, reservedFollower := 0, 0
	for _, r := range reserved {
		switch r {
		case domain.RoleLeader:
			reservedLeader++
		case domain.RoleFollower:
			reservedFollower++
		}
	}

	for i := 0; i < total; i++ {
		repeat := i + 1
		switch reserved[i] {
		case domain.RoleLeader:
			reservedLeader--
		case domain.RoleFollower:
			reservedFollower--
		}

		tasks, ok := p.gather(ctx, def.Tasks)
		if !ok {
			p.stats.Rollbacks++
			p.agg.logger.Debug("instance abandoned, missing task",
				"group", def.Name, "week", ctx.week, "day", ctx.day, "repeat", repeat)
			continue
		}

		bundles := splitBundles(tasks)
		if len(bundles) > 1 {
			p.stats.Splits++
		}
		assignees := bundleAssignees(bundles)
		role := slots.choose(strictPreference(p.agg.roster, assignees), reservedLeader, reservedFollower)
		slots.take(role)

		for idx, b := range bundles {
			num := base
			if idx > 0 {
				num = p.nextNumber(ctx)
			}
			p.groups = append(p.groups, p.build(ctx, fam, def, b, role, assignees, num, repeat))
		}
	}

	p.consumeRemaining(ctx, def.Tasks)
}

// reservations peeks at the tasks each future instance would take and
// records the strict role its manual assignees demand.
func (p *pass) reservations(ctx dayKey, names []string, total int) []domain.Role {
	out := make([]domain.Role, total)
	for i := 0; i < total; i++ {
		var assignees []string
		for _, name := range names {
			if t, ok := p.queue(ctx, name).peek(i); ok && t.Assignee != "" {
				assignees = append(assignees, t.Assignee)
			}
		}
		if pref := strictPreference(p.agg.roster, assignees); pref != domain.RoleAny {
			out[i] = pref
		}
	}
	return out
}

// gather pops one task per required name. When any name is exhausted the
// popped tasks are pushed back and false is returned.
func (p *pass) gather(ctx dayKey, names []string) ([]domain.Task, bool) {
	var taken []domain.Task
	for _, name := range names {
		t, ok := p.queue(ctx, name).pop()
		if !ok {
			for j := len(taken) - 1; j >= 0; j-- {
				p.queue(ctx, taken[j].Name).pushFront(taken[j])
				delete(p.consumed, taken[j].ID)
			}
			return nil, false
		}
		taken = append(taken, t)
		p.consumed[t.ID] = true
	}
	return taken, true
}

// consumeRemaining claims every task still queued under names so it never
// becomes a standalone group.
func (p *pass) consumeRemaining(ctx dayKey, names []string) {
	for _, name := range names {
		q := p.queue(ctx, name)
		if q == nil {
			continue
		}
		for _, t := range q.items {
			if !p.consumed[t.ID] {
				p.consumed[t.ID] = true
				p.stats.Discarded++
			}
		}
		q.items = nil
	}
}

// splitBundles partitions an instance by manual assignee.
func splitBundles(tasks []domain.Task) []bundle {
	var users []string
	byUser := make(map[string][]domain.Task)
	var unassigned []domain.Task
	for _, t := range tasks {
		if t.Assignee == "" {
			unassigned = append(unassigned, t)
			continue
		}
		if _, ok := byUser[t.Assignee]; !ok {
			users = append(users, t.Assignee)
		}
		byUser[t.Assignee] = append(byUser[t.Assignee], t)
	}

	switch len(users) {
	case 0:
		return []bundle{{tasks: tasks}}
	case 1:
		user := users[0]
		kept := append([]domain.Task(nil), byUser[user]...)
		var leftover []domain.Task
		for _, t := range unassigned {
			if t.IsCandidate(user) {
				kept = append(kept, t)
			} else {
				leftover = append(leftover, t)
			}
		}
		if len(leftover) == 0 {
			return []bundle{{tasks: kept, assignee: user}}
		}
		return []bundle{
			{tasks: kept, assignee: user, notes: []string{"Group split due to capability mismatch."}},
			{tasks: leftover, notes: []string{"Split from original group due to assignee capability mismatch."}},
		}
	}

	out := make([]bundle, 0, len(users)+1)
	for _, user := range users {
		out = append(out, bundle{
			tasks:    byUser[user],
			assignee: user,
			notes:    []string{"Split due to multiple assignees in same group."},
		})
	}
	if len(unassigned) > 0 {
		out = append(out, bundle{tasks: unassigned, notes: []string{"Split residue from multiple assignees."}})
	}
	return out
}

func bundleAssignees(bundles []bundle) []string {
	var out []string
	for _, b := range bundles {
		if b.assignee != "" {
			out = append(out, b.assignee)
		}
	}
	return out
}

// build turns a bundle into a group with the instance-level role applied.
func (p *pass) build(ctx dayKey, fam domain.Family, def domain.GroupDefinition, b bundle,
	role domain.Role, assignees []string, num, repeat int) domain.Group {
	roster := p.agg.roster
	notes := append([]string(nil), b.notes...)
	assignee := b.assignee

	if assignee != "" && !canServe(roster, assignee, role) {
		notes = append(notes, fmt.Sprintf("Assignee %s dropped (Role Mismatch for %s).", assignee, role))
		replacement := ""
		for _, other := range assignees {
			if other != assignee && canServe(roster, other, role) {
				replacement = other
				break
			}
		}
		if replacement != "" {
			assignee = replacement
			notes = append(notes, fmt.Sprintf("Reassigned to %s (Valid Instance Assignee).", assignee))
		} else {
			assignee = ""
			notes = append(notes, "Unassigned (No valid instance assignee found).")
		}
	}
	if assignee != "" {
		notes = append(notes, fmt.Sprintf("Role set to %s (Instance-level).", role))
	}

	refs := make([]domain.TaskRef, 0, len(b.tasks))
	effort := 0.0
	for _, t := range b.tasks {
		refs = append(refs, domain.TaskRef{ID: t.ID, Name: t.Name})
		effort += t.Effort
	}

	g := domain.Group{
		ID:            groupID(ctx, num, repeat),
		Name:          def.Name,
		Family:        fam.Name,
		Role:          role,
		Week:          ctx.week,
		Day:           ctx.day,
		RepeatIndex:   repeat,
		Tasks:         refs,
		TaskCount:     len(refs),
		Effort:        round2(effort),
		CandidateList: intersectCandidates(b.tasks),
		Assignee:      assignee,
		Note:          strings.Join(notes, "; "),
	}
	finalizeCandidates(&g, roster, def.PriorityAssignees)
	return g
}

// standalone turns every unconsumed task into its own group.
func (p *pass) standalone(tasks []domain.Task) {
	var rest []domain.Task
	for _, t := range tasks {
		if !p.consumed[t.ID] && t.Week > 0 {
			rest = append(rest, t)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		a, b := rest[i], rest[j]
		ka, kb := dayKey{a.Week, a.Day}, dayKey{b.Week, b.Day}
		if ka != kb {
			return lessDay(ka, kb)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.RepeatIndex < b.RepeatIndex
	})

	for _, t := range rest {
		ctx := dayKey{week: t.Week, day: t.Day}
		num := p.nextNumber(ctx)
		candidates := sortedUnique(t.Candidates)
		p.groups = append(p.groups, domain.Group{
			ID:                    groupID(ctx, num, t.RepeatIndex),
			Name:                  t.Name,
			Family:                t.Name,
			Role:                  domain.RoleAny,
			Week:                  t.Week,
			Day:                   t.Day,
			RepeatIndex:           t.RepeatIndex,
			Tasks:                 []domain.TaskRef{{ID: t.ID, Name: t.Name}},
			TaskCount:             1,
			Effort:                round2(t.Effort),
			CandidateList:         candidates,
			FilteredCandidateList: append([]string(nil), candidates...),
			Assignee:              t.Assignee,
		})
		p.stats.Standalone++
	}
}

func groupID(ctx dayKey, num, repeat int) string {
	return fmt.Sprintf("G%d_%d_%d_%d", ctx.week, domain.DayNumber(ctx.day), num, repeat)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
