package aggregate

import (
	"fmt"
	"slices"

	"github.com/Anton2181/partykajson/internal/domain"
)

// NormalizeExclusions returns a deep copy of families in which every
// exclusion is reciprocal, along with a line per added entry. Exclusions
// naming unknown groups are kept as they are.
func NormalizeExclusions(families []domain.Family) ([]domain.Family, []string) {
	out := make([]domain.Family, len(families))
	type loc struct{ fam, grp int }
	index := make(map[string]loc)
	for fi, fam := range families {
		out[fi] = domain.Family{Name: fam.Name, Groups: make([]domain.GroupDefinition, len(fam.Groups))}
		for gi, def := range fam.Groups {
			def.Tasks = slices.Clone(def.Tasks)
			def.Exclusive = slices.Clone(def.Exclusive)
			def.PriorityAssignees = slices.Clone(def.PriorityAssignees)
			out[fi].Groups[gi] = def
			index[def.Name] = loc{fi, gi}
		}
	}

	var fixes []string
	for fi := range out {
		for gi := range out[fi].Groups {
			def := &out[fi].Groups[gi]
			for _, target := range def.Exclusive {
				at, ok := index[target]
				if !ok {
					continue
				}
				other := &out[at.fam].Groups[at.grp]
				if slices.Contains(other.Exclusive, def.Name) {
					continue
				}
				other.Exclusive = append(other.Exclusive, def.Name)
				fixes = append(fixes, fmt.Sprintf("%q now excludes %q (reciprocal of existing rule)", target, def.Name))
			}
		}
	}
	return out, fixes
}
