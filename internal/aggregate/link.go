package aggregate

import "github.com/Anton2181/partykajson/internal/domain"

type familyWeek struct {
	family string
	week   int
}

// Link fills the exclusive, cooldown and intra-week cooldown lists of every
// group in place.
//
// Exclusive: same (week, day) groups named in the definition's exclusions,
// plus same-named groups of a different repeat. Cooldown: same family one
// week before or after. Intra-week: same family and week, other name.
func Link(groups []domain.Group, families []domain.Family) {
	exclusions := make(map[[2]string][]string)
	for _, fam := range families {
		for _, def := range fam.Groups {
			exclusions[[2]string{fam.Name, def.Name}] = def.Exclusive
		}
	}

	byDay := make(map[dayKey][]int)
	byFamily := make(map[familyWeek][]int)
	for i := range groups {
		g := &groups[i]
		byDay[dayKey{g.Week, g.Day}] = append(byDay[dayKey{g.Week, g.Day}], i)
		fw := familyWeek{g.Family, g.Week}
		byFamily[fw] = append(byFamily[fw], i)
	}

	for i := range groups {
		g := &groups[i]
		explicit := make(map[string]bool)
		for _, name := range exclusions[[2]string{g.Family, g.Name}] {
			explicit[name] = true
		}

		var exclusive []string
		for _, j := range byDay[dayKey{g.Week, g.Day}] {
			if j == i {
				continue
			}
			other := &groups[j]
			sameNameRepeat := other.Name == g.Name && other.RepeatIndex != g.RepeatIndex
			if explicit[other.Name] || sameNameRepeat {
				exclusive = append(exclusive, other.ID)
			}
		}

		var cooldown []string
		for _, w := range []int{g.Week - 1, g.Week + 1} {
			for _, j := range byFamily[familyWeek{g.Family, w}] {
				cooldown = append(cooldown, groups[j].ID)
			}
		}

		var intra []string
		for _, j := range byFamily[familyWeek{g.Family, g.Week}] {
			if j == i || groups[j].Name == g.Name {
				continue
			}
			intra = append(intra, groups[j].ID)
		}

		g.ExclusiveGroups = exclusive
		g.CooldownGroups = cooldown
		g.IntraCooldownGroups = intra
	}
}
