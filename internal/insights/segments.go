package insights

import "conceptlab/internal/model"

type segment struct {
	name    string
	members []Input
}

// partition applies the non-exclusive segment predicates. Fixed segments come
// first, then one segment per city in first-seen order. Empty segments are dropped.
func partition(inputs []Input) []segment {
	fixed := []struct {
		name string
		pred func(p *model.Persona) bool
	}{
		{model.SegmentHigherTier, func(p *model.Persona) bool { return p.SocioeconomicTier.IsHigher() }},
		{model.SegmentLowerTier, func(p *model.Persona) bool { return p.SocioeconomicTier.IsLower() }},
		{model.SegmentUsers, func(p *model.Persona) bool { return p.Brand.IsCurrentUser }},
		{model.SegmentNonUsers, func(p *model.Persona) bool { return !p.Brand.IsCurrentUser }},
	}

	out := make([]segment, 0, len(fixed))
	for _, f := range fixed {
		seg := segment{name: f.name}
		for _, in := range inputs {
			if f.pred(&in.Persona) {
				seg.members = append(seg.members, in)
			}
		}
		if len(seg.members) > 0 {
			out = append(out, seg)
		}
	}

	cities := map[string]int{}
	for _, in := range inputs {
		city := in.Persona.City
		if city == "" {
			continue
		}
		idx, ok := cities[city]
		if !ok {
			idx = len(out)
			cities[city] = idx
			out = append(out, segment{name: model.CitySegmentPrefix + city})
		}
		out[idx].members = append(out[idx].members, in)
	}
	return out
}
