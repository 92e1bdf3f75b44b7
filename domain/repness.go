package domain

// RepfulTids holds the representative tids of every opinion group split by
// the direction the group leans. A group without entries for a direction
// has no key in that map.
type RepfulTids struct {
	Agree    map[int][]int `json:"agree"`
	Disagree map[int][]int `json:"disagree"`
}

func IndexRepness(repness map[string][]RepnessEntry) RepfulTids {
	out := RepfulTids{
		Agree:    make(map[int][]int),
		Disagree: make(map[int][]int),
	}
	for key, entries := range repness {
		gid, ok := parseID(key)
		if !ok {
			continue
		}
		for _, entry := range entries {
			switch entry.RepfulFor {
			case RepfulForAgree:
				out.Agree[gid] = append(out.Agree[gid], entry.Tid)
			case RepfulForDisagree:
				out.Disagree[gid] = append(out.Disagree[gid], entry.Tid)
			}
		}
	}
	return out
}
