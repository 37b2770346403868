package audit

import "degreeaudit/internal/audit/models"

// NamedItems lists every course a requirement tree names explicitly: FIXED
// and FIXED_LIST courses, OR options and PICK_FROM_LIST pools. Order follows
// a depth-first walk and duplicates are dropped. Department, category and
// any-course selectors name no concrete course and contribute nothing.
func NamedItems(node models.Node) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(ids ...string) {
		for _, id := range ids {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}

	var walk func(models.Node)
	walk = func(n models.Node) {
		switch b := n.Body.(type) {
		case models.And:
			for _, c := range b.Children {
				walk(c)
			}
		case models.Or:
			add(b.Options...)
			for _, c := range b.Children {
				walk(c)
			}
		case models.Fixed:
			add(b.Course)
		case models.FixedList:
			add(b.Courses...)
		case models.PickFromList:
			add(b.Pool...)
		}
	}
	walk(node)
	return out
}
