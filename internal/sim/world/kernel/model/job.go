package model

type JobKind string

// Job holds the declared-needed items of a citizen's job, keyed by item id
// and kept in first-declared order.
type Job struct {
	Kind      JobKind
	CitizenID string

	order  []string
	needed map[string]ItemStack
}

func NewJob(kind JobKind, citizenID string) *Job {
	return &Job{Kind: kind, CitizenID: citizenID}
}

func (j *Job) Name() string { return string(j.Kind) }

func (j *Job) ClearItemsNeeded() {
	j.order = nil
	j.needed = nil
}

func (j *Job) AddItemNeeded(s ItemStack) {
	if s.Count <= 0 {
		return
	}
	if j.needed == nil {
		j.needed = map[string]ItemStack{}
	}
	cur, ok := j.needed[s.Item.ID]
	if !ok {
		j.order = append(j.order, s.Item.ID)
		cur = ItemStack{Item: s.Item}
	}
	cur.Count += s.Count
	j.needed[s.Item.ID] = cur
}

// RemoveItemNeeded subtracts every unit of s from the matching requirement.
func (j *Job) RemoveItemNeeded(s ItemStack) {
	cur, ok := j.needed[s.Item.ID]
	if !ok || s.Count <= 0 {
		return
	}
	cur.Count -= s.Count
	if cur.Count > 0 {
		j.needed[s.Item.ID] = cur
		return
	}
	delete(j.needed, s.Item.ID)
	for i, id := range j.order {
		if id == s.Item.ID {
			j.order = append(j.order[:i], j.order[i+1:]...)
			break
		}
	}
}

func (j *Job) ItemsNeeded() []ItemStack {
	out := make([]ItemStack, 0, len(j.order))
	for _, id := range j.order {
		out = append(out, j.needed[id])
	}
	return out
}
