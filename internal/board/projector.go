package board

import "github.com/sandeepkv93/taskboard/internal/model"

// Columns is the partitioned board view: one ordered bucket per status.
// Every status in model.Statuses is always present as a key.
type Columns map[model.Status][]model.Task

// Project places each task into the bucket matching its status, keeping input
// order within a bucket. Tasks with an unrecognized status are dropped.
func Project(tasks []model.Task) Columns {
	cols := emptyColumns()
	for _, t := range tasks {
		if !t.Status.IsValid() {
			continue
		}
		cols[t.Status] = append(cols[t.Status], t.Clone())
	}
	return cols
}

func emptyColumns() Columns {
	cols := make(Columns, len(model.Statuses))
	for _, s := range model.Statuses {
		cols[s] = []model.Task{}
	}
	return cols
}

func (c Columns) Bucket(s model.Status) []model.Task {
	return c[s]
}

// Flatten concatenates the buckets in column order.
func (c Columns) Flatten() []model.Task {
	out := make([]model.Task, 0, c.Len())
	for _, s := range model.Statuses {
		out = append(out, c[s]...)
	}
	return out
}

func (c Columns) Len() int {
	n := 0
	for _, s := range model.Statuses {
		n += len(c[s])
	}
	return n
}

// Find locates id and returns its bucket and index.
func (c Columns) Find(id string) (model.Status, int, bool) {
	for _, s := range model.Statuses {
		for i, t := range c[s] {
			if t.ID == id {
				return s, i, true
			}
		}
	}
	return "", -1, false
}

func (c Columns) Task(id string) (model.Task, bool) {
	s, i, ok := c.Find(id)
	if !ok {
		return model.Task{}, false
	}
	return c[s][i], true
}

func (c Columns) IDs(s model.Status) []string {
	out := make([]string, 0, len(c[s]))
	for _, t := range c[s] {
		out = append(out, t.ID)
	}
	return out
}

func (c Columns) clone() Columns {
	out := make(Columns, len(c))
	for s, bucket := range c {
		out[s] = cloneTasks(bucket)
	}
	return out
}
