package board

import "github.com/sandeepkv93/taskboard/internal/model"

type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadCard
	PayloadColumn
)

// Payload is the data a gesture source attaches to a drag start or a drop
// target: either a card (the task under the pointer) or a column (a status).
// The zero value carries nothing.
type Payload struct {
	kind   PayloadKind
	task   model.Task
	status model.Status
}

func CardPayload(task model.Task) Payload {
	return Payload{kind: PayloadCard, task: task}
}

func ColumnPayload(status model.Status) Payload {
	return Payload{kind: PayloadColumn, status: status}
}

func (p Payload) Kind() PayloadKind { return p.kind }

func (p Payload) Card() (model.Task, bool) {
	if p.kind != PayloadCard {
		return model.Task{}, false
	}
	return p.task, true
}

func (p Payload) Column() (model.Status, bool) {
	if p.kind != PayloadColumn {
		return "", false
	}
	return p.status, true
}
