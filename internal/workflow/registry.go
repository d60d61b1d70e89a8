package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/raghuporumamila/generic-bigquery/pkg/errors"
)

// Task is one declarative execution unit handed to the scheduler: a
// SQL statement plus the connection and location needed to run it.
// The SQL is stored exactly as registered, never re-rendered.
type Task struct {
	ID           string
	SQL          string
	UseLegacySQL bool // always false: the procedure call requires standard SQL
	Location     string
	ConnectionID string
	Priority     string
	Labels       map[string]string
	DependsOn    []string
}

// Registry is the workflow graph for one definition load. It is an
// explicit object rather than an ambient process-wide context, so
// registration has no hidden global state.
type Registry struct {
	name  string
	tasks map[string]*Task
	order []string
}

// NewRegistry creates an empty workflow registry
func NewRegistry(name string) *Registry {
	return &Registry{
		name:  name,
		tasks: make(map[string]*Task),
	}
}

// Name returns the workflow name
func (r *Registry) Name() string {
	return r.name
}

// Register adds one task to the workflow graph and returns the stored
// handle. Registration fails on a missing required field or a
// duplicate task ID; it performs no transformation of the SQL text.
func (r *Registry) Register(task Task) (*Task, error) {
	required := []struct {
		field string
		value string
	}{
		{"task_id", task.ID},
		{"sql", task.SQL},
		{"location", task.Location},
		{"connection_id", task.ConnectionID},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			return nil, errors.InvalidArgument(req.field, "must not be empty").
				WithContext("task_id", task.ID)
		}
	}

	if task.UseLegacySQL {
		return nil, errors.InvalidArgument("use_legacy_sql",
			"stored procedure calls require standard SQL").
			WithContext("task_id", task.ID)
	}

	if _, exists := r.tasks[task.ID]; exists {
		return nil, errors.New(errors.ErrCodeDuplicateTask,
			fmt.Sprintf("task %q is already registered", task.ID)).
			WithContext("workflow", r.name)
	}

	stored := task
	r.tasks[task.ID] = &stored
	r.order = append(r.order, task.ID)
	return &stored, nil
}

// Get returns a registered task by ID
func (r *Registry) Get(id string) (*Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeTaskNotFound,
			fmt.Sprintf("task %q is not registered", id)).
			WithContext("workflow", r.name)
	}
	return task, nil
}

// Len returns the number of registered tasks
func (r *Registry) Len() int {
	return len(r.tasks)
}

// Validate checks the graph edges: every dependency must reference a
// registered task and the graph must be acyclic. A bad edge fails the
// whole definition, matching scheduler semantics where a malformed
// workflow never loads.
func (r *Registry) Validate() error {
	for _, id := range r.order {
		for _, dep := range r.tasks[id].DependsOn {
			if dep == id {
				return errors.New(errors.ErrCodeDependencyCycle,
					fmt.Sprintf("task %q depends on itself", id)).
					WithContext("workflow", r.name)
			}
			if _, ok := r.tasks[dep]; !ok {
				return errors.New(errors.ErrCodeUnknownDependency,
					fmt.Sprintf("task %q depends on unregistered task %q", id, dep)).
					WithContext("workflow", r.name)
			}
		}
	}

	if _, err := r.Order(); err != nil {
		return err
	}
	return nil
}

// Order returns the task IDs in dependency order. Tasks with no
// ordering constraint between them keep registration order.
func (r *Registry) Order() ([]string, error) {
	indegree := make(map[string]int, len(r.tasks))
	dependents := make(map[string][]string, len(r.tasks))

	for _, id := range r.order {
		indegree[id] = len(r.tasks[id].DependsOn)
		for _, dep := range r.tasks[id].DependsOn {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []string
	for _, id := range r.order {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	ordered := make([]string, 0, len(r.tasks))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		ordered = append(ordered, id)

		next := dependents[id]
		sort.Strings(next)
		for _, dependent := range next {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(ordered) != len(r.tasks) {
		return nil, errors.New(errors.ErrCodeDependencyCycle,
			"workflow contains a dependency cycle").
			WithContext("workflow", r.name)
	}
	return ordered, nil
}

// Tasks returns the registered tasks in dependency order
func (r *Registry) Tasks() ([]*Task, error) {
	ids, err := r.Order()
	if err != nil {
		return nil, err
	}
	tasks := make([]*Task, len(ids))
	for i, id := range ids {
		tasks[i] = r.tasks[id]
	}
	return tasks, nil
}
