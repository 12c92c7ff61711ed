package domain

// Registry maps task IDs to task records for one conversation thread.
// The orchestrator inserts freshly dispatched tasks; the external worker
// merges status and results back in through the store's update path.
type Registry map[string]Task

// Insert registers a newly dispatched task. The ID must not already be in
// use; dispatch assigns IDs exactly once.
func (r Registry) Insert(t Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := r[t.ID]; exists {
		return ErrTaskAlreadyRegistered
	}
	r[t.ID] = t
	return nil
}

// Merge applies a map of partial task records key by key. An existing task
// absorbs its patch field-wise; an unknown ID inserts a new record built
// from the patch. The registry is never wholesale-replaced, so tasks
// dispatched concurrently with an external update are not lost.
func (r Registry) Merge(patches map[string]TaskPatch) error {
	for id, patch := range patches {
		existing, ok := r[id]
		if !ok {
			status := patch.Status
			if status == "" {
				status = TaskStatusProcessing
			}
			t := Task{
				ID:      id,
				Type:    patch.Type,
				Status:  status,
				Args:    patch.Args,
				Results: patch.Results,
			}
			if err := t.Validate(); err != nil {
				return err
			}
			r[id] = t
			continue
		}

		if err := existing.Apply(patch); err != nil {
			return err
		}
		r[id] = existing
	}
	return nil
}

// Clone returns a deep copy so a cycle can mutate its working registry
// without aliasing the committed state.
func (r Registry) Clone() Registry {
	out := make(Registry, len(r))
	for id, t := range r {
		out[id] = t.Clone()
	}
	return out
}
