// commit_many.go - CommitMany, a convenience wrapper over
// CommitReferences for several variables. Not part of the original
// six-operation contract; added because committing a batch of
// independent variables is a common caller pattern and the registry
// lookup ahead of each variable's batch is read-only and safe to
// overlap.
package multiverse

import "golang.org/x/sync/errgroup"

// CommitMany runs CommitReferences for each of vars. Each call still
// serializes its variant selection and patch application through the
// engine's single commit mutex (§5's stop-the-world discipline is never
// relaxed); only the registry lookup of each variable's referencing
// functions, which runs before that mutex is taken, can overlap across
// variables.
func (e *Engine) CommitMany(vars []*TrackedVariable) (int, error) {
	results := make([]int, len(vars))

	var g errgroup.Group
	for i, v := range vars {
		i, v := i, v
		g.Go(func() error {
			n, err := e.CommitReferences(v)
			if err != nil {
				return err
			}
			results[i] = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return -1, err
	}

	total := 0
	for _, n := range results {
		total += n
	}
	return total, nil
}
