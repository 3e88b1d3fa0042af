package audio

import "fmt"

// ReleaseStep is a single named teardown action for an audio resource.
type ReleaseStep struct {
	Name  string
	Close func() error
}

// Release runs every step in order, never stopping early. A failing step must
// not prevent the remaining resources from being released, so failures are
// collected and returned instead of short-circuiting.
func Release(steps ...ReleaseStep) []error {
	var errs []error
	for _, step := range steps {
		if step.Close == nil {
			continue
		}
		if err := runReleaseStep(step); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func runReleaseStep(step ReleaseStep) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to release %s: panic: %v", step.Name, r)
		}
	}()

	if closeErr := step.Close(); closeErr != nil {
		return fmt.Errorf("failed to release %s: %w", step.Name, closeErr)
	}
	return nil
}
