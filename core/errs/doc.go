// Package errs defines the error taxonomy shared by every comparison component.
//
// Components wrap one of the sentinel errors below so callers can branch with
// errors.Is regardless of which adapter or engine produced the failure:
//
//	return fmt.Errorf("%w: table %s not found", errs.ErrSchema, table)
//
// # Fatal vs recovered
//
// ErrConnection, ErrTimeout, ErrSchema, ErrResourceLimit and ErrCancelled abort a
// comparison run and move it to the failed state. ErrEmptyMapping is raised
// before a run exists. ErrTypeCoercion and ErrDispatch are recovered locally:
// the former becomes a warning counter on the run, the latter an entry in the
// dispatcher's failed list.
//
// KindOf renders the category string that is persisted on failed runs and
// returned by the HTTP layer.
package errs
