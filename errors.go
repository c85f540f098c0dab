package xcell

import "errors"

// ErrUnwrapContended is returned by Unwrap when another goroutine has
// already installed itself as the unwrapper for this cell. The caller's
// handle is untouched; its refcount has not been decremented, and an
// ordinary Drop will behave as if Unwrap had never been called.
var ErrUnwrapContended = errors.New("xcell: another goroutine is already unwrapping this shared cell")

// ErrPoisoned is returned by With/WithImm when a previous
// critical section on any clone of the same Exclusive panicked before
// returning normally.
var ErrPoisoned = errors.New("xcell: poisoned exclusive - a prior critical section failed")

// ErrHandleAfterUnwrap reports use of a Handle whose pointer was cleared,
// either by a successful Unwrap call or by Drop. Unwrap returns it for
// such a handle; Clone and WithMut/WithRef panic with it.
var ErrHandleAfterUnwrap = errors.New("xcell: use of a handle neutralized by unwrap")

// errRefcountUnderflow documents the panic raised when count drops below
// zero. Drop is idempotent and a cleared handle cannot be cloned, so the
// exported API never reaches it; an underflow means the refcount
// bookkeeping itself is broken, not a recoverable runtime condition, so it
// is raised via panic rather than returned.
const errRefcountUnderflow = "xcell: refcount underflow - refcount bookkeeping is broken"
