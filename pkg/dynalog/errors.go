package dynalog

import "errors"

// Sentinel errors returned by Engine mutations, compared with
// errors.Is. Wrapped with stack-trace context from github.com/pkg/errors
// at the point each is actually returned.
var (
	// ErrPolicyConflict is returned by InsertPolicy when a policy is
	// already registered at the requested priority.
	ErrPolicyConflict = errors.New("dynalog: priority already has a policy registered")

	// ErrUnknownPriority is returned by RemovePolicy, Update and Rescan
	// when no policy is registered at the given priority.
	ErrUnknownPriority = errors.New("dynalog: no policy registered at priority")

	// ErrPolicyNotFound is returned by RemovePolicy when the supplied
	// policy does not match what is currently registered at priority.
	ErrPolicyNotFound = errors.New("dynalog: policy not registered at priority")
)
