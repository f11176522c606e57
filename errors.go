package readmostly

import (
	"fmt"
)

// TeardownError reports a Main.Close that could not prove reader
// quiescence before its context expired. The superseded payload is not
// leaked: its release was handed to the domain's deferred path.
type TeardownError struct {
	Ptr     uint64
	SyncErr error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("readmostly: close ptr %d: grace-period synchronize: %v", e.Ptr, e.SyncErr)
}

func (e *TeardownError) Unwrap() error {
	return e.SyncErr
}
