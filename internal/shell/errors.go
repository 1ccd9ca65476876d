package shell

import (
	"errors"
	"fmt"
)

// ErrCanceled is returned by a Saver when the user aborts the save
// dialog. Download treats it as success.
var ErrCanceled = errors.New("save canceled")

// UnknownKeyError reports an attempt to select a key that is not in the
// manifest. The controller guarantees no state was mutated.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown navigation key %q", e.Key)
}
