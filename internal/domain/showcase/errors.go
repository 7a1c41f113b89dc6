package showcase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrCannotReschedule = errors.New("showcase cannot be rescheduled")
	ErrAlreadyFinished  = errors.New("showcase finished already")
	ErrNotStarted       = errors.New("showcase must be started first")
	ErrRemoved          = errors.New("showcase has been removed")
)

type FieldErrors map[string]string

// ValidationError rejects a structurally invalid command. It carries a
// field→reason map rather than a single message so the API layer can return
// all violations at once.
type ValidationError struct {
	Fields FieldErrors
}

func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid command"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid command: " + strings.Join(parts, "; ")
}
