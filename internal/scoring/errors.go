package scoring

import (
	"fmt"

	"github.com/abhisek/gradewise/internal/task"
)

// ConfigError indicates a task needs an external judgment but nothing was
// supplied to judge it with.
type ConfigError struct {
	TaskType task.Type
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scoring %s task: %s", e.TaskType, e.Reason)
}
