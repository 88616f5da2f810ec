package worker

import (
	"time"
)

// Job asks the worker to archive Source.
type Job struct {
	Source    string
	Scheduled time.Time
}
