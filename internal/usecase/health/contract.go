package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CaseCounter reports the number of loaded cases.
type CaseCounter interface {
	Len() int
}
