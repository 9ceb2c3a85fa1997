package domain

import "errors"

var (
	// ErrInvalidArgument is returned when an iteration count or parameter is rejected
	// before a simulation starts.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrComputationDegenerate is returned when there is nothing to aggregate.
	ErrComputationDegenerate = errors.New("computation degenerate")

	// ErrUnknownScenario is returned when a scenario name is not in the active set.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrUnknownStartup is returned when a startup id is not configured.
	ErrUnknownStartup = errors.New("unknown startup")
)
