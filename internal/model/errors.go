package model

import (
	"errors"
	"fmt"
)

var (
	ErrAuth               = errors.New("reddit rejected the client credentials")
	ErrEnrichmentDegraded = errors.New("enrichment degraded to fallback analysis")
)

// ConfigError reports a credential or setting that must be supplied through the environment.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing %s env var", e.Key)
}

const (
	StageToken  = "token"
	StageSearch = "search"
)

type FetchError struct {
	Stage string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("reddit %s request failed: %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
