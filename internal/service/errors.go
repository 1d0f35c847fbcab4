package service

// ConfigurationError reports a request that cannot be served because of
// missing or invalid configuration (unknown provider, absent credential,
// failed agent construction). It is fatal to the current request and is
// never retried.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ExternalCapabilityError reports a failed agent invocation. The original
// error message is preserved for diagnostics.
type ExternalCapabilityError struct {
	Err error
}

func (e *ExternalCapabilityError) Error() string {
	return "query execution failed: " + e.Err.Error()
}

func (e *ExternalCapabilityError) Unwrap() error { return e.Err }
