package payments

// ProviderError is a request the provider rejected (bad ID, bad cursor,
// and so on). The message is the provider's own and is safe to show to an
// admin; it is never retried.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "provider rejected the request"
}
