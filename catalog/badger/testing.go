package badger

// NewMemoryClient creates a client over an in-memory database for testing.
// Closing the client closes the database.
func NewMemoryClient(opts ...Option) (*Client, error) {
	c, err := NewClient(&Backend{}, opts...)
	if err != nil {
		return nil, err
	}
	backend, err := OpenBackend("", true, c.logger)
	if err != nil {
		return nil, err
	}
	c.backend = backend
	c.owned = true
	return c, nil
}
