package harvester

// withAttempts runs fn up to maxAttempts times and returns nil on the first
// success, otherwise the last error.
func withAttempts(maxAttempts int, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
