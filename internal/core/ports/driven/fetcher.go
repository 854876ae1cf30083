package driven

import "context"

// DocumentFetcher retrieves raw document bytes for a locator.
type DocumentFetcher interface {
	// Fetch returns the body of url when the server answers 200.
	// Any other status or transport error returns a *domain.FetchError.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
