package homework

import "context"

// StatusClient fetches homework statuses changed since the given Unix timestamp.
type StatusClient interface {
	FetchStatuses(ctx context.Context, fromDate int64) (*StatusResponse, error)
}
