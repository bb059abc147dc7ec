package domain

import "context"

// Geocoder resolves a free-form address to candidate locations.
type Geocoder interface {
	Search(ctx context.Context, address string) ([]AddressCandidate, error)
}

// PropertySource lists suburbs and their power-line data.
type PropertySource interface {
	ListSuburbs(ctx context.Context) ([]SuburbRef, error)
	SelectSuburb(ctx context.Context, suburb SuburbRef) (SuburbLines, error)
}
