package query

import (
	"errors"
	"fmt"

	"github.com/antigravity/transit-mc-router/internal/netidx"
	"github.com/antigravity/transit-mc-router/internal/transit"
)

// Sentinel error kinds, per spec §7. Wrapped with context via fmt.Errorf's
// %w so callers can errors.Is against these exactly the way the teacher's
// repository.IsNoRows / transport_handler.go check errors.Is(err,
// pgx.ErrNoRows).
var (
	ErrUnknownStation      = errors.New("query: unknown station")
	ErrUnknownProfile      = errors.New("query: unknown rider profile")
	ErrEmptyDestinationSet = errors.New("query: destination set must not be empty")
	ErrDataIntegrity       = errors.New("query: data integrity violation")
)

func unknownStation(id transit.StationID) error {
	return fmt.Errorf("%w: %s", ErrUnknownStation, id)
}

func unknownProfile(p transit.Profile) error {
	return fmt.Errorf("%w: %s", ErrUnknownProfile, p)
}

func dataIntegrity(err *netidx.DataIntegrityError) error {
	return fmt.Errorf("%w: %s", ErrDataIntegrity, err.Error())
}
