package gateway

import (
	"errors"
	"fmt"

	"github.com/eigerco/bilberry/internal/chaintime"
)

// ErrNotImplemented marks an operation that is a deliberate stub, as
// opposed to data that is merely absent right now. Callers can rely on the
// distinction: absent data may appear later, a stub will not.
var ErrNotImplemented = errors.New("operation not implemented")

// NotFoundError reports that the requested epoch has no recorded slot
// leaders. Descriptor identifies the epoch the caller asked about: the
// literal "current" when the epoch was defaulted, or an ordinal rendering
// such as "for the 8th epoch" when one was named. The descriptor text is
// part of the gateway's observable contract and ends up in error bodies.
type NotFoundError struct {
	Descriptor string
}

func (e *NotFoundError) Error() string {
	return "slot leaders unavailable: " + e.Descriptor
}

// newLeadersNotFound builds the NotFoundError for a leader lookup, keeping
// the defaulted/named distinction visible to the caller.
func newLeadersNotFound(epoch *chaintime.Epoch) *NotFoundError {
	if epoch == nil {
		return &NotFoundError{Descriptor: "current"}
	}
	return &NotFoundError{Descriptor: fmt.Sprintf("for the %s epoch", ordinal(uint32(*epoch)))}
}

// ordinal renders n as an English ordinal: 1st, 2nd, 3rd, 4th, 11th...
func ordinal(n uint32) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
		// 11th, 12th, 13th keep "th"
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
