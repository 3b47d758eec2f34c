package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// MirInvalidBody is the internal-consistency failure reported when a
	// body fails validation after passes ran. Not reachable from a
	// well-typed program.
	MirInvalidBody Code = 5001
)

func (c Code) String() string {
	return fmt.Sprintf("M%04d", uint16(c))
}
