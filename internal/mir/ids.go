package mir

type BlockID int32
type LocalID int32
type ScopeID int32

const (
	NoBlockID BlockID = -1
	NoLocalID LocalID = -1
	NoScopeID ScopeID = -1
)

// Sentinel blocks. Every body allocates these first, in this order,
// so consumers may hard-code their indices. Dead-block elimination
// never removes EndBlock or DivergeBlock.
const (
	// StartBlock is where control enters the body.
	StartBlock BlockID = 0
	// EndBlock holds the single Return terminator.
	EndBlock BlockID = 1
	// DivergeBlock is the target of paths that never return.
	DivergeBlock BlockID = 2

	sentinelBlocks = 3
)

// ReturnLocal is the return slot. It is always present and written at
// least once before control reaches EndBlock.
const ReturnLocal LocalID = 0

// OutermostScope is the root source scope of every body.
const OutermostScope ScopeID = 0

// LocalKind distinguishes the three local lifecycles plus the return
// slot.
type LocalKind uint8

const (
	// LocalReturn is the return slot (always local 0).
	LocalReturn LocalKind = iota
	// LocalArg is bound at body entry.
	LocalArg
	// LocalUser is bound by a let / pattern match.
	LocalUser
	// LocalTemp is a compiler-introduced temporary.
	LocalTemp
)

func (k LocalKind) String() string {
	switch k {
	case LocalReturn:
		return "return"
	case LocalArg:
		return "arg"
	case LocalUser:
		return "user"
	case LocalTemp:
		return "temp"
	default:
		return "unknown"
	}
}
