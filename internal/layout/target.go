package layout

import "encoding/binary"

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple    string // e.g. "x86_64-linux-gnu"
	PtrSize   int    // bytes
	PtrAlign  int    // bytes
	BigEndian bool
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:   "x86_64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
	}
}

// ByteOrder returns the target's scalar byte order.
func (t Target) ByteOrder() binary.ByteOrder {
	if t.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
