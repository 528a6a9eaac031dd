package mbox

// channel is the control-transfer primitive to the mailbox device. call
// blocks until the firmware has rewritten words in place; an error means
// the OS-level request itself failed, not that the firmware reported a
// payload-level failure.
type channel interface {
	call(words []uint32) error
	close() error
}

// mapping is one host mapping of a physical memory range.
type mapping interface {
	bytes() []byte
	unmap() error
}

// mapper creates host mappings of physical memory ranges.
type mapper interface {
	mapPhys(phys uintptr, size uint32) (mapping, error)
	close() error
}
