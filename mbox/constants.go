package mbox

// =============================================================================
// System Paths
// =============================================================================

// DefaultDevicePath is the mailbox character device node.
const DefaultDevicePath = "/dev/vcio"

// DefaultMemPath is the physical memory device used to map GPU buffers
// into the host address space.
const DefaultMemPath = "/dev/mem"

// vcioMajor is the character device major number of the mailbox driver,
// used in the ioctl request and in the mknod remediation hint.
const vcioMajor = 100

// =============================================================================
// Handles and Addresses
// =============================================================================

// Handle is an opaque firmware identifier for a GPU memory allocation.
// Zero is never a valid handle.
type Handle uint32

// BusAddress is an address meaningful to the GPU side of a shared memory
// region. Zero indicates no address.
type BusAddress uint32

// =============================================================================
// Memory Flags
// =============================================================================

// MemoryFlag is a firmware-defined allocation flag bitmask. The transport
// passes it through unmodified; the constants below are the documented
// values and carry no meaning on the host side.
type MemoryFlag uint32

// Known allocation flags.
const (
	MemFlagDiscardable     MemoryFlag = 1 << 0 // Can be resized to 0 at any time
	MemFlagNormal          MemoryFlag = 0 << 2 // Normal allocating alias, uncached
	MemFlagDirect          MemoryFlag = 1 << 2 // 0xC alias, uncached
	MemFlagCoherent        MemoryFlag = 2 << 2 // 0x8 alias, non-allocating in L2 but coherent
	MemFlagZero            MemoryFlag = 1 << 4 // Initialise buffer to all zeros
	MemFlagNoInit          MemoryFlag = 1 << 5 // Don't initialise (default is to initialise to all ones)
	MemFlagHintPermalock   MemoryFlag = 1 << 6 // Likely to be locked for long periods of time
	MemFlagL1Nonallocating MemoryFlag = MemFlagDirect | MemFlagCoherent
)
