package property

// Tag identifies one firmware operation within a property message.
type Tag uint32

// Property tags understood by this stack. The firmware defines many more;
// these are the ones the transport exposes.
const (
	TagFirmwareRevision Tag = 0x00000001 // Get firmware revision
	TagBoardModel       Tag = 0x00010001 // Get board model
	TagBoardRevision    Tag = 0x00010002 // Get board revision
	TagMACAddress       Tag = 0x00010003 // Get board MAC address
	TagBoardSerial      Tag = 0x00010004 // Get board serial number
	TagARMMemory        Tag = 0x00010005 // Get ARM memory base and size
	TagVCMemory         Tag = 0x00010006 // Get VideoCore memory base and size
	TagAllocateMemory   Tag = 0x0003000c // Allocate GPU memory, returns handle
	TagLockMemory       Tag = 0x0003000d // Lock handle, returns bus address
	TagUnlockMemory     Tag = 0x0003000e // Unlock handle
	TagReleaseMemory    Tag = 0x0003000f // Release handle
	TagExecuteCode      Tag = 0x00030010 // Run code at bus address with r0-r5
	TagExecuteQPU       Tag = 0x00030011 // Run QPU control lists
	TagEnableQPU        Tag = 0x00030012 // Enable or disable the QPUs
	TagEnd              Tag = 0x00000000 // End-of-message marker
)

// shape declares the fixed request and response word counts of a tag.
type shape struct {
	req  int
	resp int
}

// tagShapes is the static wire contract per tag. A message constructor
// consults this table to size the buffer and validate the request payload.
var tagShapes = map[Tag]shape{
	TagFirmwareRevision: {0, 1},
	TagBoardModel:       {0, 1},
	TagBoardRevision:    {0, 1},
	TagMACAddress:       {0, 2},
	TagBoardSerial:      {0, 2},
	TagARMMemory:        {0, 2},
	TagVCMemory:         {0, 2},
	TagAllocateMemory:   {3, 1},
	TagLockMemory:       {1, 1},
	TagUnlockMemory:     {1, 1},
	TagReleaseMemory:    {1, 1},
	TagExecuteCode:      {7, 1},
	TagExecuteQPU:       {4, 1},
	TagEnableQPU:        {1, 1},
}

// Shape returns the declared request and response word counts for tag.
// The second result is false for tags this package does not know.
func Shape(tag Tag) (reqWords, respWords int, ok bool) {
	s, ok := tagShapes[tag]
	return s.req, s.resp, ok
}

// String returns a short name for the tag.
func (t Tag) String() string {
	switch t {
	case TagFirmwareRevision:
		return "firmware-revision"
	case TagBoardModel:
		return "board-model"
	case TagBoardRevision:
		return "board-revision"
	case TagMACAddress:
		return "mac-address"
	case TagBoardSerial:
		return "board-serial"
	case TagARMMemory:
		return "arm-memory"
	case TagVCMemory:
		return "vc-memory"
	case TagAllocateMemory:
		return "allocate-memory"
	case TagLockMemory:
		return "lock-memory"
	case TagUnlockMemory:
		return "unlock-memory"
	case TagReleaseMemory:
		return "release-memory"
	case TagExecuteCode:
		return "execute-code"
	case TagExecuteQPU:
		return "execute-qpu"
	case TagEnableQPU:
		return "enable-qpu"
	case TagEnd:
		return "end"
	default:
		return "unknown"
	}
}
