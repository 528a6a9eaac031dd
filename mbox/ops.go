package mbox

import (
	"fmt"
	"os"
	"time"

	"github.com/ardnew/vcmbox/pkg"
	"github.com/ardnew/vcmbox/property"
)

// =============================================================================
// QPU Control
// =============================================================================

// EnableQPU enables or disables the QPUs. The firmware keeps an internal
// reference count: it answers 0 for the first enable (or last disable) and
// 0x80000000 when the QPUs were already active, so repeated enables are
// idempotent. Any other status is an error.
func (m *Mailbox) EnableQPU(enable bool) error {
	var v uint32
	if enable {
		v = 1
	}

	msg := property.NewQuery(property.TagEnableQPU, v)
	if err := m.call(msg); err != nil {
		return err
	}

	if w := msg.Word(0); w != 0 && w != 0x80000000 {
		return fmt.Errorf("%w: status %#x", pkg.ErrEnableQPU, w)
	}
	return nil
}

// =============================================================================
// Memory Operations
// =============================================================================

// MemAlloc allocates size bytes of GPU memory and returns its firmware
// handle. The alignment is floored up to the host page size regardless of
// the caller's request, since unmapping the buffer later requires a
// page-aligned mapping.
func (m *Mailbox) MemAlloc(size, alignment uint32, flags MemoryFlag) (Handle, error) {
	if size == 0 {
		return 0, fmt.Errorf("%w: zero-size allocation", pkg.ErrInvalidParameter)
	}
	if ps := uint32(os.Getpagesize()); alignment < ps {
		alignment = ps
	}

	msg := property.New(property.TagAllocateMemory, []uint32{size, alignment, uint32(flags)})
	if err := m.call(msg); err != nil {
		return 0, err
	}

	h := Handle(msg.Word(0))
	if h == 0 {
		return 0, fmt.Errorf("%w: %d bytes, alignment %d", pkg.ErrAllocFailed, size, alignment)
	}
	return h, nil
}

// MemLock locks an allocated handle in place and returns its device bus
// address.
func (m *Mailbox) MemLock(handle Handle) (BusAddress, error) {
	msg := property.NewQuery(property.TagLockMemory, uint32(handle))
	if err := m.call(msg); err != nil {
		return 0, err
	}

	bus := BusAddress(msg.Word(0))
	if bus == 0 {
		return 0, fmt.Errorf("%w: handle %d", pkg.ErrLockFailed, handle)
	}
	return bus, nil
}

// MemUnlock unlocks a locked handle. The bus address obtained from
// [Mailbox.MemLock] is invalid afterwards.
func (m *Mailbox) MemUnlock(handle Handle) error {
	msg := property.NewQuery(property.TagUnlockMemory, uint32(handle))
	if err := m.call(msg); err != nil {
		return err
	}
	if w := msg.Word(0); w != 0 {
		return fmt.Errorf("%w: handle %d, status %#x", pkg.ErrUnlockFailed, handle, w)
	}
	return nil
}

// MemFree releases an allocated handle back to the firmware.
func (m *Mailbox) MemFree(handle Handle) error {
	msg := property.NewQuery(property.TagReleaseMemory, uint32(handle))
	if err := m.call(msg); err != nil {
		return err
	}
	if w := msg.Word(0); w != 0 {
		return fmt.Errorf("%w: handle %d, status %#x", pkg.ErrFreeFailed, handle, w)
	}
	return nil
}

// =============================================================================
// Execution
// =============================================================================

// ExecuteCode invokes a device-side entry point at the given bus address
// with six register arguments, blocking until it returns.
func (m *Mailbox) ExecuteCode(code BusAddress, r0, r1, r2, r3, r4, r5 uint32) error {
	msg := property.New(property.TagExecuteCode, []uint32{uint32(code), r0, r1, r2, r3, r4, r5})
	if err := m.call(msg); err != nil {
		return err
	}
	if w := msg.Word(0); w != 0 {
		return fmt.Errorf("%w: execute code, status %#x", pkg.ErrExecFailed, w)
	}
	return nil
}

// maxQPUTimeout is the largest timeout the firmware's 32-bit millisecond
// field can carry.
const maxQPUTimeout = time.Duration(0xFFFFFFFF) * time.Millisecond

// ExecuteQPU submits numQPUs control-list pointers at the control bus
// address for execution. flush=false asks the firmware to skip its default
// L1/L2 data cache flush before running, which is faster but only correct
// when the caller knows no stale cache lines cover the executed code.
//
// The timeout travels to the firmware as 32-bit milliseconds; a value
// outside that range is rejected with [pkg.ErrTimeoutRange] before any
// call is made.
func (m *Mailbox) ExecuteQPU(numQPUs uint32, control BusAddress, flush bool, timeout time.Duration) error {
	ms := timeout.Milliseconds()
	if ms < 0 || ms > 0xFFFFFFFF {
		return fmt.Errorf("%w: %v", pkg.ErrTimeoutRange, timeout)
	}

	noFlush := uint32(1)
	if flush {
		noFlush = 0
	}

	msg := property.New(property.TagExecuteQPU, []uint32{numQPUs, uint32(control), noFlush, uint32(ms)})
	if err := m.call(msg); err != nil {
		return err
	}
	if w := msg.Word(0); w != 0 {
		return fmt.Errorf("%w: execute QPU, status %#x", pkg.ErrExecFailed, w)
	}
	return nil
}

// =============================================================================
// Firmware Queries
// =============================================================================

// VCMemory reports the base address and size of the memory region owned by
// the VideoCore.
func (m *Mailbox) VCMemory() (base, size uint32, err error) {
	msg := property.NewSimpleQuery(property.TagVCMemory)
	if err := m.call(msg); err != nil {
		return 0, 0, err
	}
	return msg.Word(0), msg.Word(1), nil
}

// ARMMemory reports the base address and size of the memory region owned
// by the ARM cores.
func (m *Mailbox) ARMMemory() (base, size uint32, err error) {
	msg := property.NewSimpleQuery(property.TagARMMemory)
	if err := m.call(msg); err != nil {
		return 0, 0, err
	}
	return msg.Word(0), msg.Word(1), nil
}

// TotalGPUMemory returns half of the VideoCore memory size in bytes. The
// other half stays reserved for the firmware and video pipeline.
func (m *Mailbox) TotalGPUMemory() (uint32, error) {
	_, size, err := m.VCMemory()
	if err != nil {
		return 0, err
	}
	return size / 2, nil
}

// FirmwareRevision returns the firmware revision.
func (m *Mailbox) FirmwareRevision() (uint32, error) {
	return m.queryWord(property.TagFirmwareRevision)
}

// BoardModel returns the board model identifier.
func (m *Mailbox) BoardModel() (uint32, error) {
	return m.queryWord(property.TagBoardModel)
}

// BoardRevision returns the board revision identifier.
func (m *Mailbox) BoardRevision() (uint32, error) {
	return m.queryWord(property.TagBoardRevision)
}

// BoardSerial returns the board serial number.
func (m *Mailbox) BoardSerial() (uint64, error) {
	return m.queryDouble(property.TagBoardSerial)
}

// MACAddress returns the board MAC address in its low 48 bits.
func (m *Mailbox) MACAddress() (uint64, error) {
	mac, err := m.queryDouble(property.TagMACAddress)
	if err != nil {
		return 0, err
	}
	return mac & 0x0000FFFFFFFFFFFF, nil
}

// queryWord runs a no-request-payload query with one response word.
func (m *Mailbox) queryWord(tag property.Tag) (uint32, error) {
	msg := property.NewSimpleQuery(tag)
	if err := m.call(msg); err != nil {
		return 0, err
	}
	if !msg.Succeeded() {
		return 0, fmt.Errorf("%w: %v, code %#x", pkg.ErrQueryFailed, tag, msg.Code())
	}
	return msg.Word(0), nil
}

// queryDouble runs a no-request-payload query with two response words,
// combined low word first.
func (m *Mailbox) queryDouble(tag property.Tag) (uint64, error) {
	msg := property.NewSimpleQuery(tag)
	if err := m.call(msg); err != nil {
		return 0, err
	}
	if !msg.Succeeded() {
		return 0, fmt.Errorf("%w: %v, code %#x", pkg.ErrQueryFailed, tag, msg.Code())
	}
	return uint64(msg.Word(1))<<32 | uint64(msg.Word(0)), nil
}

// =============================================================================
// Status Words
// =============================================================================

// CheckReturnValue interprets a generic firmware status word: the high bit
// set means the request completed, with the low bit distinguishing success
// (0x80000000) from failure (0x80000001). A word without the high bit set
// is unknown and treated as failure.
func CheckReturnValue(value uint32) bool {
	s := pkg.CallStatus(value)
	return s.Complete() && s == pkg.CallStatusSuccess
}
