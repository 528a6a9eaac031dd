package mbox

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/ardnew/vcmbox/pkg"
)

// =============================================================================
// Device Buffer
// =============================================================================

// DeviceBuffer is one GPU memory allocation addressable from both sides:
// the firmware handle and bus address for device consumers, and a host
// mapping of the same physical memory. A DeviceBuffer is only ever fully
// constructed; a failed allocation never yields a partial buffer.
//
// The buffer owns its firmware handle. Close it before dropping the last
// reference, or the allocation leaks on the firmware side.
type DeviceBuffer struct {
	mbox   *Mailbox
	handle Handle
	bus    BusAddress
	host   mapping
	size   uint32
	closed atomic.Bool
}

// AllocateBuffer allocates, locks, and host-maps size bytes of GPU memory.
// The alignment is floored up to the host page size by MemAlloc. If any
// step fails, every earlier step is unwound (unlock and free are both
// attempted) before the error is returned, so no handle or mapping leaks.
func (m *Mailbox) AllocateBuffer(size, alignment uint32, flags MemoryFlag) (*DeviceBuffer, error) {
	handle, err := m.MemAlloc(size, alignment, flags)
	if err != nil {
		return nil, err
	}

	bus, err := m.MemLock(handle)
	if err != nil {
		return nil, multierr.Append(err, m.MemFree(handle))
	}

	host, err := m.mem.mapPhys(m.xlat(bus), size)
	if err != nil {
		// The firmware still counts the handle as allocated; unwind
		// fully so the failure leaves nothing owned.
		err = multierr.Append(err, m.MemUnlock(handle))
		return nil, multierr.Append(err, m.MemFree(handle))
	}

	pkg.LogDebug(pkg.ComponentBuffer, "buffer allocated",
		"size", size,
		"handle", uint32(handle),
		"bus", fmt.Sprintf("%#x", uint32(bus)),
	)

	return &DeviceBuffer{
		mbox:   m,
		handle: handle,
		bus:    bus,
		host:   host,
		size:   size,
	}, nil
}

// Close unmaps the host mapping, unlocks, and frees the buffer's handle.
// Teardown is best-effort: every step runs even when an earlier one fails,
// and the failures are aggregated into the returned error. A second Close
// is a no-op returning [pkg.ErrClosed].
func (b *DeviceBuffer) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return pkg.ErrClosed
	}

	var err error
	if b.host != nil {
		err = multierr.Append(err, b.host.unmap())
		b.host = nil
	}
	err = multierr.Append(err, b.mbox.MemUnlock(b.handle))
	err = multierr.Append(err, b.mbox.MemFree(b.handle))

	if err == nil {
		pkg.LogDebug(pkg.ComponentBuffer, "buffer deallocated",
			"size", b.size,
			"handle", uint32(b.handle),
		)
	}
	b.handle = 0
	return err
}

// Handle returns the firmware memory handle.
func (b *DeviceBuffer) Handle() Handle {
	return b.handle
}

// BusAddr returns the device bus address of the buffer.
func (b *DeviceBuffer) BusAddr() BusAddress {
	return b.bus
}

// Size returns the buffer length in bytes.
func (b *DeviceBuffer) Size() uint32 {
	return b.size
}

// Bytes returns the host view of the buffer, or nil after Close.
func (b *DeviceBuffer) Bytes() []byte {
	if b.closed.Load() || b.host == nil {
		return nil
	}
	return b.host.bytes()
}

// Dump writes the buffer contents as 32-bit words, eight per line,
// annotated with the device bus address of each row. Purely diagnostic.
func (b *DeviceBuffer) Dump(w io.Writer) {
	host := b.Bytes()
	if host == nil {
		return
	}

	for i := 0; i+4 <= len(host); i += 4 {
		if i%32 == 0 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%08x:", uint32(b.bus)+uint32(i))
		}
		fmt.Fprintf(w, " %08x", binary.LittleEndian.Uint32(host[i:]))
	}
	fmt.Fprintln(w)
}
