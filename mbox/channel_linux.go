//go:build linux

package mbox

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ardnew/vcmbox/pkg"
)

// =============================================================================
// Property Channel (/dev/vcio)
// =============================================================================

// vcioChannel is the real mailbox channel backed by the vcio character
// device.
type vcioChannel struct {
	fd   int
	path string
}

// newDefaultChannel opens the mailbox device node. Failure to open is fatal
// for the caller; the error names the path and how to create the node.
func newDefaultChannel(path string) (channel, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open mailbox device %s: %w (create it with: sudo mknod %s c %d 0)",
			path, err, path, vcioMajor)
	}

	pkg.LogDebug(pkg.ComponentMailbox, "mailbox device opened", "path", path, "fd", fd)
	return &vcioChannel{fd: fd, path: path}, nil
}

// call submits the property buffer and blocks until the firmware has
// rewritten it in place.
func (c *vcioChannel) call(words []uint32) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		uintptr(c.fd),
		ioctlMboxProperty,
		uintptr(unsafe.Pointer(&words[0])),
	)
	if errno != 0 {
		return fmt.Errorf("mailbox property ioctl on %s: %w", c.path, errno)
	}
	return nil
}

func (c *vcioChannel) close() error {
	err := unix.Close(c.fd)
	pkg.LogDebug(pkg.ComponentMailbox, "mailbox device closed", "path", c.path, "fd", c.fd)
	return err
}

// =============================================================================
// Physical Memory Mapper (/dev/mem)
// =============================================================================

// devMemMapper maps physical memory ranges through the mem character
// device.
type devMemMapper struct {
	fd   int
	path string
}

// newDefaultMapper opens the physical memory device.
func newDefaultMapper(path string) (mapper, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open physical memory device %s: %w", path, err)
	}
	return &devMemMapper{fd: fd, path: path}, nil
}

// devMemMapping is one mmap'd window. base covers whole pages; off is the
// sub-page offset of the caller's range within it.
type devMemMapping struct {
	base []byte
	off  int
	size uint32
}

// mapPhys maps size bytes at the physical address phys. mmap requires a
// page-aligned file offset, so the mapping is widened to page boundaries
// and the returned view is offset within it.
func (m *devMemMapper) mapPhys(phys uintptr, size uint32) (mapping, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: zero-length mapping", pkg.ErrInvalidParameter)
	}

	pageSize := uintptr(unix.Getpagesize())
	pageBase := phys &^ (pageSize - 1)
	off := int(phys - pageBase)

	base, err := unix.Mmap(m.fd, int64(pageBase), off+int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes at %#x via %s: %v",
			pkg.ErrMapFailed, size, phys, m.path, err)
	}

	return &devMemMapping{base: base, off: off, size: size}, nil
}

func (m *devMemMapper) close() error {
	return unix.Close(m.fd)
}

func (mm *devMemMapping) bytes() []byte {
	return mm.base[mm.off : mm.off+int(mm.size)]
}

func (mm *devMemMapping) unmap() error {
	return unix.Munmap(mm.base)
}
