package mbox

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/vcmbox/pkg"
	"github.com/ardnew/vcmbox/property"
)

// =============================================================================
// Memory Operation Tests
// =============================================================================

func TestMemAlloc(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	var req []uint32
	ch.handle(property.TagAllocateMemory, func(words []uint32) {
		req = append([]uint32(nil), words[5:8]...)
		words[5] = 42 // handle
	})

	h, err := m.MemAlloc(4096, 8192, MemFlagDirect)
	if err != nil {
		t.Fatalf("MemAlloc() = %v", err)
	}
	if h != 42 {
		t.Errorf("handle = %d, want 42", h)
	}

	want := []uint32{4096, 8192, uint32(MemFlagDirect)}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("request words mismatch (-want +got):\n%s", diff)
	}
}

func TestMemAlloc_AlignmentFlooredToPageSize(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	pageSize := uint32(os.Getpagesize())
	tests := []struct {
		name      string
		alignment uint32
		want      uint32
	}{
		{"zero", 0, pageSize},
		{"sub-page", 16, pageSize},
		{"exact page", pageSize, pageSize},
		{"coarser than page", 4 * pageSize, 4 * pageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uint32
			ch.handle(property.TagAllocateMemory, func(words []uint32) {
				got = words[6]
				words[5] = 1
			})

			if _, err := m.MemAlloc(4096, tt.alignment, 0); err != nil {
				t.Fatalf("MemAlloc() = %v", err)
			}
			if got != tt.want {
				t.Errorf("wire alignment = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMemAlloc_Failure(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	ch.respond(property.TagAllocateMemory, 0) // firmware returns handle 0

	if _, err := m.MemAlloc(1<<30, 4096, 0); !errors.Is(err, pkg.ErrAllocFailed) {
		t.Errorf("MemAlloc() = %v, want ErrAllocFailed", err)
	}
}

func TestMemAlloc_ZeroSize(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	if _, err := m.MemAlloc(0, 4096, 0); !errors.Is(err, pkg.ErrInvalidParameter) {
		t.Errorf("MemAlloc(0) = %v, want ErrInvalidParameter", err)
	}
	if calls := ch.callLog(); len(calls) != 0 {
		t.Errorf("rejected allocation still reached the channel: %v", calls)
	}
}

func TestMemLock(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	ch.respond(property.TagLockMemory, 0x4E000000)

	bus, err := m.MemLock(42)
	if err != nil {
		t.Fatalf("MemLock() = %v", err)
	}
	if bus != 0x4E000000 {
		t.Errorf("bus address = %#x, want 0x4e000000", uint32(bus))
	}
}

func TestMemLock_Failure(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	ch.respond(property.TagLockMemory, 0)

	if _, err := m.MemLock(42); !errors.Is(err, pkg.ErrLockFailed) {
		t.Errorf("MemLock() = %v, want ErrLockFailed", err)
	}
}

func TestMemUnlockAndFree(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	ch.respond(property.TagUnlockMemory, 0)
	ch.respond(property.TagReleaseMemory, 0)

	if err := m.MemUnlock(42); err != nil {
		t.Errorf("MemUnlock() = %v", err)
	}
	if err := m.MemFree(42); err != nil {
		t.Errorf("MemFree() = %v", err)
	}

	ch.respond(property.TagUnlockMemory, 1)
	ch.respond(property.TagReleaseMemory, 1)

	if err := m.MemUnlock(42); !errors.Is(err, pkg.ErrUnlockFailed) {
		t.Errorf("MemUnlock() = %v, want ErrUnlockFailed", err)
	}
	if err := m.MemFree(42); !errors.Is(err, pkg.ErrFreeFailed) {
		t.Errorf("MemFree() = %v, want ErrFreeFailed", err)
	}
}

// =============================================================================
// Execution Tests
// =============================================================================

func TestExecuteCode(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	var req []uint32
	ch.handle(property.TagExecuteCode, func(words []uint32) {
		req = append([]uint32(nil), words[5:12]...)
		words[5] = 0
	})

	if err := m.ExecuteCode(0x4E000000, 1, 2, 3, 4, 5, 6); err != nil {
		t.Fatalf("ExecuteCode() = %v", err)
	}

	want := []uint32{0x4E000000, 1, 2, 3, 4, 5, 6}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("request words mismatch (-want +got):\n%s", diff)
	}

	ch.respond(property.TagExecuteCode, 0x80000001)
	if err := m.ExecuteCode(0x4E000000, 0, 0, 0, 0, 0, 0); !errors.Is(err, pkg.ErrExecFailed) {
		t.Errorf("ExecuteCode() = %v, want ErrExecFailed", err)
	}
}

func TestExecuteQPU(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	var req []uint32
	ch.handle(property.TagExecuteQPU, func(words []uint32) {
		req = append([]uint32(nil), words[5:9]...)
		words[5] = 0
	})

	if err := m.ExecuteQPU(12, 0x4E001000, false, 10*time.Second); err != nil {
		t.Fatalf("ExecuteQPU() = %v", err)
	}

	// flush=false travels as noflush=1.
	want := []uint32{12, 0x4E001000, 1, 10000}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("request words mismatch (-want +got):\n%s", diff)
	}

	if err := m.ExecuteQPU(1, 0x4E001000, true, time.Second); err != nil {
		t.Fatalf("ExecuteQPU(flush) = %v", err)
	}
	if req[2] != 0 {
		t.Errorf("flush=true travelled as noflush=%d, want 0", req[2])
	}
}

func TestExecuteQPU_Failure(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	ch.respond(property.TagExecuteQPU, 0x80000001)

	if err := m.ExecuteQPU(1, 0x4E001000, true, time.Second); !errors.Is(err, pkg.ErrExecFailed) {
		t.Errorf("ExecuteQPU() = %v, want ErrExecFailed", err)
	}
}

func TestExecuteQPU_TimeoutRange(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"zero", 0, false},
		{"max representable", maxQPUTimeout, false},
		{"overflow", maxQPUTimeout + time.Millisecond, true},
		{"negative", -time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch.respond(property.TagExecuteQPU, 0)
			ch.mu.Lock()
			ch.calls = nil
			ch.mu.Unlock()

			err := m.ExecuteQPU(1, 0x4E001000, true, tt.timeout)
			if tt.wantErr {
				if !errors.Is(err, pkg.ErrTimeoutRange) {
					t.Errorf("ExecuteQPU() = %v, want ErrTimeoutRange", err)
				}
				if calls := ch.callLog(); len(calls) != 0 {
					t.Errorf("rejected timeout still reached the channel: %v", calls)
				}
			} else if err != nil {
				t.Errorf("ExecuteQPU() = %v", err)
			}
		})
	}
}

// =============================================================================
// Query Tests
// =============================================================================

func TestTotalGPUMemory_Halved(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	// 128 MiB reported; callers get exactly half.
	ch.respond(property.TagVCMemory, 0x3E000000, 134217728)

	got, err := m.TotalGPUMemory()
	if err != nil {
		t.Fatalf("TotalGPUMemory() = %v", err)
	}
	if got != 67108864 {
		t.Errorf("TotalGPUMemory() = %d, want 67108864", got)
	}
}

func TestTotalGPUMemory_QueryError(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	ch.callErr = errors.New("ioctl: input/output error")

	if got, err := m.TotalGPUMemory(); err == nil || got != 0 {
		t.Errorf("TotalGPUMemory() = (%d, %v), want (0, error)", got, err)
	}
}

func TestVCAndARMMemory(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	ch.respond(property.TagVCMemory, 0x3E000000, 0x02000000)
	ch.respond(property.TagARMMemory, 0, 0x3E000000)

	base, size, err := m.VCMemory()
	if err != nil || base != 0x3E000000 || size != 0x02000000 {
		t.Errorf("VCMemory() = (%#x, %#x, %v)", base, size, err)
	}

	base, size, err = m.ARMMemory()
	if err != nil || base != 0 || size != 0x3E000000 {
		t.Errorf("ARMMemory() = (%#x, %#x, %v)", base, size, err)
	}
}

func TestFirmwareQueries(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	ch.respond(property.TagFirmwareRevision, 0x5F083189)
	ch.respond(property.TagBoardModel, 0x0000000E)
	ch.respond(property.TagBoardRevision, 0x00A02082)
	ch.respond(property.TagBoardSerial, 0xDEADBEEF, 0x10000000)
	ch.respond(property.TagMACAddress, 0xB827EB12, 0xFFFF3456)

	if got, err := m.FirmwareRevision(); err != nil || got != 0x5F083189 {
		t.Errorf("FirmwareRevision() = (%#x, %v)", got, err)
	}
	if got, err := m.BoardModel(); err != nil || got != 0x0000000E {
		t.Errorf("BoardModel() = (%#x, %v)", got, err)
	}
	if got, err := m.BoardRevision(); err != nil || got != 0x00A02082 {
		t.Errorf("BoardRevision() = (%#x, %v)", got, err)
	}
	if got, err := m.BoardSerial(); err != nil || got != 0x10000000DEADBEEF {
		t.Errorf("BoardSerial() = (%#x, %v)", got, err)
	}
	// MAC address keeps only its low 48 bits.
	if got, err := m.MACAddress(); err != nil || got != 0x3456B827EB12 {
		t.Errorf("MACAddress() = (%#x, %v)", got, err)
	}
}

func TestQuery_FirmwareFailureCode(t *testing.T) {
	m, ch, _ := newTestMailbox(t)
	defer m.Close()

	ch.handle(property.TagFirmwareRevision, func(words []uint32) {
		words[1] = property.ResponseFailure
	})

	if _, err := m.FirmwareRevision(); !errors.Is(err, pkg.ErrQueryFailed) {
		t.Errorf("FirmwareRevision() = %v, want ErrQueryFailed", err)
	}
}

// =============================================================================
// Status Word Tests
// =============================================================================

func TestCheckReturnValue(t *testing.T) {
	tests := []struct {
		value uint32
		want  bool
	}{
		{0x80000000, true},  // complete, success
		{0x80000001, false}, // complete, failure
		{0x00000000, false}, // not complete
		{0x00000001, false}, // not complete
		{0x80000002, false}, // complete but unknown low bits
		{0x7FFFFFFF, false}, // high bit clear
	}

	for _, tt := range tests {
		if got := CheckReturnValue(tt.value); got != tt.want {
			t.Errorf("CheckReturnValue(%#x) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
