//go:build linux

package mbox

import (
	"path/filepath"
	"strings"
	"testing"
	"unsafe"
)

func TestNew_MissingDeviceNode(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "vcio")

	_, err := New(WithDevicePath(missing))
	if err == nil {
		t.Fatal("New() succeeded with no device node")
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error %q does not name the missing path", err)
	}
	if !strings.Contains(err.Error(), "mknod") {
		t.Errorf("error %q carries no remediation hint", err)
	}
}

func TestIoctlMboxProperty(t *testing.T) {
	// _IOWR(100, 0, char *): only the size operand varies with the
	// platform's pointer width.
	want := uintptr(0xC0046400)
	if unsafe.Sizeof(uintptr(0)) == 8 {
		want = 0xC0086400
	}
	if ioctlMboxProperty != want {
		t.Errorf("ioctlMboxProperty = %#x, want %#x", ioctlMboxProperty, want)
	}
}
