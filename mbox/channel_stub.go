//go:build !linux

package mbox

import (
	"fmt"

	"github.com/ardnew/vcmbox/pkg"
)

// The mailbox device only exists on Linux. Other platforms can still build
// against the package (and inject fakes for testing) but cannot open the
// real channel.

func newDefaultChannel(path string) (channel, error) {
	return nil, fmt.Errorf("%w: mailbox device %s requires linux", pkg.ErrNotSupported, path)
}

func newDefaultMapper(path string) (mapper, error) {
	return nil, fmt.Errorf("%w: physical memory device %s requires linux", pkg.ErrNotSupported, path)
}
