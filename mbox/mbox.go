package mbox

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/ardnew/vcmbox/pkg"
	"github.com/ardnew/vcmbox/property"
)

// =============================================================================
// Mailbox Transport
// =============================================================================

// Mailbox is one open transport to the VideoCore firmware. It owns the
// device channel, the physical memory mapper, and the firmware's implicit
// QPU-enable reference (observable only through response codes).
//
// All property calls through one Mailbox are serialized by an internal
// mutex, so concurrent callers may share an instance.
type Mailbox struct {
	ch   channel
	mem  mapper
	xlat TranslateFunc

	mu     sync.Mutex // serializes property calls and guards closed
	closed bool
}

// options collects construction parameters.
type options struct {
	devicePath string
	memPath    string
	ch         channel
	mem        mapper
	xlat       TranslateFunc
}

// Option configures Mailbox construction.
type Option func(*options)

// WithDevicePath overrides the mailbox device node path.
func WithDevicePath(path string) Option {
	return func(o *options) { o.devicePath = path }
}

// WithMemPath overrides the physical memory device path.
func WithMemPath(path string) Option {
	return func(o *options) { o.memPath = path }
}

// WithTranslator overrides the bus-to-physical address translation applied
// before mapping a buffer into the host address space.
func WithTranslator(fn TranslateFunc) Option {
	return func(o *options) { o.xlat = fn }
}

// withChannel injects a property channel. Used by tests.
func withChannel(ch channel) Option {
	return func(o *options) { o.ch = ch }
}

// withMapper injects a physical memory mapper. Used by tests.
func withMapper(mem mapper) Option {
	return func(o *options) { o.mem = mem }
}

// New opens the mailbox transport and enables the QPUs. Failure to open
// the device channel or an unexpected enable status is fatal: no usable
// Mailbox is returned. The caller owns the result and must Close it.
func New(opts ...Option) (*Mailbox, error) {
	o := options{
		devicePath: DefaultDevicePath,
		memPath:    DefaultMemPath,
		xlat:       DefaultTranslate,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ch := o.ch
	if ch == nil {
		var err error
		if ch, err = newDefaultChannel(o.devicePath); err != nil {
			return nil, err
		}
	}

	mem := o.mem
	if mem == nil {
		var err error
		if mem, err = newDefaultMapper(o.memPath); err != nil {
			ch.close()
			return nil, err
		}
	}

	m := &Mailbox{ch: ch, mem: mem, xlat: o.xlat}
	if err := m.EnableQPU(true); err != nil {
		ch.close()
		mem.close()
		return nil, fmt.Errorf("enable QPUs: %w", err)
	}

	pkg.LogDebug(pkg.ComponentMailbox, "mailbox transport ready")
	return m, nil
}

// Close disables the QPUs and releases the device channel. The disable is
// best-effort: its failure cannot be surfaced past teardown and is only
// logged. Closing an already-closed Mailbox returns [pkg.ErrClosed].
func (m *Mailbox) Close() error {
	if err := m.EnableQPU(false); err != nil {
		pkg.LogWarn(pkg.ComponentMailbox, "QPU disable at close failed", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return pkg.ErrClosed
	}
	m.closed = true

	var err error
	err = multierr.Append(err, m.ch.close())
	err = multierr.Append(err, m.mem.close())
	return err
}

// call is the single blocking call primitive: it hands the message buffer
// to the device channel and returns once the firmware has rewritten it in
// place. It does not interpret mailbox-level status words; those belong to
// the typed operations.
func (m *Mailbox) call(msg *property.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return pkg.ErrClosed
	}

	m.dumpWire("request", msg)
	if err := m.ch.call(msg.Words()); err != nil {
		return err
	}
	m.dumpWire("response", msg)
	return nil
}

// dumpWire logs the wire buffer at debug level. The strings.Builder pass
// is skipped entirely unless debug logging is on.
func (m *Mailbox) dumpWire(dir string, msg *property.Message) {
	if pkg.GetLogLevel() > slog.LevelDebug {
		return
	}
	var buf strings.Builder
	msg.Dump(&buf)
	pkg.LogDebug(pkg.ComponentMailbox, "wire buffer "+dir,
		"tag", msg.Tag().String(),
		"buffer", "\n"+buf.String(),
	)
}
