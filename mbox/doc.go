// Package mbox implements the VideoCore property mailbox transport and the
// lifecycle of memory shared between the host and the GPU.
//
// A [Mailbox] owns one open channel to the mailbox character device
// (/dev/vcio by default) and exposes the firmware's memory and execution
// operations on top of a single blocking ioctl-based call primitive. All
// calls through one Mailbox are serialized internally; sequential callers
// observe strict request/response ordering.
//
// [Mailbox.AllocateBuffer] drives the full allocate, lock, translate, map
// chain and returns a [DeviceBuffer] that is addressable both from the GPU
// (bus address) and from the host (mapped bytes). A DeviceBuffer owns its
// firmware handle; callers must Close it before dropping the last
// reference, or the allocation leaks on the firmware side.
//
// Construction is explicit via [New]; processes that want one shared
// transport for their lifetime use [Default], which constructs lazily and
// exactly once.
package mbox
