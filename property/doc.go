// Package property implements the VideoCore property message wire format.
//
// A property message is a fixed-size buffer of 32-bit words exchanged with
// the firmware through the mailbox character device. The buffer carries a
// header, one tag (operation) with its payload, and an end marker:
//
//	word 0: total buffer size in bytes
//	word 1: request code (0) / response status (0x8000000x)
//	word 2: tag identifier
//	word 3: payload capacity in bytes, max(request, response) words
//	word 4: request/response indicator
//	word 5: payload words...
//	last:   end tag (0)
//
// The firmware rewrites the buffer in place: word 1 becomes the response
// status and the payload words become the response values. Each tag has a
// fixed request and response word count known before the call; constructors
// in this package enforce the request shape so a call site cannot build an
// under- or oversized buffer.
//
// This package is pure encoding and decoding. It performs no I/O and holds
// no state; the mbox package owns the device channel.
package property
