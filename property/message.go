package property

import (
	"fmt"
	"io"

	"github.com/ardnew/vcmbox/pkg"
)

// WordSize is the size of one message word in bytes.
const WordSize = 4

// Request and response codes for message word 1.
const (
	RequestCode     uint32 = 0x00000000 // Set by the host before the call
	ResponseSuccess uint32 = 0x80000000 // Firmware processed the request
	ResponseFailure uint32 = 0x80000001 // Firmware could not parse the request
)

// Fixed word positions within a single-tag message.
const (
	wordTotalSize = 0 // Total buffer size in bytes
	wordCode      = 1 // Request/response code
	wordTag       = 2 // Tag identifier
	wordCapacity  = 3 // Payload capacity in bytes
	wordIndicator = 4 // Request/response indicator
	wordPayload   = 5 // First payload word
)

// Message is a single-tag property message. The same buffer carries the
// request to the firmware and the response back; the firmware rewrites the
// code, indicator, and payload words in place.
type Message struct {
	words     []uint32
	payload   int // max(request, response) word count
	respWords int
}

// New builds a property message for tag carrying the given request words.
// The request length must match the tag's declared request word count; a
// mismatch is a programming error at the call site and panics, wrapping
// [pkg.ErrRequestShape]. The buffer reserves max(request, response) payload
// words so the firmware response can never overrun it.
func New(tag Tag, request []uint32) *Message {
	req, resp, ok := Shape(tag)
	if !ok {
		panic(fmt.Errorf("%w: unknown tag %#x", pkg.ErrRequestShape, uint32(tag)))
	}
	if len(request) != req {
		panic(fmt.Errorf("%w: tag %v wants %d request words, got %d",
			pkg.ErrRequestShape, tag, req, len(request)))
	}

	payload := req
	if resp > payload {
		payload = resp
	}

	// header + payload + end tag
	words := make([]uint32, wordPayload+payload+1)
	words[wordTotalSize] = uint32(len(words)) * WordSize
	words[wordCode] = RequestCode
	words[wordTag] = uint32(tag)
	words[wordCapacity] = uint32(payload) * WordSize
	words[wordIndicator] = 0
	copy(words[wordPayload:], request)
	words[len(words)-1] = uint32(TagEnd)

	return &Message{words: words, payload: payload, respWords: resp}
}

// NewQuery builds the common one-request-word, one-response-word message.
// The tag's declared shape must be exactly {1, 1}.
func NewQuery(tag Tag, arg uint32) *Message {
	if req, resp, ok := Shape(tag); !ok || req != 1 || resp != 1 {
		panic(fmt.Errorf("%w: tag %v is not a 1:1 query", pkg.ErrRequestShape, tag))
	}
	return New(tag, []uint32{arg})
}

// NewSimpleQuery builds a message with no request payload, used for pure
// queries. The tag's declared request word count must be zero.
func NewSimpleQuery(tag Tag) *Message {
	if req, _, ok := Shape(tag); !ok || req != 0 {
		panic(fmt.Errorf("%w: tag %v takes request words", pkg.ErrRequestShape, tag))
	}
	return New(tag, nil)
}

// Words exposes the backing buffer passed to the device channel. The
// firmware fills the response in place.
func (m *Message) Words() []uint32 {
	return m.words
}

// Size returns the total buffer size in bytes.
func (m *Message) Size() uint32 {
	return m.words[wordTotalSize]
}

// Tag returns the message's tag identifier.
func (m *Message) Tag() Tag {
	return Tag(m.words[wordTag])
}

// Code returns the request/response code word. Before a call it is
// [RequestCode]; after a call the firmware has overwritten it with
// [ResponseSuccess] or [ResponseFailure].
func (m *Message) Code() uint32 {
	return m.words[wordCode]
}

// Succeeded reports whether the firmware marked the message processed
// successfully. Valid only after a call has completed.
func (m *Message) Succeeded() bool {
	return m.words[wordCode] == ResponseSuccess
}

// ResponseWords returns the tag's declared response word count.
func (m *Message) ResponseWords() int {
	return m.respWords
}

// Word returns the i-th response word. Valid only after a call has
// completed; i must be less than the tag's declared response word count
// (caller contract, not checked at runtime).
func (m *Message) Word(i int) uint32 {
	return m.words[wordPayload+i]
}

// Dump writes the buffer as offset/word hex lines, one word per line.
// Purely diagnostic.
func (m *Message) Dump(w io.Writer) {
	for i, word := range m.words {
		fmt.Fprintf(w, "%04x: 0x%08x\n", i*WordSize, word)
	}
}
