package mbox

// TranslateFunc maps a device bus address to a host-mappable physical
// address. The transport calls it once per buffer allocation and trusts
// its result.
type TranslateFunc func(BusAddress) uintptr

// DefaultTranslate strips the VideoCore cache-alias bits from a bus
// address, yielding the physical address of the same memory. The firmware
// hands out addresses in the 0xC0000000 (uncached) alias.
func DefaultTranslate(bus BusAddress) uintptr {
	return uintptr(bus &^ 0xC0000000)
}
