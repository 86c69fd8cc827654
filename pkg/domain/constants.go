package domain

// Mode key conventions shared by the catalog, the runtime and the hosts.
const (
	// SequenceBreakModePrefix prefixes the mode key that toggles a named sequence break.
	// A sequence break is enabled while its mode value is anything but SequenceBreakOff.
	SequenceBreakModePrefix = "sequence_break."

	// SequenceBreakOff disables a sequence break.
	SequenceBreakOff = "off"
)

// SequenceBreakModeKey returns the mode key controlling the named sequence break.
func SequenceBreakModeKey(name string) string {
	return SequenceBreakModePrefix + name
}
