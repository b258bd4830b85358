package alert

// Audio parameters for the synthesized buzzer tone.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Tone defaults. A piezo-like 2 kHz square wave at about a third of full
// scale is loud enough without clipping cheap speakers.
const (
	DefaultToneHz    = 2000
	DefaultAmplitude = 10000
)

// DefaultMessage is printed by Banner.
const DefaultMessage = "[Timer] Time is up."
