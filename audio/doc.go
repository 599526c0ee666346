// Package audio reads basic stream information (format, sample rate,
// channels, duration) from local WAV, MP3 and Ogg Vorbis files without
// decoding them fully. It is informational only: uploads never depend on
// a successful probe.
package audio
