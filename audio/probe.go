package audio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// Formats recognised by Probe.
const (
	FormatWAV = "wav"
	FormatMP3 = "mp3"
	FormatOgg = "ogg"
)

// ErrUnsupportedFormat is returned for audio Probe cannot read. The
// transcription service accepts many more formats than these.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Info describes an audio stream.
type Info struct {
	Format     string        `json:"format"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
}

// ProbeFile opens path and probes it.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = f.Close() }()
	return Probe(f, filepath.Base(path))
}

// Probe reads the header (and for mp3/ogg, the frame index) of r. name is
// only used for its extension; the content is sniffed when that is not
// conclusive.
func Probe(r io.ReadSeeker, name string) (Info, error) {
	format, err := detect(r, name)
	if err != nil {
		return Info{}, err
	}
	switch format {
	case FormatWAV:
		return probeWAV(r)
	case FormatMP3:
		return probeMP3(r)
	default:
		return probeOgg(r)
	}
}

func detect(r io.ReadSeeker, name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".mp3":
		return FormatMP3, nil
	case ".ogg", ".oga":
		return FormatOgg, nil
	}

	magic, err := bufio.NewReader(r).Peek(4)
	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return "", serr
	}
	if err != nil && len(magic) < 3 {
		return "", ErrUnsupportedFormat
	}
	switch {
	case string(magic) == "RIFF":
		return FormatWAV, nil
	case string(magic) == "OggS":
		return FormatOgg, nil
	case string(magic[:3]) == "ID3", magic[0] == 0xFF && magic[1]&0xE0 == 0xE0:
		return FormatMP3, nil
	}
	return "", ErrUnsupportedFormat
}

func probeWAV(r io.ReadSeeker) (Info, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return Info{}, fmt.Errorf("wav: invalid header")
	}
	if err := d.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("wav: %w", err)
	}

	info := Info{
		Format:     FormatWAV,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
	}
	bytesPerSec := int64(d.SampleRate) * int64(d.NumChans) * int64(d.BitDepth) / 8
	info.Duration = frames(d.PCMLen(), bytesPerSec)
	return info, nil
}

func probeMP3(r io.ReadSeeker) (Info, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return Info{}, fmt.Errorf("mp3: %w", err)
	}
	// decoded output is 16-bit stereo
	info := Info{Format: FormatMP3, SampleRate: d.SampleRate(), Channels: 2}
	if n := d.Length(); n > 0 {
		info.Duration = frames(n/4, int64(info.SampleRate))
	}
	return info, nil
}

func probeOgg(r io.ReadSeeker) (Info, error) {
	samples, format, err := oggvorbis.GetLength(r)
	if err != nil {
		return Info{}, fmt.Errorf("ogg: %w", err)
	}
	info := Info{Format: FormatOgg, SampleRate: format.SampleRate, Channels: format.Channels}
	info.Duration = frames(samples, int64(format.SampleRate))
	return info, nil
}

// frames converts n units at rate units per second to a duration. Whole
// seconds are split off first so long streams do not overflow.
func frames(n, rate int64) time.Duration {
	if n <= 0 || rate <= 0 {
		return 0
	}
	secs, rem := n/rate, n%rate
	return time.Duration(secs)*time.Second + time.Duration(rem*int64(time.Second)/rate)
}
