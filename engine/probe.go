package engine

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"
)

// maxMoovSize bounds the moov box read into memory.
const maxMoovSize = 64 << 20

var (
	// ErrMoovNotAtHead is returned when media data precedes the moov box, which
	// means the stream is not laid out for progressive playback.
	ErrMoovNotAtHead = errors.New("moov box not found before mdat")

	// ErrNotMP4 is returned when the stream does not start with an ISO-BMFF box.
	ErrNotMP4 = errors.New("stream is not an MP4 file")
)

// Track describes one trak of an MP4 stream.
type Track struct {
	ID        uint32 `json:"id"`
	Handler   string `json:"handler"`
	Timescale uint32 `json:"timescale"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// Info is the metadata found in the head of an MP4 stream.
type Info struct {
	// Duration in milliseconds, -1 when the movie header does not carry one (fragmented streams).
	Duration   int     `json:"duration"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Fragmented bool    `json:"fragmented"`
	Tracks     []Track `json:"tracks"`
	// HeadSize is the number of bytes consumed up to and including moov.
	HeadSize int64 `json:"head_size"`
}

// ReadInfo scans top-level boxes from r until it finds moov and decodes it.
// Boxes before moov are skipped without being buffered.
func ReadInfo(r io.Reader) (*Info, error) {
	var offset int64

	for {
		name, size, hdr, err := readBoxHeader(r)
		if err != nil {
			if offset == 0 {
				return nil, fmt.Errorf("%w: %v", ErrNotMP4, err)
			}
			return nil, fmt.Errorf("read box header at %d: %w", offset, err)
		}

		if offset == 0 && !isBoxName(name) {
			return nil, ErrNotMP4
		}

		switch {
		case name == "moov":
			if size == 0 || size > maxMoovSize {
				return nil, fmt.Errorf("moov box has unsupported size %d", size)
			}

			body := make([]byte, size-int64(len(hdr)))
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("read moov: %w", err)
			}

			box, err := mp4.DecodeBox(uint64(offset), bytes.NewReader(append(hdr, body...)))
			if err != nil {
				return nil, fmt.Errorf("decode moov: %w", err)
			}

			moov, ok := box.(*mp4.MoovBox)
			if !ok {
				return nil, fmt.Errorf("decode moov: unexpected box %T", box)
			}

			info := infoFromMoov(moov)
			info.HeadSize = offset + size
			return info, nil
		case name == "mdat", size == 0:
			return nil, ErrMoovNotAtHead
		default:
			if _, err := io.CopyN(io.Discard, r, size-int64(len(hdr))); err != nil {
				return nil, fmt.Errorf("skip %s box: %w", name, err)
			}
		}

		offset += size
	}
}

// readBoxHeader reads a box header, resolving 64-bit sizes. A zero size means
// the box extends to the end of the stream.
func readBoxHeader(r io.Reader) (name string, size int64, hdr []byte, err error) {
	hdr = make([]byte, 8)
	if _, err = io.ReadFull(r, hdr); err != nil {
		return "", 0, nil, err
	}

	name = string(hdr[4:8])
	size = int64(binary.BigEndian.Uint32(hdr[0:4]))

	if size == 1 {
		large := make([]byte, 8)
		if _, err = io.ReadFull(r, large); err != nil {
			return "", 0, nil, err
		}
		hdr = append(hdr, large...)
		size = int64(binary.BigEndian.Uint64(large))
	}

	if size != 0 && size < int64(len(hdr)) {
		return "", 0, nil, fmt.Errorf("box %q has invalid size %d", name, size)
	}

	return name, size, hdr, nil
}

func isBoxName(name string) bool {
	return strings.IndexFunc(name, func(r rune) bool {
		return r < 0x20 || r > 0x7e
	}) < 0
}

func infoFromMoov(moov *mp4.MoovBox) *Info {
	info := &Info{Duration: -1}

	if moov.Mvhd != nil && moov.Mvhd.Timescale > 0 && moov.Mvhd.Duration > 0 {
		info.Duration = int(moov.Mvhd.Duration * 1000 / uint64(moov.Mvhd.Timescale))
	}
	info.Fragmented = moov.Mvex != nil

	for _, trak := range moov.Traks {
		var t Track

		if trak.Tkhd != nil {
			t.ID = trak.Tkhd.TrackID
			t.Width = int(uint32(trak.Tkhd.Width) >> 16)
			t.Height = int(uint32(trak.Tkhd.Height) >> 16)
		}

		if trak.Mdia != nil {
			if trak.Mdia.Hdlr != nil {
				t.Handler = trak.Mdia.Hdlr.HandlerType
			}
			if trak.Mdia.Mdhd != nil {
				t.Timescale = trak.Mdia.Mdhd.Timescale
			}
		}

		if t.Width*t.Height > info.Width*info.Height {
			info.Width, info.Height = t.Width, t.Height
		}

		info.Tracks = append(info.Tracks, t)
	}

	return info
}
