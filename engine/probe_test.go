package engine

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"
	. "github.com/smartystreets/goconvey/convey"
)

// progressiveMP4 builds a moov-first stream: ftyp, moov, then an mdat of payload bytes.
func progressiveMP4(durationMs uint64, payload int) []byte {
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(1000, "video", "und")
	init.Moov.Mvhd.Timescale = 1000
	init.Moov.Mvhd.Duration = durationMs
	init.Moov.Trak.Tkhd.Width = 640 << 16
	init.Moov.Trak.Tkhd.Height = 360 << 16

	var buf bytes.Buffer
	if err := init.Encode(&buf); err != nil {
		panic(err)
	}

	buf.Write(mdatHeader(payload))
	buf.Write(make([]byte, payload))
	return buf.Bytes()
}

func mdatHeader(payload int) []byte {
	hdr := make([]byte, 8)
	binary.BigEndian.PutUint32(hdr, uint32(8+payload))
	copy(hdr[4:], "mdat")
	return hdr
}

func TestReadInfo(t *testing.T) {
	Convey("Given a progressive MP4 stream", t, func() {
		data := progressiveMP4(60000, 4096)

		Convey("ReadInfo should decode the movie header", func() {
			info, err := ReadInfo(bytes.NewReader(data))
			So(err, ShouldBeNil)
			So(info.Duration, ShouldEqual, 60000)
			So(info.Width, ShouldEqual, 640)
			So(info.Height, ShouldEqual, 360)
			So(len(info.Tracks), ShouldEqual, 1)
			So(info.Tracks[0].Handler, ShouldEqual, "vide")
			So(info.Tracks[0].Timescale, ShouldEqual, 1000)

			Convey("And stop right after moov", func() {
				So(info.HeadSize, ShouldEqual, int64(len(data)-4096-8))
			})
		})
	})

	Convey("Given a stream with media data before moov", t, func() {
		var buf bytes.Buffer
		buf.Write(mdatHeader(16))
		buf.Write(make([]byte, 16))

		Convey("ReadInfo should refuse it", func() {
			_, err := ReadInfo(&buf)
			So(errors.Is(err, ErrMoovNotAtHead), ShouldBeTrue)
		})
	})

	Convey("Given something that is not an MP4", t, func() {
		Convey("ReadInfo should report ErrNotMP4", func() {
			_, err := ReadInfo(bytes.NewReader([]byte("<html>\x00\x01\x02 not found</html>")))
			So(errors.Is(err, ErrNotMP4), ShouldBeTrue)

			_, err = ReadInfo(bytes.NewReader([]byte("abc")))
			So(errors.Is(err, ErrNotMP4), ShouldBeTrue)
		})
	})

	Convey("Given a truncated stream", t, func() {
		data := progressiveMP4(1000, 0)

		Convey("ReadInfo should fail without panicking", func() {
			_, err := ReadInfo(bytes.NewReader(data[:40]))
			So(err, ShouldNotBeNil)
		})
	})
}
