/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package daq

import (
	"github.com/google/gopacket"

	"github.com/ingen10/go-daq/pkg/layers"
	"github.com/ingen10/go-daq/pkg/log"
	"github.com/ingen10/go-daq/pkg/serial"
)

// StreamStatus is the outcome of a single decode attempt.
type StreamStatus int

const (
	// StatusNoData means no byte arrived before the read timeout.
	StatusNoData StreamStatus = iota
	// StatusFrameDecoded means a complete frame was consumed.
	StatusFrameDecoded
	// StatusStreamStopped means the device announced stream
	// termination instead of sending a data frame.
	StatusStreamStopped
	// StatusUnexpectedByte means a byte other than the frame marker
	// arrived while awaiting a frame. Expected on a noisy line; the
	// decoder resynchronizes on the next call.
	StatusUnexpectedByte
)

func (s StreamStatus) String() string {
	switch s {
	case StatusNoData:
		return "no-data"
	case StatusFrameDecoded:
		return "frame-decoded"
	case StatusStreamStopped:
		return "stream-stopped"
	case StatusUnexpectedByte:
		return "unexpected-byte"
	default:
		return "invalid"
	}
}

// Frame is one decoded stream frame. Channel is 0-based. Samples is
// empty when the frame failed its checksum and its data was dropped,
// and for stop notifications.
type Frame struct {
	Channel int
	Samples []int16
}

// Decoder consumes the transport after acquisition start. It holds no
// state across calls beyond the drop counter: an abandoned call leaves
// nothing behind except whatever wire bytes it already consumed.
type Decoder struct {
	transport serial.Transport
	// Dropped counts frames discarded on stream checksum mismatch.
	// Dropping is the wire contract during acquisition, the counter
	// makes line quality observable anyway.
	Dropped int
}

func NewDecoder(t serial.Transport) *Decoder {
	return &Decoder{transport: t}
}

// readRaw reads one wire byte. ok is false when nothing arrived
// before the read timeout.
func (d *Decoder) readRaw() (byte, bool, error) {
	buf := make([]byte, 1)
	n, err := d.transport.Read(buf)
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return buf[0], true, nil
}

// mustRead reads one wire byte which has to be there: inside a frame
// the device is already committed to sending the rest of it.
func (d *Decoder) mustRead() (byte, error) {
	b, ok, err := d.readRaw()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrTimeout{Want: 1, Got: 0}
	}
	return b, nil
}

// readLogical reads one logical byte, consuming an extra wire byte
// when the escape rule applies.
func (d *Decoder) readLogical() (byte, error) {
	b, err := d.mustRead()
	if err != nil {
		return 0, err
	}
	if b == layers.EscapeByte {
		b, err = d.mustRead()
		if err != nil {
			return 0, err
		}
		b |= layers.EscapeMask
	}
	return b, nil
}

// readHeader accumulates the 8 logical header bytes. When the third
// logical byte turns out to be the stop marker the device is sending a
// stop notification, not a data frame: the two remaining raw bytes
// (command echo and channel id) are consumed and stopped is returned
// with the 0-based channel.
func (d *Decoder) readHeader() (header []byte, stopCh int, stopped bool, err error) {
	header = make([]byte, 0, layers.StreamHeaderSize)
	for len(header) < layers.StreamHeaderSize {
		b, err := d.readLogical()
		if err != nil {
			return nil, 0, false, err
		}
		header = append(header, b)
		if len(header) == 3 && header[2] == layers.StopMarker {
			if _, err := d.mustRead(); err != nil {
				return nil, 0, false, err
			}
			ch, err := d.mustRead()
			if err != nil {
				return nil, 0, false, err
			}
			return nil, int(ch) - 1, true, nil
		}
	}
	return header, 0, false, nil
}

// readPayload accumulates n logical payload bytes.
func (d *Decoder) readPayload(n int) ([]byte, error) {
	payload := make([]byte, 0, n)
	for len(payload) < n {
		b, err := d.readLogical()
		if err != nil {
			return nil, err
		}
		payload = append(payload, b)
	}
	return payload, nil
}

// decodeFrame validates and decodes an assembled frame. A checksum
// mismatch drops the frame's data but is not an error: acquisition
// continues and the drop is counted.
func (d *Decoder) decodeFrame(header, payload []byte) *Frame {
	frame := &layers.StreamFrameLayer{}
	err := frame.DecodeFromBytes(append(header, payload...), gopacket.NilDecodeFeedback)
	if err != nil {
		d.Dropped++
		log.Warning("Dropping stream frame: %s", err)
		return &Frame{Channel: int(header[4]) - 1}
	}
	return &Frame{Channel: int(frame.Channel) - 1, Samples: frame.Samples()}
}

// TryDecodeOne attempts to decode a single frame. It does not block
// when the line is idle: with no byte available it reports
// StatusNoData. Once a frame marker is seen the remaining reads block
// up to the transport timeout, since the device is mid-frame.
func (d *Decoder) TryDecodeOne() (StreamStatus, *Frame, error) {
	b, ok, err := d.readRaw()
	if err != nil {
		return StatusNoData, nil, err
	}
	if !ok {
		return StatusNoData, nil, nil
	}
	if b != layers.FrameMarker {
		log.Debug("Unexpected byte while awaiting frame: %02x", b)
		return StatusUnexpectedByte, nil, nil
	}

	header, stopCh, stopped, err := d.readHeader()
	if err != nil {
		return StatusNoData, nil, err
	}
	if stopped {
		return StatusStreamStopped, &Frame{Channel: stopCh}, nil
	}

	payload, err := d.readPayload(int(header[3]) - 4)
	if err != nil {
		return StatusNoData, nil, err
	}
	return StatusFrameDecoded, d.decodeFrame(header, payload), nil
}

// Drain decodes frames until the transport has no byte immediately
// available, silently skipping checksum-invalid frames. The first
// non-marker byte is taken as the start of the pending stop-command
// response; its remaining 3 bytes are consumed so the line is left
// clean, and a short response surfaces as a timeout.
func (d *Decoder) Drain() ([]*Frame, error) {
	var frames []*Frame
	for {
		b, ok, err := d.readRaw()
		if err != nil {
			return frames, err
		}
		if !ok {
			return frames, nil
		}
		if b != layers.FrameMarker {
			rest := make([]byte, 3)
			n, err := serial.ReadFull(d.transport, rest)
			if err != nil {
				return frames, err
			}
			if n != len(rest) {
				return frames, ErrTimeout{Want: len(rest) + 1, Got: n + 1}
			}
			return frames, nil
		}

		header, _, stopped, err := d.readHeader()
		if err != nil {
			return frames, err
		}
		if stopped {
			return frames, nil
		}
		payload, err := d.readPayload(int(header[3]) - 4)
		if err != nil {
			return frames, err
		}
		frame := d.decodeFrame(header, payload)
		if len(frame.Samples) == 0 {
			continue
		}
		frames = append(frames, frame)
	}
}
