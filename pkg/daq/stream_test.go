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
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/require"

	"github.com/ingen10/go-daq/pkg/layers"
	"github.com/ingen10/go-daq/pkg/serial"
)

// feedFrame queues a stream frame in wire form: marker plus escaped
// header and payload.
func feedFrame(t *testing.T, p *serial.Pipe, channel uint8, samples []byte) {
	t.Helper()
	frame := &layers.StreamFrameLayer{Command: 0x19, Channel: channel, Data: samples}
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, frame))
	p.Feed(buf.Bytes())
}

// feedStopNotification queues the header the device sends when it
// terminates the stream on its own: the stop marker in the command
// position, followed by two raw trailer bytes.
func feedStopNotification(p *serial.Pipe, channel byte) {
	p.Feed([]byte{layers.FrameMarker, 0x00, 0x05, layers.StopMarker, layers.StopMarker, channel})
}

func TestTryDecodeOneNoData(t *testing.T) {
	dec := NewDecoder(serial.NewPipe())
	status, frame, err := dec.TryDecodeOne()
	require.NoError(t, err)
	require.Equal(t, StatusNoData, status)
	require.Nil(t, frame)
}

func TestTryDecodeOneUnexpectedByte(t *testing.T) {
	pipe := serial.NewPipe()
	pipe.Feed([]byte{0x55})
	dec := NewDecoder(pipe)

	status, frame, err := dec.TryDecodeOne()
	require.NoError(t, err)
	require.Equal(t, StatusUnexpectedByte, status)
	require.Nil(t, frame)
}

func TestTryDecodeOneFrame(t *testing.T) {
	pipe := serial.NewPipe()
	pipe.Feed([]byte{0x7e, 0x02, 0x1e, 0x19, 0x06, 0x01, 0x00, 0x00, 0x00, 0xff, 0xff})
	dec := NewDecoder(pipe)

	status, frame, err := dec.TryDecodeOne()
	require.NoError(t, err)
	require.Equal(t, StatusFrameDecoded, status)
	require.Equal(t, &Frame{Channel: 0, Samples: []int16{-1}}, frame)
	require.Equal(t, 0, dec.Dropped)
}

func TestTryDecodeOneEscapedFrame(t *testing.T) {
	pipe := serial.NewPipe()
	// payload 0x7e 0x7d is fully stuffed on the wire
	pipe.Feed([]byte{0x7e, 0x01, 0x1b, 0x19, 0x06, 0x01, 0x00, 0x00, 0x00, 0x7d, 0x5e, 0x7d, 0x5d})
	dec := NewDecoder(pipe)

	status, frame, err := dec.TryDecodeOne()
	require.NoError(t, err)
	require.Equal(t, StatusFrameDecoded, status)
	require.Equal(t, &Frame{Channel: 0, Samples: []int16{0x7e7d}}, frame)
}

func TestTryDecodeOneStopNotification(t *testing.T) {
	pipe := serial.NewPipe()
	feedStopNotification(pipe, 2)
	dec := NewDecoder(pipe)

	status, frame, err := dec.TryDecodeOne()
	require.NoError(t, err)
	require.Equal(t, StatusStreamStopped, status)
	require.Equal(t, 1, frame.Channel)
	require.Empty(t, frame.Samples)
}

func TestTryDecodeOneChecksumDrop(t *testing.T) {
	pipe := serial.NewPipe()
	// checksum field off by one: the frame is consumed, its data dropped
	pipe.Feed([]byte{0x7e, 0x02, 0x1f, 0x19, 0x06, 0x01, 0x00, 0x00, 0x00, 0xff, 0xff})
	dec := NewDecoder(pipe)

	status, frame, err := dec.TryDecodeOne()
	require.NoError(t, err)
	require.Equal(t, StatusFrameDecoded, status)
	require.Equal(t, 0, frame.Channel)
	require.Empty(t, frame.Samples)
	require.Equal(t, 1, dec.Dropped)
}

func TestTryDecodeOneTruncatedFrame(t *testing.T) {
	pipe := serial.NewPipe()
	pipe.Feed([]byte{0x7e, 0x02, 0x1e, 0x19})
	dec := NewDecoder(pipe)

	_, _, err := dec.TryDecodeOne()
	require.Equal(t, ErrTimeout{Want: 1, Got: 0}, err)
}

func TestDrain(t *testing.T) {
	pipe := serial.NewPipe()
	feedFrame(t, pipe, 1, []byte{0x00, 0x01})
	// corrupt frame in the middle, silently skipped
	pipe.Feed([]byte{0x7e, 0x02, 0x1f, 0x19, 0x06, 0x01, 0x00, 0x00, 0x00, 0xff, 0xff})
	feedFrame(t, pipe, 1, []byte{0x00, 0x02})
	// pending stop-command response ends the drain
	pipe.Feed([]byte{0x00, 0x50, 0x50, 0x00})
	dec := NewDecoder(pipe)

	frames, err := dec.Drain()
	require.NoError(t, err)
	require.Equal(t, []*Frame{
		{Channel: 0, Samples: []int16{1}},
		{Channel: 0, Samples: []int16{2}},
	}, frames)
	require.Equal(t, 1, dec.Dropped)
}

func TestDrainStopNotification(t *testing.T) {
	pipe := serial.NewPipe()
	feedFrame(t, pipe, 3, []byte{0x12, 0x34})
	feedStopNotification(pipe, 3)
	dec := NewDecoder(pipe)

	frames, err := dec.Drain()
	require.NoError(t, err)
	require.Equal(t, []*Frame{{Channel: 2, Samples: []int16{0x1234}}}, frames)
}

func TestDrainIdleLine(t *testing.T) {
	dec := NewDecoder(serial.NewPipe())
	frames, err := dec.Drain()
	require.NoError(t, err)
	require.Empty(t, frames)
}

func TestDrainShortStopResponse(t *testing.T) {
	pipe := serial.NewPipe()
	pipe.Feed([]byte{0x00, 0x50})
	dec := NewDecoder(pipe)

	_, err := dec.Drain()
	require.Equal(t, ErrTimeout{Want: 4, Got: 2}, err)
}

func TestStreamStatusString(t *testing.T) {
	require.Equal(t, "no-data", StatusNoData.String())
	require.Equal(t, "frame-decoded", StatusFrameDecoded.String())
	require.Equal(t, "stream-stopped", StatusStreamStopped.String())
	require.Equal(t, "unexpected-byte", StatusUnexpectedByte.String())
}
