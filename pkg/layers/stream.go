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

package layers

import (
	"encoding/binary"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// StreamFrameLayerNum identifies the layer
	StreamFrameLayerNum = 2001

	// FrameMarker starts a stream frame on the wire
	FrameMarker = 0x7E
	// EscapeByte precedes a stuffed byte; the logical byte is
	// reconstructed as the next raw byte OR 0x20
	EscapeByte = 0x7D
	// EscapeMask is cleared from a stuffed byte on the wire and set
	// back on decode
	EscapeMask = 0x20

	// StopMarker in the command position of a header announces that
	// the device stopped the stream instead of sending a data frame
	StopMarker = 80

	// StreamHeaderSize is the logical header size after unescaping
	StreamHeaderSize = 8
)

// StreamFrameLayer is one stream frame in logical (unescaped) form:
//
//	[checksum:2][command:1][length:1][channel:1][spare:3][payload]
//
// The length field counts header bookkeeping plus payload, so the
// payload is length-4 bytes. The checksum covers header[2:] plus the
// payload. The channel field is 1-based on the wire.
type StreamFrameLayer struct {
	layers.BaseLayer
	Sum     uint16
	Command uint8
	Length  uint8
	Channel uint8
	Spare   [3]byte
	Data    []byte
}

var StreamFrameLayerType = gopacket.RegisterLayerType(StreamFrameLayerNum,
	gopacket.LayerTypeMetadata{Name: "StreamFrameLayerType", Decoder: gopacket.DecodeFunc(DecodeStreamFrameLayer)})

// LayerType returns the type of the stream frame layer in the layer catalog
func (f *StreamFrameLayer) LayerType() gopacket.LayerType {
	return StreamFrameLayerType
}

// PayloadSize returns the payload byte count declared by the header.
func (f *StreamFrameLayer) PayloadSize() int {
	return int(f.Length) - 4
}

// DecodeFromBytes decodes a frame from its logical bytes, i.e. after
// the escape rule has been applied and the frame marker stripped.
func (f *StreamFrameLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < StreamHeaderSize {
		df.SetTruncated()
		return ErrLength{Want: StreamHeaderSize, Got: len(data)}
	}
	f.BaseLayer = layers.BaseLayer{
		Contents: data[:StreamHeaderSize],
		Payload:  data[StreamHeaderSize:],
	}
	f.Sum = binary.BigEndian.Uint16(data[0:2])
	f.Command = data[2]
	f.Length = data[3]
	f.Channel = data[4]
	copy(f.Spare[:], data[5:8])
	f.Data = data[StreamHeaderSize:]
	if len(f.Data) != f.PayloadSize() {
		return ErrLength{Want: f.PayloadSize(), Got: len(f.Data)}
	}
	if got := Sum16(data[2:]); got != f.Sum {
		return ErrChecksum{Want: f.Sum, Got: got}
	}
	return nil
}

// Samples decodes the payload as big-endian two's complement 16-bit
// sample codes.
func (f *StreamFrameLayer) Samples() []int16 {
	samples := make([]int16, 0, len(f.Data)/2)
	for i := 0; i+1 < len(f.Data); i += 2 {
		samples = append(samples, int16(binary.BigEndian.Uint16(f.Data[i:i+2])))
	}
	return samples
}

// SerializeTo serializes the frame to its wire form: the frame marker
// followed by the escaped header and payload. The checksum and length
// fields are computed here, callers set Command, Channel and Data.
func (f *StreamFrameLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	f.Length = uint8(len(f.Data) + 4)
	header := make([]byte, StreamHeaderSize)
	header[2] = f.Command
	header[3] = f.Length
	header[4] = f.Channel
	copy(header[5:8], f.Spare[:])
	f.Sum = Sum16(header[2:]) + Sum16(f.Data)
	binary.BigEndian.PutUint16(header[0:2], f.Sum)

	wire := append([]byte{FrameMarker}, Escape(header)...)
	wire = append(wire, Escape(f.Data)...)
	bytes, err := b.AppendBytes(len(wire))
	if err != nil {
		return err
	}
	copy(bytes, wire)
	return nil
}

// Escape applies the byte stuffing rule: any occurrence of the frame
// marker or the escape byte is replaced by the escape byte followed by
// the original with the escape mask cleared.
func Escape(logical []byte) []byte {
	wire := make([]byte, 0, len(logical))
	for _, c := range logical {
		if c == FrameMarker || c == EscapeByte {
			wire = append(wire, EscapeByte, c&^EscapeMask)
			continue
		}
		wire = append(wire, c)
	}
	return wire
}

// Unescape reverses Escape. A trailing lone escape byte is an error.
func Unescape(wire []byte) ([]byte, error) {
	logical := make([]byte, 0, len(wire))
	for i := 0; i < len(wire); i++ {
		c := wire[i]
		if c == EscapeByte {
			i++
			if i >= len(wire) {
				return nil, ErrLength{Want: len(wire) + 1, Got: len(wire)}
			}
			c = wire[i] | EscapeMask
		}
		logical = append(logical, c)
	}
	return logical, nil
}

func DecodeStreamFrameLayer(data []byte, p gopacket.PacketBuilder) error {
	f := &StreamFrameLayer{}
	err := f.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(f)
	return nil
}
