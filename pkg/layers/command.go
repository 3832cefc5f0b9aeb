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
	// CommandLayerNum identifies the layer
	CommandLayerNum = 2000
	// CommandHeaderSize is checksum (2) + command id (1) + length (1)
	CommandHeaderSize = 4
)

// CommandLayer is a command or response packet:
//
//	[checksum:2][command:1][length:1][args:length]
//
// The length byte counts the args only. The checksum covers everything
// after the checksum field itself.
type CommandLayer struct {
	layers.BaseLayer
	Sum     uint16
	Command uint8
	Length  uint8
	Args    []byte
}

var CommandLayerType = gopacket.RegisterLayerType(CommandLayerNum,
	gopacket.LayerTypeMetadata{Name: "CommandLayerType", Decoder: gopacket.DecodeFunc(DecodeCommandLayer)})

// LayerType returns the type of the command layer in the layer catalog
func (c *CommandLayer) LayerType() gopacket.LayerType {
	return CommandLayerType
}

// Serialize writes the packet into buf which must be at least
// CommandHeaderSize+len(Args) bytes long. The checksum and length
// fields are filled in here, callers only set Command and Args.
func (c *CommandLayer) Serialize(buf []byte) {
	c.Length = uint8(len(c.Args))
	buf[2] = c.Command
	buf[3] = c.Length
	copy(buf[4:], c.Args)
	c.Sum = Sum16(buf[2 : 4+len(c.Args)])
	binary.BigEndian.PutUint16(buf[0:2], c.Sum)
}

// SerializeTo serializes the command layer into bytes and writes the bytes to the SerializeBuffer
func (c *CommandLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.AppendBytes(CommandHeaderSize + len(c.Args))
	if err != nil {
		return err
	}
	c.Serialize(bytes)
	return nil
}

// DecodeFromBytes decodes a response packet, verifying its checksum and
// that the declared length matches the number of arg bytes actually
// present. Short or corrupt packets fail without a partial decode.
func (c *CommandLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < CommandHeaderSize {
		df.SetTruncated()
		return ErrLength{Want: CommandHeaderSize, Got: len(data)}
	}
	payload, err := Verify(data)
	if err != nil {
		return err
	}
	c.BaseLayer = layers.BaseLayer{
		Contents: data[:CommandHeaderSize],
		Payload:  data[CommandHeaderSize:],
	}
	c.Sum = binary.BigEndian.Uint16(data[0:2])
	c.Command = payload[0]
	c.Length = payload[1]
	c.Args = payload[2:]
	if int(c.Length) != len(c.Args) {
		return ErrLength{Want: int(c.Length), Got: len(c.Args)}
	}
	return nil
}

// DecodeArgs decodes the response args as the given layout and
// cross-checks the echoed length field against the layout size.
func (c *CommandLayer) DecodeArgs(layout []Field) ([]int64, error) {
	if int(c.Length) != LayoutSize(layout) {
		return nil, ErrLength{Want: LayoutSize(layout), Got: int(c.Length)}
	}
	return DecodeFields(c.Args, layout)
}

func DecodeCommandLayer(data []byte, p gopacket.PacketBuilder) error {
	c := &CommandLayer{}
	err := c.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(c)
	return nil
}
