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
	"encoding/hex"

	"github.com/google/gopacket"

	"github.com/ingen10/go-daq/pkg/layers"
	"github.com/ingen10/go-daq/pkg/log"
	"github.com/ingen10/go-daq/pkg/serial"
)

// Codec exchanges command packets with the device. The protocol is
// strictly synchronous: one outstanding command at a time, and the
// codec exclusively owns its transport.
type Codec struct {
	transport serial.Transport
}

func NewCodec(t serial.Transport) *Codec {
	return &Codec{transport: t}
}

// SendCommand writes a command packet and reads back its response,
// which is always 4 header bytes plus the byte size of the expected
// response layout. The decoded values after the command/length echo
// are returned. A failed exchange is surfaced as is, never retried.
func (c *Codec) SendCommand(id CmdID, args []byte, layout []layers.Field) ([]int64, error) {
	if err := c.WriteCommand(id, args); err != nil {
		return nil, err
	}

	retLen := layers.CommandHeaderSize + layers.LayoutSize(layout)
	ret := make([]byte, retLen)
	n, err := serial.ReadFull(c.transport, ret)
	if err != nil {
		return nil, err
	}
	if n != retLen {
		return nil, ErrTimeout{Want: retLen, Got: n}
	}
	log.Debug("Response: %s", hex.EncodeToString(ret))

	resp := &layers.CommandLayer{}
	if err := resp.DecodeFromBytes(ret, gopacket.NilDecodeFeedback); err != nil {
		return nil, err
	}
	return resp.DecodeArgs(layout)
}

// WriteCommand serializes and writes a command packet without reading
// a response. Used when the response will arrive interleaved with
// stream frames and must be consumed by the stream decoder instead.
func (c *Codec) WriteCommand(id CmdID, args []byte) error {
	cmd := &layers.CommandLayer{Command: uint8(id), Args: args}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{}
	if err := gopacket.SerializeLayers(buf, opts, cmd); err != nil {
		return err
	}
	log.Debug("Command: %s", hex.EncodeToString(buf.Bytes()))
	_, err := c.transport.Write(buf.Bytes())
	return err
}
