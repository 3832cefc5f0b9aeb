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

	"github.com/stretchr/testify/require"

	"github.com/ingen10/go-daq/pkg/layers"
	"github.com/ingen10/go-daq/pkg/serial"
)

// feedResponse queues a well-formed response packet on the pipe.
func feedResponse(p *serial.Pipe, id CmdID, args []byte) {
	resp := &layers.CommandLayer{Command: uint8(id), Args: args}
	buf := make([]byte, layers.CommandHeaderSize+len(args))
	resp.Serialize(buf)
	p.Feed(buf)
}

func TestSendCommand(t *testing.T) {
	pipe := serial.NewPipe()
	codec := NewCodec(pipe)

	// adc-read response carrying raw code -200
	pipe.Feed([]byte{0x01, 0x3a, 0x01, 0x02, 0xff, 0x38})
	values, err := codec.SendCommand(AdcRead.ID, nil, AdcRead.Resp)
	require.NoError(t, err)
	require.Equal(t, []int64{-200}, values)
	require.Equal(t, []byte{0x00, 0x01, 0x01, 0x00}, pipe.Sent())
}

func TestSendCommandEcho(t *testing.T) {
	pipe := serial.NewPipe()
	codec := NewCodec(pipe)

	feedResponse(pipe, PioSet.ID, []byte{2, 1})
	values, err := codec.SendCommand(PioSet.ID, []byte{2, 1}, PioSet.Resp)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 1}, values)
	require.Equal(t, []byte{0x00, 0x08, 0x03, 0x02, 0x02, 0x01}, pipe.Sent())
}

func TestSendCommandShortResponse(t *testing.T) {
	pipe := serial.NewPipe()
	codec := NewCodec(pipe)

	pipe.Feed([]byte{0x01, 0x3a, 0x01})
	_, err := codec.SendCommand(AdcRead.ID, nil, AdcRead.Resp)
	require.Equal(t, ErrTimeout{Want: 6, Got: 3}, err)
}

func TestSendCommandCorruptResponse(t *testing.T) {
	pipe := serial.NewPipe()
	codec := NewCodec(pipe)

	pipe.Feed([]byte{0x01, 0x3b, 0x01, 0x02, 0xff, 0x38})
	_, err := codec.SendCommand(AdcRead.ID, nil, AdcRead.Resp)
	require.IsType(t, layers.ErrChecksum{}, err)
}

func TestWriteCommand(t *testing.T) {
	pipe := serial.NewPipe()
	codec := NewCodec(pipe)

	require.NoError(t, codec.WriteCommand(LedSet.ID, []byte{2}))
	require.Equal(t, []byte{0x00, 0x15, 0x12, 0x01, 0x02}, pipe.Sent())
}
