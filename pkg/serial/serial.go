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

package serial

import (
	"io"
	"time"

	"github.com/tarm/serial"

	"github.com/ingen10/go-daq/pkg/config"
)

// Transport is the byte-stream duplex interface the protocol engine
// runs over. Read may return fewer bytes than requested when the read
// timeout expires; a zero-byte read means no data arrived in time.
// The transport is exclusively owned by one codec instance.
type Transport interface {
	io.ReadWriter
	// FlushInput discards buffered inbound bytes.
	FlushInput() error
}

// Port is a Transport backed by a real serial port.
type Port struct {
	port *serial.Port
}

var _ Transport = &Port{}

// Open opens the serial port described by the config. The device
// resets when the port is opened, so callers are expected to wait for
// it to boot before the first command.
func Open(cfg *config.SerialConfig) (*Port, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	return &Port{port: port}, nil
}

func (p *Port) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *Port) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *Port) FlushInput() error {
	return p.port.Flush()
}

func (p *Port) Close() error {
	return p.port.Close()
}

// ReadFull reads until buf is full or the transport reports no more
// data. Unlike io.ReadFull a short read is not an error here; the
// caller decides whether the byte count is fatal.
func ReadFull(t Transport, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := t.Read(buf[total:])
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			// read timeout expired
			break
		}
	}
	return total, nil
}
