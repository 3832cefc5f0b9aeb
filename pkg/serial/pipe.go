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
	"bytes"
)

// Pipe is an in-memory Transport for tests and simulated devices.
// Reads consume bytes queued with Feed; a read against an empty queue
// returns zero bytes, which is how a real port reports a timeout.
type Pipe struct {
	in  bytes.Buffer
	out bytes.Buffer
}

var _ Transport = &Pipe{}

func NewPipe() *Pipe {
	return &Pipe{}
}

// Feed queues bytes to be returned by subsequent reads.
func (p *Pipe) Feed(data []byte) {
	p.in.Write(data)
}

// Sent returns everything written to the pipe so far and resets the
// outbound buffer.
func (p *Pipe) Sent() []byte {
	sent := make([]byte, p.out.Len())
	copy(sent, p.out.Bytes())
	p.out.Reset()
	return sent
}

func (p *Pipe) Read(b []byte) (int, error) {
	if p.in.Len() == 0 {
		return 0, nil
	}
	return p.in.Read(b)
}

func (p *Pipe) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

func (p *Pipe) FlushInput() error {
	p.in.Reset()
	return nil
}
