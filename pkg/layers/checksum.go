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
)

// Sum16 computes the checksum the device uses for both command packets
// and stream frames: the sum of all byte values truncated to 16 bits.
// The firmware documentation calls it a CRC but it is a plain additive
// sum, not a polynomial CRC, and must stay that way.
func Sum16(data []byte) uint16 {
	var sum uint16
	for _, c := range data {
		sum += uint16(c)
	}
	return sum
}

// PutSum16 writes the checksum of data in wire order (big-endian).
func PutSum16(buf []byte, data []byte) {
	binary.BigEndian.PutUint16(buf, Sum16(data))
}

// Verify splits framed into the leading 2-byte claimed checksum and the
// payload, recomputes the checksum over the payload and returns the
// payload if they agree.
func Verify(framed []byte) ([]byte, error) {
	if len(framed) < 2 {
		return nil, ErrLength{Want: 2, Got: len(framed)}
	}
	claimed := binary.BigEndian.Uint16(framed[0:2])
	payload := framed[2:]
	if got := Sum16(payload); got != claimed {
		return nil, ErrChecksum{Want: claimed, Got: got}
	}
	return payload, nil
}
