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
	"fmt"
)

// ErrChecksum returned when the checksum field of a packet does not
// match the checksum computed over its payload
type ErrChecksum struct {
	Want uint16
	Got  uint16
}

func (e ErrChecksum) Error() string {
	return fmt.Sprintf("Checksum mismatch: claimed %04x, computed %04x", e.Want, e.Got)
}

// ErrLength returned when a packet is shorter than its layout requires
// or when the declared length field disagrees with the observed payload
type ErrLength struct {
	Want int
	Got  int
}

func (e ErrLength) Error() string {
	return fmt.Sprintf("Length mismatch: want %d bytes, got %d", e.Want, e.Got)
}
