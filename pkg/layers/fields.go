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

// Field describes one fixed-width big-endian field of a command
// response. Response layouts are sequences of fields declared once per
// command in the command registry.
type Field byte

const (
	Uint8 Field = iota
	Int8
	Uint16
	Int16
	Uint32
	Int32
)

// Size returns the field width in bytes.
func (f Field) Size() int {
	switch f {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	default:
		return 4
	}
}

// LayoutSize returns the total byte size of a response layout.
func LayoutSize(layout []Field) int {
	size := 0
	for _, f := range layout {
		size += f.Size()
	}
	return size
}

// DecodeFields decodes data as the given sequence of big-endian fields.
// Signed fields are sign-extended, so all values fit an int64.
func DecodeFields(data []byte, layout []Field) ([]int64, error) {
	if len(data) != LayoutSize(layout) {
		return nil, ErrLength{Want: LayoutSize(layout), Got: len(data)}
	}
	values := make([]int64, 0, len(layout))
	offset := 0
	for _, f := range layout {
		switch f {
		case Uint8:
			values = append(values, int64(data[offset]))
		case Int8:
			values = append(values, int64(int8(data[offset])))
		case Uint16:
			values = append(values, int64(binary.BigEndian.Uint16(data[offset:])))
		case Int16:
			values = append(values, int64(int16(binary.BigEndian.Uint16(data[offset:]))))
		case Uint32:
			values = append(values, int64(binary.BigEndian.Uint32(data[offset:])))
		case Int32:
			values = append(values, int64(int32(binary.BigEndian.Uint32(data[offset:]))))
		}
		offset += f.Size()
	}
	return values, nil
}
