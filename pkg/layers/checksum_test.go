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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum16(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want uint16
	}{
		{"empty", nil, 0},
		{"single", []byte{0x2a}, 0x2a},
		{"plain sum", []byte{1, 2, 3, 4}, 10},
		{"no per-byte carry folding", []byte{0xff, 0xff}, 0x01fe},
		{"truncates to 16 bits", bytes.Repeat([]byte{0xff}, 260), uint16(260 * 0xff & 0xffff)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Sum16(tc.data))
		})
	}
}

func TestPutSum16(t *testing.T) {
	buf := make([]byte, 2)
	PutSum16(buf, []byte{0xff, 0xff, 2})
	require.Equal(t, []byte{0x02, 0x00}, buf)
}

func TestVerify(t *testing.T) {
	payload := []byte{18, 1, 2}
	framed := append([]byte{0x00, 0x15}, payload...)

	got, err := Verify(framed)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestVerifyChecksumMismatch(t *testing.T) {
	_, err := Verify([]byte{0x00, 0x16, 18, 1, 2})
	require.Equal(t, ErrChecksum{Want: 0x16, Got: 0x15}, err)
}

func TestVerifyTooShort(t *testing.T) {
	_, err := Verify([]byte{0x00})
	require.Equal(t, ErrLength{Want: 2, Got: 1}, err)
}
