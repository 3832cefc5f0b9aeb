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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadFull(t *testing.T) {
	pipe := NewPipe()
	pipe.Feed([]byte{1, 2, 3, 4})

	buf := make([]byte, 4)
	n, err := ReadFull(pipe, buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{1, 2, 3, 4}, buf)
}

func TestReadFullStopsOnTimeout(t *testing.T) {
	pipe := NewPipe()
	pipe.Feed([]byte{1, 2})

	buf := make([]byte, 4)
	n, err := ReadFull(pipe, buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestPipeFlushInput(t *testing.T) {
	pipe := NewPipe()
	pipe.Feed([]byte{1, 2, 3})
	require.NoError(t, pipe.FlushInput())

	buf := make([]byte, 1)
	n, err := pipe.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestPipeSentResets(t *testing.T) {
	pipe := NewPipe()
	_, err := pipe.Write([]byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, pipe.Sent())
	require.Empty(t, pipe.Sent())
}
