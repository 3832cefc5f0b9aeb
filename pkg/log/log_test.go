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

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]LogLevel{
		"error":   ErrorLevel,
		"warning": WarningLevel,
		"info":    InfoLevel,
		"debug":   DebugLevel,
	} {
		level, err := ParseLevel(name)
		require.NoError(t, err)
		require.Equal(t, want, level)
		require.Equal(t, name, level.String())
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	out := &bytes.Buffer{}
	Init(out, "warning")
	defer Init(out, "info")

	Debug("dropped")
	Info("dropped")
	Warning("kept: %d", 1)
	Error("kept: %d", 2)

	text := out.String()
	require.NotContains(t, text, "dropped")
	require.Contains(t, text, WarningPrefix+"kept: 1")
	require.Contains(t, text, ErrorPrefix+"kept: 2")
}
