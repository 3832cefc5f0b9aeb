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
	"fmt"
)

// ErrTimeout returned when the transport delivered fewer bytes than an
// exchange requires before the read timeout expired. The core never
// retries; retry policy belongs to the caller.
type ErrTimeout struct {
	Want int
	Got  int
}

func (e ErrTimeout) Error() string {
	return fmt.Sprintf("Transport timeout: expected %d bytes, read %d", e.Want, e.Got)
}

// ErrInvalidParameter returned when a command argument is outside the
// range the device accepts
type ErrInvalidParameter struct {
	Name  string
	Value interface{}
}

func (e ErrInvalidParameter) Error() string {
	return fmt.Sprintf("Invalid %s: %v", e.Name, e.Value)
}
