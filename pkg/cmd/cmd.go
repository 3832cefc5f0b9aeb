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

package cmd

import (
	"time"

	"github.com/ingen10/go-daq/pkg/config"
	"github.com/ingen10/go-daq/pkg/daq"
	"github.com/ingen10/go-daq/pkg/log"
	"github.com/ingen10/go-daq/pkg/serial"
	"github.com/ingen10/go-daq/pkg/state"
)

// OpenDevice opens the configured serial port and establishes a device
// session: identify, fetch calibration, cache it locally. The returned
// close function releases the port.
func OpenDevice(cfg *config.Config) (*daq.Device, func(), error) {
	port, err := serial.Open(cfg.SerialConfig)
	if err != nil {
		return nil, nil, err
	}
	closer := func() { port.Close() }

	// opening the port resets the device, give it time to boot
	time.Sleep(2 * time.Second)
	port.FlushInput()

	device := daq.NewDevice(port)
	if err := device.Connect(); err != nil {
		closer()
		return nil, nil, err
	}

	if cfg.Hardware != "" {
		hw, err := daq.ParseHardwareVersion(cfg.Hardware)
		if err != nil {
			closer()
			return nil, nil, err
		}
		if hw != device.HW {
			log.Warning("Hardware version override: detected [%s], using [%s]", device.HW, hw)
			device.SetHardware(hw)
			if err := device.LoadCalibration(); err != nil {
				closer()
				return nil, nil, err
			}
		}
	}

	if cfg.DBPath != "" {
		st, err := state.Open(cfg.DBPath)
		if err != nil {
			log.Warning("Calibration cache unavailable: %s", err)
		} else {
			if err := st.PutCalibration(device.Serial, device.Cal); err != nil {
				log.Warning("Error while caching calibration: %s", err)
			}
			st.Close()
		}
	}

	return device, closer, nil
}
