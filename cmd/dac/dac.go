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

package dac

import (
	"github.com/spf13/cobra"

	daqcmd "github.com/ingen10/go-daq/pkg/cmd"
	"github.com/ingen10/go-daq/pkg/config"
)

const (
	PortOptionName  = "port"
	VoltsOptionName = "volts"
	RawOptionName   = "raw"
)

// NewCommand creates the dac command which sets the analog output
func NewCommand() *cobra.Command {
	var port string
	var volts float64
	var raw int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "dac",
		Short: "Set the analog output",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.SerialConfig.Port = port
			}
			device, closer, err := daqcmd.OpenDevice(cfg)
			if err != nil {
				return err
			}
			defer closer()
			if cmd.Flags().Changed(RawOptionName) {
				_, err = device.SetDAC(raw)
				return err
			}
			_, err = device.SetAnalog(volts)
			return err
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", "Serial port of the device. E.g. /dev/ttyUSB0")
	cmd.Flags().Float64Var(&volts, VoltsOptionName, 0, "Output voltage in volts")
	cmd.Flags().IntVar(&raw, RawOptionName, 0, "Raw DAC register value, bypasses calibration")
	return cmd
}
