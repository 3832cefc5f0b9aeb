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

package adc

import (
	"github.com/spf13/cobra"

	daqcmd "github.com/ingen10/go-daq/pkg/cmd"
	"github.com/ingen10/go-daq/pkg/config"
)

const (
	PortOptionName     = "port"
	PInputOptionName   = "pinput"
	NInputOptionName   = "ninput"
	GainOptionName     = "gain"
	NSamplesOptionName = "nsamples"
	RawOptionName      = "raw"
)

// NewCommand creates the adc command which reads the analog input
func NewCommand() *cobra.Command {
	var port string
	var pinput, ninput, gain, nsamples int
	var raw bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "adc",
		Short: "Read the analog input",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.SerialConfig.Port = port
			}
			device, closer, err := daqcmd.OpenDevice(cfg)
			if err != nil {
				return err
			}
			defer closer()
			if err := device.AdcConfig(pinput, ninput, gain, nsamples); err != nil {
				return err
			}
			if raw {
				value, err := device.ReadADC()
				if err != nil {
					return err
				}
				cmd.Printf("%d\n", value)
				return nil
			}
			volts, err := device.ReadAnalog()
			if err != nil {
				return err
			}
			cmd.Printf("%.6f\n", volts)
			return nil
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", "Serial port of the device. E.g. /dev/ttyUSB0")
	cmd.Flags().IntVar(&pinput, PInputOptionName, 1, "Positive analog input [1:8]")
	cmd.Flags().IntVar(&ninput, NInputOptionName, 0, "Negative analog input, 0 for single-ended")
	cmd.Flags().IntVar(&gain, GainOptionName, 0, "Gain selector [0:4]")
	cmd.Flags().IntVar(&nsamples, NSamplesOptionName, 20, "Samples averaged per reading [1:255]")
	cmd.Flags().BoolVar(&raw, RawOptionName, false, "Print the raw ADC code instead of volts")
	return cmd
}
