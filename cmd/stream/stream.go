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

package stream

import (
	"github.com/spf13/cobra"

	daqcmd "github.com/ingen10/go-daq/pkg/cmd"
	"github.com/ingen10/go-daq/pkg/config"
	"github.com/ingen10/go-daq/pkg/daq"
	"github.com/ingen10/go-daq/pkg/log"
)

const (
	PortOptionName     = "port"
	ChannelOptionName  = "channel"
	PeriodOptionName   = "period"
	NPointsOptionName  = "npoints"
	PInputOptionName   = "pinput"
	NInputOptionName   = "ninput"
	GainOptionName     = "gain"
	NSamplesOptionName = "nsamples"
	VoltsOptionName    = "volts"
)

// NewCommand creates the stream command which runs a timer-driven
// acquisition and prints the collected samples
func NewCommand() *cobra.Command {
	var port string
	var channel, period, npoints, pinput, ninput, gain, nsamples int
	var volts bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Acquire samples from a timer-driven stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.SerialConfig.Port = port
			}
			device, closer, err := daqcmd.OpenDevice(cfg)
			if err != nil {
				return err
			}
			defer closer()
			frames, dropped, err := device.Acquire(daq.AcquisitionConfig{
				Channel:  channel,
				Period:   period,
				PInput:   pinput,
				NInput:   ninput,
				Gain:     gain,
				NSamples: nsamples,
				NPoints:  npoints,
			})
			if err != nil {
				return err
			}
			for _, frame := range frames {
				if volts {
					for _, v := range device.Volts(frame.Samples) {
						cmd.Printf("%d %.6f\n", frame.Channel, v)
					}
					continue
				}
				for _, sample := range frame.Samples {
					cmd.Printf("%d %d\n", frame.Channel, sample)
				}
			}
			if dropped > 0 {
				log.Warning("Dropped %d corrupt frames", dropped)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", "Serial port of the device. E.g. /dev/ttyUSB0")
	cmd.Flags().IntVar(&channel, ChannelOptionName, 1, "DataChannel number [1:4]")
	cmd.Flags().IntVar(&period, PeriodOptionName, 100, "Sampling period in milliseconds [1:65535]")
	cmd.Flags().IntVar(&npoints, NPointsOptionName, 100, "Points to acquire, 0 for continuous")
	cmd.Flags().IntVar(&pinput, PInputOptionName, 1, "Positive analog input [1:8]")
	cmd.Flags().IntVar(&ninput, NInputOptionName, 0, "Negative analog input, 0 for single-ended")
	cmd.Flags().IntVar(&gain, GainOptionName, 0, "Gain selector [0:4]")
	cmd.Flags().IntVar(&nsamples, NSamplesOptionName, 1, "Samples averaged per point [1:255]")
	cmd.Flags().BoolVar(&volts, VoltsOptionName, false, "Print calibrated volts instead of raw codes")
	return cmd
}
