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

package remote

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ingen10/go-daq/pkg/command"
	"github.com/ingen10/go-daq/pkg/config"
)

const (
	HostOptionName    = "host"
	ApiPortOptionName = "api-port"
)

// NewCommand creates the remote command which drives a device served
// by another go-daq instance
func NewCommand() *cobra.Command {
	var host string
	var apiPort int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Control a device served by a remote API server",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if host != "" {
				cfg.Host = host
			}
			if apiPort != 0 {
				cfg.ApiConfig.Port = apiPort
			}
		},
	}
	cmd.AddCommand(newInfoCommand(cfg))
	cmd.AddCommand(newAdcCommand(cfg))
	cmd.AddCommand(newDacCommand(cfg))
	cmd.AddCommand(newLedCommand(cfg))
	cmd.PersistentFlags().StringVar(&host, HostOptionName, "", "Host of the API server")
	cmd.PersistentFlags().IntVar(&apiPort, ApiPortOptionName, 0, "TCP port of the API server")
	return cmd
}

func newInfoCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the identity of the remote device",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := command.NewApiClient(cfg).Info()
			if err != nil {
				return err
			}
			cmd.Printf("hardware: [%s]\n", info.Hardware)
			cmd.Printf("firmware: %d\n", info.Firmware)
			cmd.Printf("serial:   %d\n", info.Serial)
			return nil
		},
	}
}

func newAdcCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "adc",
		Short: "Read the remote analog input",
		RunE: func(cmd *cobra.Command, args []string) error {
			volts, err := command.NewApiClient(cfg).AdcRead()
			if err != nil {
				return err
			}
			cmd.Printf("%.6f\n", volts)
			return nil
		},
	}
}

func newDacCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "dac <volts>",
		Short: "Set the remote analog output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			volts, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return err
			}
			return command.NewApiClient(cfg).DacSet(volts)
		},
	}
}

func newLedCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "led <color>",
		Short: "Set the remote LED color [0:3]",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return command.NewApiClient(cfg).LedSet(color)
		},
	}
}
