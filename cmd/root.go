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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ingen10/go-daq/cmd/adc"
	"github.com/ingen10/go-daq/cmd/calib"
	"github.com/ingen10/go-daq/cmd/completion"
	"github.com/ingen10/go-daq/cmd/config"
	"github.com/ingen10/go-daq/cmd/dac"
	"github.com/ingen10/go-daq/cmd/info"
	"github.com/ingen10/go-daq/cmd/led"
	"github.com/ingen10/go-daq/cmd/pio"
	"github.com/ingen10/go-daq/cmd/remote"
	"github.com/ingen10/go-daq/cmd/serve"
	"github.com/ingen10/go-daq/cmd/stream"
	pkgconfig "github.com/ingen10/go-daq/pkg/config"
	"github.com/ingen10/go-daq/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "go-daq",
		Short: "Tool to work with openDAQ measurement devices",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(config.NewCommand())
	cmd.AddCommand(info.NewCommand())
	cmd.AddCommand(adc.NewCommand())
	cmd.AddCommand(dac.NewCommand())
	cmd.AddCommand(calib.NewCommand())
	cmd.AddCommand(led.NewCommand())
	cmd.AddCommand(pio.NewCommand())
	cmd.AddCommand(stream.NewCommand())
	cmd.AddCommand(serve.NewCommand())
	cmd.AddCommand(remote.NewCommand())
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
