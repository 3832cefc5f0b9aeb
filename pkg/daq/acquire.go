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
	"time"

	"github.com/ingen10/go-daq/pkg/log"
)

// AcquisitionConfig describes one stream experiment on a data channel.
type AcquisitionConfig struct {
	Channel  int // data channel number [1:4]
	Period   int // sampling period in milliseconds [1:65535]
	PInput   int // positive analog input [1:8]
	NInput   int // negative analog input, 0 for single-ended
	Gain     int // gain selector [0:4]
	NSamples int // samples averaged per point [1:255]
	NPoints  int // total points to acquire, 0 for continuous
}

// Acquire runs a stream experiment to completion: it configures the
// channel, starts the measurement, polls the stream decoder until the
// requested number of points arrived or the device stopped the stream,
// then stops streaming and drains the line. The decoded frames are
// returned in arrival order together with the number of frames dropped
// on checksum mismatch.
func (d *Device) Acquire(cfg AcquisitionConfig) ([]*Frame, int, error) {
	if err := d.CreateStream(cfg.Channel, cfg.Period); err != nil {
		return nil, 0, err
	}
	if err := d.ConfChannel(cfg.Channel, AnalogInput, cfg.PInput, cfg.NInput, cfg.Gain, cfg.NSamples); err != nil {
		return nil, 0, err
	}
	if err := d.SetupChannel(cfg.Channel, cfg.NPoints, true); err != nil {
		return nil, 0, err
	}
	// ReadAnalog/Volts calibration lookups follow the stream settings
	d.gain = cfg.Gain
	d.pinput = cfg.PInput
	d.ninput = cfg.NInput

	if err := d.StartStreaming(); err != nil {
		return nil, 0, err
	}

	dec := d.Decoder()
	var frames []*Frame
	collected := 0
	stopped := false
	for !stopped && (cfg.NPoints == 0 || collected < cfg.NPoints) {
		status, frame, err := dec.TryDecodeOne()
		if err != nil {
			d.StopStreaming(dec)
			return frames, dec.Dropped, err
		}
		switch status {
		case StatusNoData:
			time.Sleep(10 * time.Millisecond)
		case StatusUnexpectedByte:
			// noise between frames, resynchronize on the next call
		case StatusStreamStopped:
			log.Info("Device stopped stream on channel %d", frame.Channel)
			stopped = true
		case StatusFrameDecoded:
			collected += len(frame.Samples)
			if len(frame.Samples) > 0 {
				frames = append(frames, frame)
			}
		}
	}

	if stopped {
		return frames, dec.Dropped, d.Flush()
	}
	tail, err := d.StopStreaming(dec)
	frames = append(frames, tail...)
	return frames, dec.Dropped, err
}
