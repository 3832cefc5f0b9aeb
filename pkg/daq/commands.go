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
	"github.com/ingen10/go-daq/pkg/layers"
)

// CmdID is a device command identifier. Command numbers are defined by
// the firmware; see the serial protocol section of the device manual.
type CmdID uint8

const (
	CmdAdcRead        CmdID = 1
	CmdAdcConf        CmdID = 2
	CmdPioSet         CmdID = 3
	CmdPioDir         CmdID = 5
	CmdPortSet        CmdID = 7
	CmdPortDir        CmdID = 9
	CmdPwmInit        CmdID = 10
	CmdPwmStop        CmdID = 11
	CmdCaptureInit    CmdID = 14
	CmdCaptureStop    CmdID = 15
	CmdCaptureGet     CmdID = 16
	CmdLedSet         CmdID = 18
	CmdStreamCreate   CmdID = 19
	CmdExternalCreate CmdID = 20
	CmdBurstCreate    CmdID = 21
	CmdChannelConf    CmdID = 22
	CmdSignalLoad     CmdID = 23
	CmdDacSet         CmdID = 24
	CmdSpiConfig      CmdID = 26
	CmdSpiSetup       CmdID = 28
	CmdSpiTransfer    CmdID = 29
	CmdChannelSetup   CmdID = 32
	CmdCalibGet       CmdID = 36
	CmdCalibSet       CmdID = 37
	CmdIdent          CmdID = 39
	CmdCounterInit    CmdID = 41
	CmdCounterGet     CmdID = 42
	CmdEncoderInit    CmdID = 50
	CmdEncoderStop    CmdID = 51
	CmdEncoderGet     CmdID = 52
	CmdCrcEnable      CmdID = 55
	CmdChannelDestroy CmdID = 57
	CmdStart          CmdID = 64
	// CmdStop doubles as the stream stop marker: during streaming the
	// device announces termination by placing this value in the
	// command position of a frame header.
	CmdStop CmdID = 80
)

// Descriptor pairs a command id with its fixed response layout. Device
// operations build their payloads and hand descriptors to the codec;
// the codec itself knows nothing about individual commands.
type Descriptor struct {
	ID   CmdID
	Name string
	Resp []layers.Field
}

var (
	AdcRead        = Descriptor{CmdAdcRead, "adc-read", []layers.Field{layers.Int16}}
	AdcConf        = Descriptor{CmdAdcConf, "adc-conf", []layers.Field{layers.Int16, layers.Uint8, layers.Uint8, layers.Uint8, layers.Uint8}}
	PioSet         = Descriptor{CmdPioSet, "pio-set", []layers.Field{layers.Uint8, layers.Uint8}}
	PioDir         = Descriptor{CmdPioDir, "pio-dir", []layers.Field{layers.Uint8, layers.Uint8}}
	PortSet        = Descriptor{CmdPortSet, "port-set", []layers.Field{layers.Uint8}}
	PortDir        = Descriptor{CmdPortDir, "port-dir", []layers.Field{layers.Uint8}}
	PwmInit        = Descriptor{CmdPwmInit, "pwm-init", []layers.Field{layers.Uint16, layers.Uint16}}
	PwmStop        = Descriptor{CmdPwmStop, "pwm-stop", nil}
	CaptureInit    = Descriptor{CmdCaptureInit, "capture-init", []layers.Field{layers.Uint16}}
	CaptureStop    = Descriptor{CmdCaptureStop, "capture-stop", nil}
	CaptureGet     = Descriptor{CmdCaptureGet, "capture-get", []layers.Field{layers.Uint8, layers.Uint16}}
	LedSet         = Descriptor{CmdLedSet, "led-set", []layers.Field{layers.Uint8}}
	StreamCreate   = Descriptor{CmdStreamCreate, "stream-create", []layers.Field{layers.Uint8, layers.Uint16}}
	ExternalCreate = Descriptor{CmdExternalCreate, "external-create", []layers.Field{layers.Uint8, layers.Uint8}}
	BurstCreate    = Descriptor{CmdBurstCreate, "burst-create", []layers.Field{layers.Uint16}}
	ChannelConf    = Descriptor{CmdChannelConf, "channel-conf", []layers.Field{layers.Uint8, layers.Uint8, layers.Uint8, layers.Uint8, layers.Uint8, layers.Uint8}}
	SignalLoad     = Descriptor{CmdSignalLoad, "signal-load", []layers.Field{layers.Uint8, layers.Int16}}
	DacSet         = Descriptor{CmdDacSet, "dac-set", []layers.Field{layers.Int16}}
	SpiConfig      = Descriptor{CmdSpiConfig, "spi-config", []layers.Field{layers.Uint8, layers.Uint8}}
	SpiSetup       = Descriptor{CmdSpiSetup, "spi-setup", []layers.Field{layers.Uint8, layers.Uint8, layers.Uint8}}
	SpiTransfer    = Descriptor{CmdSpiTransfer, "spi-transfer", []layers.Field{layers.Uint8}}
	SpiTransfer16  = Descriptor{CmdSpiTransfer, "spi-transfer-word", []layers.Field{layers.Uint16}}
	ChannelSetup   = Descriptor{CmdChannelSetup, "channel-setup", []layers.Field{layers.Uint8, layers.Uint16, layers.Uint8}}
	CalibGet       = Descriptor{CmdCalibGet, "calib-get", []layers.Field{layers.Uint8, layers.Uint16, layers.Int16}}
	CalibSet       = Descriptor{CmdCalibSet, "calib-set", []layers.Field{layers.Uint8, layers.Uint16, layers.Int16}}
	Ident          = Descriptor{CmdIdent, "ident", []layers.Field{layers.Int8, layers.Int8, layers.Uint32}}
	CounterInit    = Descriptor{CmdCounterInit, "counter-init", []layers.Field{layers.Uint8}}
	CounterGet     = Descriptor{CmdCounterGet, "counter-get", []layers.Field{layers.Uint16}}
	EncoderInit    = Descriptor{CmdEncoderInit, "encoder-init", []layers.Field{layers.Uint8}}
	EncoderStop    = Descriptor{CmdEncoderStop, "encoder-stop", nil}
	EncoderGet     = Descriptor{CmdEncoderGet, "encoder-get", []layers.Field{layers.Uint16}}
	CrcEnable      = Descriptor{CmdCrcEnable, "crc-enable", []layers.Field{layers.Uint8}}
	ChannelDestroy = Descriptor{CmdChannelDestroy, "channel-destroy", []layers.Field{layers.Uint8}}
	Start          = Descriptor{CmdStart, "start", nil}
	Stop           = Descriptor{CmdStop, "stop", nil}
)

// Catalogue lists every command the driver knows about.
var Catalogue = []*Descriptor{
	&AdcRead, &AdcConf, &PioSet, &PioDir, &PortSet, &PortDir,
	&PwmInit, &PwmStop, &CaptureInit, &CaptureStop, &CaptureGet,
	&LedSet, &StreamCreate, &ExternalCreate, &BurstCreate,
	&ChannelConf, &SignalLoad, &DacSet, &SpiConfig, &SpiSetup,
	&SpiTransfer, &SpiTransfer16, &ChannelSetup, &CalibGet, &CalibSet,
	&Ident, &CounterInit, &CounterGet, &EncoderInit, &EncoderStop,
	&EncoderGet, &CrcEnable, &ChannelDestroy, &Start, &Stop,
}
