/*
Package shatb provides the clocked simulation runtime of a verification harness
for SHA hash accelerators.

The harness itself lives in sub-packages: hashmodel is the golden reference
model (SHA-1, SHA-2 and per-round state), regmap computes the register address
map of the accelerator, bus models its request/response protocol and driver
implements the host-side register protocol on top of any bus master.

This package lets Go act as a hardware description language so that the same
driver can run against a cycle-level twin of the device. Parts are declared
with a PartSpec, composed into chips with Chip and run in a Circuit:

	c, err := shatb.NewCircuit(0, 16,
		hwlib.Input(func() bool { return a })("out=a"),
		hwlib.Not("in=a, out=notA"),
		hwlib.Output(func(v bool) { out = v })("in=notA"),
	)

The Circuit updates every component once per step, from the pin states of the
previous step. A clock cycle lasts a fixed number of steps and the constant
pin "clk" is high during its first half. Parts reading "clk", or checking
AtTick, model registers clocked on the rising edge.

The hwlib package provides gates, N-bit hash primitives and the accelerator
parts (register interface, hash core). The hwtest package provides a bus
master that drives the accelerator pins of a running Circuit, and helpers to
compare parts.

*/
package shatb
