// Package input implements the two standard NES controller ports at
// $4016/$4017: an 8-bit shift register latched on strobe, shifted out one
// bit per read.
package input

import "github.com/golang/glog"

// Button is one bit of the standard NES controller report.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller is a single standard NES pad.
type Controller struct {
	buttons uint8

	strobe   bool
	shiftReg uint8
}

func New() *Controller { return &Controller{} }

// SetButtons replaces the controller's current button mask wholesale; the
// live mask is latched into the shift register on the next strobe write.
func (c *Controller) SetButtons(mask uint8) { c.buttons = mask }

func (c *Controller) SetButton(b Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(b)
	} else {
		c.buttons &^= uint8(b)
	}
}

func (c *Controller) IsPressed(b Button) bool { return c.buttons&uint8(b) != 0 }

// Write handles a $4016 strobe write. While strobe is held high the shift
// register continuously reloads from the live button mask; the falling
// edge freezes the snapshot that subsequent reads shift out.
func (c *Controller) Write(value uint8) {
	c.strobe = value&1 != 0
	if c.strobe {
		c.shiftReg = c.buttons
	}
}

// Read returns the next bit of the latched report in bit 0, with bit 6 set
// as open-bus-high. Once all 8 buttons have shifted out, real hardware
// reads back 1s from the open data line.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.buttons&1 | 0x40
	}
	bit := c.shiftReg & 1
	c.shiftReg = c.shiftReg>>1 | 0x80
	return bit | 0x40
}

func (c *Controller) Reset() {
	c.buttons, c.strobe, c.shiftReg = 0, false, 0
}

// Ports bundles the two standard controller ports Machine wires to
// $4016/$4017.
type Ports struct {
	One, Two *Controller
}

func NewPorts() *Ports {
	return &Ports{One: New(), Two: New()}
}

func (p *Ports) Reset() {
	p.One.Reset()
	p.Two.Reset()
}

// Read serves the CPU-facing register at addr (0x4016 or 0x4017); bit 6 of
// the result is always open-bus-high, matching the real port's unconnected
// upper bits.
func (p *Ports) Read(addr uint16) uint8 {
	switch addr {
	case 0x4016:
		return p.One.Read() | 0x40
	case 0x4017:
		return p.Two.Read() | 0x40
	default:
		glog.V(2).Infof("input: read from unmapped port address %#04x", addr)
		return 0x40
	}
}

// Write handles $4016; both controllers observe the same strobe line.
func (p *Ports) Write(addr uint16, value uint8) {
	if addr != 0x4016 {
		return
	}
	p.One.Write(value)
	p.Two.Write(value)
}
