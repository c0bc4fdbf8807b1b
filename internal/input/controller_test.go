package input

import "testing"

func TestNewControllerDefaultState(t *testing.T) {
	c := New()
	if c.buttons != 0 || c.strobe || c.shiftReg != 0 {
		t.Fatalf("expected zero-value controller, got %+v", c)
	}
}

func TestSetButtonCombinesState(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonB, true)
	c.SetButton(ButtonStart, true)

	want := uint8(ButtonA) | uint8(ButtonB) | uint8(ButtonStart)
	if c.buttons != want {
		t.Fatalf("buttons = %#02x, want %#02x", c.buttons, want)
	}
	if c.IsPressed(ButtonSelect) {
		t.Fatal("ButtonSelect should not be pressed")
	}

	c.SetButton(ButtonA, false)
	if c.IsPressed(ButtonA) {
		t.Fatal("ButtonA should be cleared")
	}
}

func TestReadWhileStrobedAlwaysReturnsButtonA(t *testing.T) {
	c := New()
	c.Write(0x01)
	if v := c.Read(); v != 0x40 {
		t.Fatalf("read = %#02x, want 0x40", v)
	}

	c.SetButton(ButtonA, true)
	if v := c.Read(); v != 0x41 {
		t.Fatalf("read = %#02x, want 0x41", v)
	}
}

func TestReadSequenceMatchesButtonOrder(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)
	c.SetButton(ButtonRight, true)

	c.Write(0x01)
	c.Write(0x00)

	want := []uint8{0x41, 0x40, 0x40, 0x41, 0x40, 0x40, 0x40, 0x41}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("read %d = %#02x, want %#02x", i, got, w)
		}
	}
}

func TestReadPastEighthBitReturnsOnes(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(0x01)
	c.Write(0x00)

	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 4; i++ {
		if got := c.Read(); got != 0x41 {
			t.Fatalf("extended read %d = %#02x, want 0x41 (open bus high)", i, got)
		}
	}
}

func TestWriteWhileStrobeHighTracksLiveButtons(t *testing.T) {
	c := New()
	c.Write(0x01) // strobe high

	c.SetButton(ButtonA, false)
	c.SetButton(ButtonB, true)

	if v := c.Read(); v != 0x40 {
		t.Fatalf("strobed read should track the live mask, got %#02x", v)
	}
}

func TestResetClearsState(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(0x01)

	c.Reset()
	if c.buttons != 0 || c.strobe || c.shiftReg != 0 {
		t.Fatalf("expected cleared controller after Reset, got %+v", c)
	}
}

func TestPortsRouteIndependently(t *testing.T) {
	p := NewPorts()
	p.One.SetButton(ButtonA, true)
	p.Two.SetButton(ButtonB, true)
	p.Write(0x4016, 0x01)
	p.Write(0x4016, 0x00)

	if v := p.Read(0x4016); v != 0x41 {
		t.Fatalf("port one read = %#02x, want 0x41", v)
	}
	if v := p.Read(0x4017); v != 0x40 {
		t.Fatalf("port two read = %#02x, want 0x40 (ButtonB is not bit 0)", v)
	}
}

func TestPortsResetClearsBoth(t *testing.T) {
	p := NewPorts()
	p.One.SetButton(ButtonA, true)
	p.Two.SetButton(ButtonB, true)
	p.Reset()

	if p.One.buttons != 0 || p.Two.buttons != 0 {
		t.Fatal("expected both controllers cleared")
	}
}
