package cpu

// This file holds the semantic body of every opcode: what happens to
// registers and flags once an operand byte has been fetched, or what byte a
// store/RMW instruction produces. Addressing and cycle timing live in
// addressing.go; opcodeTable in opcodes.go wires the two together.

func (c *CPU) adc(value uint8) {
	sum := uint16(c.A) + uint16(value) + btou16(c.C)
	result := uint8(sum)
	c.V = (c.A^value)&0x80 == 0 && (c.A^result)&0x80 != 0
	c.C = sum > 0xFF
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) sbc(value uint8) {
	c.adc(value ^ 0xFF)
}

func btou16(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func (c *CPU) and(value uint8) { c.A &= value; c.setZN(c.A) }
func (c *CPU) ora(value uint8) { c.A |= value; c.setZN(c.A) }
func (c *CPU) eor(value uint8) { c.A ^= value; c.setZN(c.A) }

func (c *CPU) cmpReg(reg uint8, value uint8) {
	result := reg - value
	c.C = reg >= value
	c.setZN(result)
}
func (c *CPU) cmp(value uint8) { c.cmpReg(c.A, value) }
func (c *CPU) cpx(value uint8) { c.cmpReg(c.X, value) }
func (c *CPU) cpy(value uint8) { c.cmpReg(c.Y, value) }

func (c *CPU) bit(value uint8) {
	c.Z = c.A&value == 0
	c.N = value&0x80 != 0
	c.V = value&0x40 != 0
}

func (c *CPU) lda(value uint8) { c.A = value; c.setZN(c.A) }
func (c *CPU) ldx(value uint8) { c.X = value; c.setZN(c.X) }
func (c *CPU) ldy(value uint8) { c.Y = value; c.setZN(c.Y) }

func (c *CPU) sta() uint8 { return c.A }
func (c *CPU) stx() uint8 { return c.X }
func (c *CPU) sty() uint8 { return c.Y }
func (c *CPU) sax() uint8 { return c.A & c.X }

func (c *CPU) asl(value uint8) uint8 {
	c.C = value&0x80 != 0
	result := value << 1
	c.setZN(result)
	return result
}

func (c *CPU) lsr(value uint8) uint8 {
	c.C = value&0x01 != 0
	result := value >> 1
	c.setZN(result)
	return result
}

func (c *CPU) rol(value uint8) uint8 {
	carryIn := btou16(c.C)
	c.C = value&0x80 != 0
	result := value<<1 | uint8(carryIn)
	c.setZN(result)
	return result
}

func (c *CPU) ror(value uint8) uint8 {
	carryIn := btou16(c.C)
	c.C = value&0x01 != 0
	result := value>>1 | uint8(carryIn<<7)
	c.setZN(result)
	return result
}

func (c *CPU) inc(value uint8) uint8 { result := value + 1; c.setZN(result); return result }
func (c *CPU) dec(value uint8) uint8 { result := value - 1; c.setZN(result); return result }

// slo/rla/sre/rra/dcp/isc are the combined read-modify-write-plus-ALU-op
// illegal opcodes: each performs the named shift/rotate/inc/dec on memory,
// then immediately folds the result into A via the paired ALU operation.
func (c *CPU) slo(value uint8) uint8 { result := c.asl(value); c.A |= result; c.setZN(c.A); return result }
func (c *CPU) rla(value uint8) uint8 { result := c.rol(value); c.A &= result; c.setZN(c.A); return result }
func (c *CPU) sre(value uint8) uint8 { result := c.lsr(value); c.A ^= result; c.setZN(c.A); return result }
func (c *CPU) rra(value uint8) uint8 {
	result := c.ror(value)
	c.adc(result)
	return result
}
func (c *CPU) dcp(value uint8) uint8 { result := c.dec(value); c.cmp(result); return result }
func (c *CPU) isc(value uint8) uint8 { result := c.inc(value); c.sbc(result); return result }

func (c *CPU) lax(value uint8) { c.A = value; c.X = value; c.setZN(value) }

func (c *CPU) anc(value uint8) {
	c.A &= value
	c.setZN(c.A)
	c.C = c.N
}

func (c *CPU) alr(value uint8) {
	c.A &= value
	c.A = c.lsr(c.A)
}

func (c *CPU) arr(value uint8) {
	c.A &= value
	c.A = c.ror(c.A)
	c.C = c.A&0x40 != 0
	c.V = (c.A&0x40 != 0) != (c.A&0x20 != 0)
}

func (c *CPU) axs(value uint8) {
	result := (c.A & c.X) - value
	c.C = (c.A & c.X) >= value
	c.X = result
	c.setZN(c.X)
}

func (c *CPU) xaa(value uint8) { c.A = c.X & value; c.setZN(c.A) }

// --- implied-form register ops ---

func (c *CPU) tax() { c.X = c.A; c.setZN(c.X) }
func (c *CPU) tay() { c.Y = c.A; c.setZN(c.Y) }
func (c *CPU) txa() { c.A = c.X; c.setZN(c.A) }
func (c *CPU) tya() { c.A = c.Y; c.setZN(c.A) }
func (c *CPU) tsx() { c.X = c.SP; c.setZN(c.X) }
func (c *CPU) txs() { c.SP = c.X }

func (c *CPU) inx() { c.X++; c.setZN(c.X) }
func (c *CPU) iny() { c.Y++; c.setZN(c.Y) }
func (c *CPU) dex() { c.X--; c.setZN(c.X) }
func (c *CPU) dey() { c.Y--; c.setZN(c.Y) }

func (c *CPU) clc() { c.C = false }
func (c *CPU) sec() { c.C = true }
func (c *CPU) cli() { c.I = false }
func (c *CPU) sei() { c.I = true }
func (c *CPU) clv() { c.V = false }
func (c *CPU) cld() { c.D = false }
func (c *CPU) sed() { c.D = true }

func (c *CPU) nop() {}

// --- unstable illegal opcodes ---
//
// These four depend on real hardware address-bus/ALU bus-conflict timing
// that varies across 2A03 revisions; this core implements the commonly
// documented "stable" approximation (mask against the high byte of the
// resolved address) rather than modelling the conflict itself.

func (c *CPU) ahx() uint8 { return c.A & c.X & uint8(c.addr>>8+1) }
func (c *CPU) shy() uint8 { return c.Y & uint8(c.addr>>8+1) }
func (c *CPU) shx() uint8 { return c.X & uint8(c.addr>>8+1) }

func (c *CPU) tas() uint8 {
	c.SP = c.A & c.X
	return c.SP & uint8(c.addr>>8+1)
}

func (c *CPU) las(value uint8) {
	result := value & c.SP
	c.A, c.X, c.SP = result, result, result
	c.setZN(result)
}
