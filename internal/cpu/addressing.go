package cpu

// AddressMode names a 6502 addressing mode (§4.2).
type AddressMode uint8

const (
	Implied AddressMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

// execRead consumes a fetched operand byte (LDA, ADC, CMP, ...). These are
// bound *CPU methods (c.adc, c.lda, ...), receiver already attached.
type execRead func(value uint8)

// execWrite produces the byte a store instruction writes (STA, STX, ...).
type execWrite func() uint8

// execModify transforms a read-modify-write operand and returns the new
// value to store back (ASL, INC, SLO, ...); it must also set flags.
type execModify func(value uint8) uint8

// fetchOperand emits a Fetch at the current PC and advances it; the byte
// itself arrives as dataIn to whichever step runs next.
func fetchOperand(c *CPU) TickResult {
	addr := c.PC
	c.PC++
	return TickResult{Op: OpFetch, Addr: addr}
}

// finalRead turns a fully-resolved address into the instruction's last
// cycle: request the read, and defer using its result (register/flag
// update) to the top of the next Tick call via pendingFinish, since the
// byte itself only arrives then (see cpu.go's Tick/beginNext).
func finalRead(addr uint16, exec execRead) step {
	return func(c *CPU, _ uint8) TickResult {
		c.pendingFinish = func(c *CPU, dataIn uint8) { exec(dataIn) }
		return TickResult{Op: OpRead, Addr: addr}
	}
}

func finalReadDynamic(addrFn func(c *CPU) uint16, exec execRead) step {
	return func(c *CPU, _ uint8) TickResult {
		addr := addrFn(c)
		c.pendingFinish = func(c *CPU, dataIn uint8) { exec(dataIn) }
		return TickResult{Op: OpRead, Addr: addr}
	}
}

func finalWrite(addrFn func(c *CPU) uint16, exec execWrite) step {
	return func(c *CPU, _ uint8) TickResult {
		return TickResult{Op: OpWrite, Addr: addrFn(c), Value: exec()}
	}
}

// modifyTail appends the canonical read -> dummy-write-back -> write-new
// three cycles shared by every read-modify-write addressing mode, once the
// effective address is already latched in c.addr.
func modifyTail(exec execModify) []step {
	return []step{
		func(c *CPU, _ uint8) TickResult {
			return TickResult{Op: OpRead, Addr: c.addr}
		},
		func(c *CPU, dataIn uint8) TickResult {
			c.fetched = dataIn
			return TickResult{Op: OpWrite, Addr: c.addr, Value: c.fetched}
		},
		func(c *CPU, _ uint8) TickResult {
			newVal := exec(c.fetched)
			return TickResult{Op: OpWrite, Addr: c.addr, Value: newVal}
		},
	}
}

// --- Immediate ---

func buildImmediateRead(exec execRead) []step {
	return []step{
		func(c *CPU, _ uint8) TickResult {
			c.pendingFinish = func(c *CPU, dataIn uint8) { exec(dataIn) }
			return fetchOperand(c)
		},
	}
}

// --- Zero page ---

func buildZeroPageAddr() step {
	return func(c *CPU, _ uint8) TickResult { return fetchOperand(c) }
}

func buildZeroPageRead(exec execRead) []step {
	return []step{
		buildZeroPageAddr(),
		func(c *CPU, dataIn uint8) TickResult {
			return finalRead(uint16(dataIn), exec)(c, 0)
		},
	}
}

func buildZeroPageWrite(exec execWrite) []step {
	return []step{
		buildZeroPageAddr(),
		func(c *CPU, dataIn uint8) TickResult {
			return finalWrite(func(c *CPU) uint16 { return uint16(dataIn) }, exec)(c, 0)
		},
	}
}

func buildZeroPageModify(exec execModify) []step {
	tail := modifyTail(exec)
	return []step{
		buildZeroPageAddr(),
		func(c *CPU, dataIn uint8) TickResult {
			c.addr = uint16(dataIn)
			return tail[0](c, 0)
		},
		tail[1],
		tail[2],
	}
}

// --- Zero page indexed (X or Y) ---

func buildZeroPageIndexed(indexOf func(c *CPU) uint8) (resolve []step) {
	return []step{
		buildZeroPageAddr(),
		func(c *CPU, dataIn uint8) TickResult {
			c.ptr = dataIn
			return TickResult{Op: OpRead, Addr: uint16(c.ptr)} // dummy read of base before indexing
		},
	}
}

func buildZeroPageIndexedRead(indexOf func(c *CPU) uint8, exec execRead) []step {
	steps := buildZeroPageIndexed(indexOf)
	steps = append(steps, func(c *CPU, _ uint8) TickResult {
		addr := uint16(c.ptr + indexOf(c))
		return finalRead(addr, exec)(c, 0)
	})
	return steps
}

func buildZeroPageIndexedWrite(indexOf func(c *CPU) uint8, exec execWrite) []step {
	steps := buildZeroPageIndexed(indexOf)
	steps = append(steps, func(c *CPU, _ uint8) TickResult {
		addr := uint16(c.ptr + indexOf(c))
		return finalWrite(func(c *CPU) uint16 { return addr }, exec)(c, 0)
	})
	return steps
}

func buildZeroPageIndexedModify(indexOf func(c *CPU) uint8, exec execModify) []step {
	tail := modifyTail(exec)
	steps := buildZeroPageIndexed(indexOf)
	steps = append(steps, func(c *CPU, _ uint8) TickResult {
		c.addr = uint16(c.ptr + indexOf(c))
		return tail[0](c, 0)
	}, tail[1], tail[2])
	return steps
}

// --- Absolute ---

func buildAbsoluteAddr() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return fetchOperand(c) },
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			return fetchOperand(c)
		},
	}
}

func buildAbsoluteRead(exec execRead) []step {
	steps := buildAbsoluteAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		addr := uint16(c.operandHi)<<8 | uint16(c.operandLo)
		return finalRead(addr, exec)(c, 0)
	})
	return steps
}

func buildAbsoluteWrite(exec execWrite) []step {
	steps := buildAbsoluteAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		addr := uint16(c.operandHi)<<8 | uint16(c.operandLo)
		return finalWrite(func(c *CPU) uint16 { return addr }, exec)(c, 0)
	})
	return steps
}

func buildAbsoluteModify(exec execModify) []step {
	tail := modifyTail(exec)
	steps := buildAbsoluteAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		c.addr = uint16(c.operandHi)<<8 | uint16(c.operandLo)
		return tail[0](c, 0)
	}, tail[1], tail[2])
	return steps
}

// --- Absolute indexed (X or Y) ---

// resolvedAbsIndexed computes base, effective address and the
// page-mismatched "wrong" address used for the dummy read on page-cross.
func resolvedAbsIndexed(c *CPU, index uint8) (base, addr, wrong uint16) {
	base = uint16(c.operandHi)<<8 | uint16(c.operandLo)
	addr = base + uint16(index)
	wrong = (base & 0xFF00) | (addr & 0x00FF)
	return
}

func buildAbsoluteIndexedRead(indexOf func(c *CPU) uint8, exec execRead) []step {
	steps := buildAbsoluteAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		_, addr, wrong := resolvedAbsIndexed(c, indexOf(c))
		if wrong != addr {
			c.addr = addr
			c.queue = append([]step{finalReadDynamic(func(c *CPU) uint16 { return c.addr }, exec)}, c.queue...)
			return TickResult{Op: OpRead, Addr: wrong}
		}
		return finalRead(addr, exec)(c, 0)
	})
	return steps
}

func buildAbsoluteIndexedWrite(indexOf func(c *CPU) uint8, exec execWrite) []step {
	steps := buildAbsoluteAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		_, addr, wrong := resolvedAbsIndexed(c, indexOf(c))
		c.addr = addr
		return TickResult{Op: OpRead, Addr: wrong} // always-incurred dummy read
	})
	steps = append(steps, func(c *CPU, _ uint8) TickResult {
		return finalWrite(func(c *CPU) uint16 { return c.addr }, exec)(c, 0)
	})
	return steps
}

func buildAbsoluteIndexedModify(indexOf func(c *CPU) uint8, exec execModify) []step {
	steps := buildAbsoluteAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		_, addr, wrong := resolvedAbsIndexed(c, indexOf(c))
		c.addr = addr
		return TickResult{Op: OpRead, Addr: wrong} // always-incurred dummy read
	})
	tail := modifyTail(exec)
	steps = append(steps, tail...)
	return steps
}

// --- Indexed indirect (zp,X) ---

func buildIndirectXAddr() []step {
	return []step{
		buildZeroPageAddr(),
		func(c *CPU, dataIn uint8) TickResult {
			c.ptr = dataIn
			return TickResult{Op: OpRead, Addr: uint16(c.ptr)} // dummy read before adding X
		},
		func(c *CPU, _ uint8) TickResult {
			c.ptr += c.X
			return TickResult{Op: OpRead, Addr: uint16(c.ptr)}
		},
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			return TickResult{Op: OpRead, Addr: uint16(c.ptr + 1)}
		},
	}
}

func buildIndirectXRead(exec execRead) []step {
	steps := buildIndirectXAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		addr := uint16(c.operandHi)<<8 | uint16(c.operandLo)
		return finalRead(addr, exec)(c, 0)
	})
	return steps
}

func buildIndirectXWrite(exec execWrite) []step {
	steps := buildIndirectXAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		addr := uint16(c.operandHi)<<8 | uint16(c.operandLo)
		return finalWrite(func(c *CPU) uint16 { return addr }, exec)(c, 0)
	})
	return steps
}

func buildIndirectXModify(exec execModify) []step {
	tail := modifyTail(exec)
	steps := buildIndirectXAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		c.addr = uint16(c.operandHi)<<8 | uint16(c.operandLo)
		return tail[0](c, 0)
	}, tail[1], tail[2])
	return steps
}

// --- Indirect indexed (zp),Y ---

func buildIndirectYAddr() []step {
	return []step{
		buildZeroPageAddr(),
		func(c *CPU, dataIn uint8) TickResult {
			c.ptr = dataIn
			return TickResult{Op: OpRead, Addr: uint16(c.ptr)}
		},
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			return TickResult{Op: OpRead, Addr: uint16(c.ptr + 1)}
		},
	}
}

func buildIndirectYRead(exec execRead) []step {
	steps := buildIndirectYAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		_, addr, wrong := resolvedAbsIndexed(c, c.Y)
		if wrong != addr {
			c.addr = addr
			c.queue = append([]step{finalReadDynamic(func(c *CPU) uint16 { return c.addr }, exec)}, c.queue...)
			return TickResult{Op: OpRead, Addr: wrong}
		}
		return finalRead(addr, exec)(c, 0)
	})
	return steps
}

func buildIndirectYWrite(exec execWrite) []step {
	steps := buildIndirectYAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		_, addr, wrong := resolvedAbsIndexed(c, c.Y)
		c.addr = addr
		return TickResult{Op: OpRead, Addr: wrong}
	})
	steps = append(steps, func(c *CPU, _ uint8) TickResult {
		return finalWrite(func(c *CPU) uint16 { return c.addr }, exec)(c, 0)
	})
	return steps
}

func buildIndirectYModify(exec execModify) []step {
	steps := buildIndirectYAddr()
	steps = append(steps, func(c *CPU, dataIn uint8) TickResult {
		c.operandHi = dataIn
		_, addr, wrong := resolvedAbsIndexed(c, c.Y)
		c.addr = addr
		return TickResult{Op: OpRead, Addr: wrong}
	})
	tail := modifyTail(exec)
	steps = append(steps, tail...)
	return steps
}

// --- Implied / Accumulator / Relative ---

// buildImplied is the generic 2-cycle no-operand shape: a dummy read of PC
// (not advanced) while the operation executes internally.
func buildImplied(exec func(c *CPU)) []step {
	return []step{
		func(c *CPU, _ uint8) TickResult {
			exec(c)
			return TickResult{Op: OpRead, Addr: c.PC}
		},
	}
}

func buildAccumulator(exec execModify) []step {
	return []step{
		func(c *CPU, _ uint8) TickResult {
			c.A = exec(c.A)
			return TickResult{Op: OpRead, Addr: c.PC}
		},
	}
}

// buildRelative implements branch timing: 2 cycles base, +1 if taken, +1
// more if the branch crosses a page.
func buildRelative(cond func(c *CPU) bool) []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return fetchOperand(c) },
		func(c *CPU, dataIn uint8) TickResult {
			c.branchDelta = int8(dataIn)
			if !cond(c) {
				return TickResult{Op: OpRead, Addr: c.PC}
			}
			oldPC := c.PC
			target := uint16(int32(oldPC) + int32(c.branchDelta))
			crossed := (oldPC & 0xFF00) != (target & 0xFF00)
			c.addr = target
			if crossed {
				c.queue = append([]step{func(c *CPU, _ uint8) TickResult {
					c.PC = c.addr
					return TickResult{Op: OpRead, Addr: c.PC}
				}}, c.queue...)
			} else {
				c.PC = target
			}
			return TickResult{Op: OpRead, Addr: oldPC}
		},
	}
}
