package cpu

// Stack, subroutine and jump instructions each have a bespoke cycle shape
// that doesn't fit the generic addressing-mode builders in addressing.go.

func buildPHA() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: c.PC} },
		func(c *CPU, _ uint8) TickResult {
			addr := c.pushAddr()
			return TickResult{Op: OpWrite, Addr: addr, Value: c.A}
		},
	}
}

func buildPHP() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: c.PC} },
		func(c *CPU, _ uint8) TickResult {
			addr := c.pushAddr()
			return TickResult{Op: OpWrite, Addr: addr, Value: c.packP(true)}
		},
	}
}

func buildPLA() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: c.PC} },
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: stackBase + uint16(c.SP)} },
		func(c *CPU, _ uint8) TickResult {
			addr := c.pullAddr()
			return finalRead(addr, func(v uint8) { c.A = v; c.setZN(v) })(c, 0)
		},
	}
}

func buildPLP() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: c.PC} },
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: stackBase + uint16(c.SP)} },
		func(c *CPU, _ uint8) TickResult {
			addr := c.pullAddr()
			return finalRead(addr, func(v uint8) { c.setP(v) })(c, 0)
		},
	}
}

// buildJSR pushes the address of the last byte of the JSR instruction
// (the high byte of its own operand), which RTS pulls and increments.
func buildJSR() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return fetchOperand(c) },
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			return TickResult{Op: OpRead, Addr: stackBase + uint16(c.SP)} // internal delay
		},
		func(c *CPU, _ uint8) TickResult {
			addr := c.pushAddr()
			return TickResult{Op: OpWrite, Addr: addr, Value: uint8(c.PC >> 8)}
		},
		func(c *CPU, _ uint8) TickResult {
			addr := c.pushAddr()
			return TickResult{Op: OpWrite, Addr: addr, Value: uint8(c.PC)}
		},
		func(c *CPU, _ uint8) TickResult {
			addr := c.PC
			c.pendingFinish = func(c *CPU, dataIn uint8) {
				c.PC = uint16(dataIn)<<8 | uint16(c.operandLo)
			}
			return TickResult{Op: OpFetch, Addr: addr}
		},
	}
}

func buildRTS() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: c.PC} },
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: stackBase + uint16(c.SP)} },
		func(c *CPU, _ uint8) TickResult {
			addr := c.pullAddr()
			return TickResult{Op: OpRead, Addr: addr}
		},
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			addr := c.pullAddr()
			return TickResult{Op: OpRead, Addr: addr}
		},
		func(c *CPU, dataIn uint8) TickResult {
			c.PC = uint16(dataIn)<<8 | uint16(c.operandLo)
			addr := c.PC
			c.PC++
			return TickResult{Op: OpRead, Addr: addr}
		},
	}
}

func buildRTI() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: c.PC} },
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: stackBase + uint16(c.SP)} },
		func(c *CPU, _ uint8) TickResult {
			addr := c.pullAddr()
			return TickResult{Op: OpRead, Addr: addr}
		},
		func(c *CPU, dataIn uint8) TickResult {
			c.setP(dataIn)
			addr := c.pullAddr()
			return TickResult{Op: OpRead, Addr: addr}
		},
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			addr := c.pullAddr()
			c.pendingFinish = func(c *CPU, dataIn uint8) {
				c.PC = uint16(dataIn)<<8 | uint16(c.operandLo)
			}
			return TickResult{Op: OpRead, Addr: addr}
		},
	}
}

// buildBRK is the software-interrupt form: it behaves like the hardware
// 7-cycle sequence but skips a padding byte and pushes P with B set.
func buildBRK() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return fetchOperand(c) },
		func(c *CPU, _ uint8) TickResult {
			addr := c.pushAddr()
			return TickResult{Op: OpWrite, Addr: addr, Value: uint8(c.PC >> 8)}
		},
		func(c *CPU, _ uint8) TickResult {
			addr := c.pushAddr()
			return TickResult{Op: OpWrite, Addr: addr, Value: uint8(c.PC)}
		},
		func(c *CPU, _ uint8) TickResult {
			addr := c.pushAddr()
			return TickResult{Op: OpWrite, Addr: addr, Value: c.packP(true)}
		},
		func(c *CPU, _ uint8) TickResult { return TickResult{Op: OpRead, Addr: vectorIRQ} },
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			c.pendingFinish = func(c *CPU, dataIn uint8) {
				c.operandHi = dataIn
				c.PC = uint16(c.operandHi)<<8 | uint16(c.operandLo)
				c.I = true
			}
			return TickResult{Op: OpRead, Addr: vectorIRQ + 1}
		},
	}
}

func buildJMPAbsolute() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return fetchOperand(c) },
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			addr := c.PC
			c.pendingFinish = func(c *CPU, dataIn uint8) {
				c.PC = uint16(dataIn)<<8 | uint16(c.operandLo)
			}
			return TickResult{Op: OpFetch, Addr: addr}
		},
	}
}

// buildJMPIndirect reproduces the page-wrap bug: if the pointer's low byte
// is 0xFF, the high byte of the target is read from the start of the same
// page rather than crossing into the next one.
func buildJMPIndirect() []step {
	return []step{
		func(c *CPU, _ uint8) TickResult { return fetchOperand(c) },
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			return fetchOperand(c)
		},
		func(c *CPU, dataIn uint8) TickResult {
			c.operandHi = dataIn
			c.addr = uint16(c.operandHi)<<8 | uint16(c.operandLo)
			return TickResult{Op: OpRead, Addr: c.addr}
		},
		func(c *CPU, dataIn uint8) TickResult {
			c.operandLo = dataIn
			hiAddr := (c.addr & 0xFF00) | ((c.addr + 1) & 0x00FF)
			c.pendingFinish = func(c *CPU, dataIn uint8) {
				c.PC = uint16(dataIn)<<8 | uint16(c.operandLo)
			}
			return TickResult{Op: OpRead, Addr: hiAddr}
		},
	}
}
