package cpu

// Instruction is the decoded, immutable description of one opcode byte:
// its mnemonic for tracing/debug, whether it's an undocumented opcode, and
// a Build function that lays out its remaining micro-cycles once the
// opcode byte itself has been consumed (see cpu.go/beginNext).
type Instruction struct {
	Mnemonic string
	Illegal  bool
	Build    func(c *CPU) []step
}

type opcodeDef struct {
	Code     uint8
	Mnemonic string
	Illegal  bool
	Build    func(c *CPU) []step
}

// opcodeTable is indexed by opcode byte; entries not present in opcodeDefs
// default to KIL (the 6502/2A03 jams on every genuinely undefined opcode).
var opcodeTable [256]Instruction

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = Instruction{Mnemonic: "KIL", Illegal: true, Build: func(c *CPU) []step { return nil }}
	}
	for _, d := range opcodeDefs {
		opcodeTable[d.Code] = Instruction{Mnemonic: d.Mnemonic, Illegal: d.Illegal, Build: d.Build}
	}
}

func regX(c *CPU) uint8 { return c.X }
func regY(c *CPU) uint8 { return c.Y }

var opcodeDefs = []opcodeDef{
	// --- BRK / stack / subroutine control ---
	{0x00, "BRK", false, func(c *CPU) []step { return buildBRK() }},
	{0x08, "PHP", false, func(c *CPU) []step { return buildPHP() }},
	{0x28, "PLP", false, func(c *CPU) []step { return buildPLP() }},
	{0x48, "PHA", false, func(c *CPU) []step { return buildPHA() }},
	{0x68, "PLA", false, func(c *CPU) []step { return buildPLA() }},
	{0x20, "JSR", false, func(c *CPU) []step { return buildJSR() }},
	{0x40, "RTI", false, func(c *CPU) []step { return buildRTI() }},
	{0x60, "RTS", false, func(c *CPU) []step { return buildRTS() }},
	{0x4C, "JMP", false, func(c *CPU) []step { return buildJMPAbsolute() }},
	{0x6C, "JMP", false, func(c *CPU) []step { return buildJMPIndirect() }},

	// --- branches ---
	{0x10, "BPL", false, func(c *CPU) []step { return buildRelative(func(c *CPU) bool { return !c.N }) }},
	{0x30, "BMI", false, func(c *CPU) []step { return buildRelative(func(c *CPU) bool { return c.N }) }},
	{0x50, "BVC", false, func(c *CPU) []step { return buildRelative(func(c *CPU) bool { return !c.V }) }},
	{0x70, "BVS", false, func(c *CPU) []step { return buildRelative(func(c *CPU) bool { return c.V }) }},
	{0x90, "BCC", false, func(c *CPU) []step { return buildRelative(func(c *CPU) bool { return !c.C }) }},
	{0xB0, "BCS", false, func(c *CPU) []step { return buildRelative(func(c *CPU) bool { return c.C }) }},
	{0xD0, "BNE", false, func(c *CPU) []step { return buildRelative(func(c *CPU) bool { return !c.Z }) }},
	{0xF0, "BEQ", false, func(c *CPU) []step { return buildRelative(func(c *CPU) bool { return c.Z }) }},

	// --- flag ops ---
	{0x18, "CLC", false, func(c *CPU) []step { return buildImplied((*CPU).clc) }},
	{0x38, "SEC", false, func(c *CPU) []step { return buildImplied((*CPU).sec) }},
	{0x58, "CLI", false, func(c *CPU) []step { return buildImplied((*CPU).cli) }},
	{0x78, "SEI", false, func(c *CPU) []step { return buildImplied((*CPU).sei) }},
	{0xB8, "CLV", false, func(c *CPU) []step { return buildImplied((*CPU).clv) }},
	{0xD8, "CLD", false, func(c *CPU) []step { return buildImplied((*CPU).cld) }},
	{0xF8, "SED", false, func(c *CPU) []step { return buildImplied((*CPU).sed) }},

	// --- register transfers / increments ---
	{0xAA, "TAX", false, func(c *CPU) []step { return buildImplied((*CPU).tax) }},
	{0xA8, "TAY", false, func(c *CPU) []step { return buildImplied((*CPU).tay) }},
	{0x8A, "TXA", false, func(c *CPU) []step { return buildImplied((*CPU).txa) }},
	{0x98, "TYA", false, func(c *CPU) []step { return buildImplied((*CPU).tya) }},
	{0xBA, "TSX", false, func(c *CPU) []step { return buildImplied((*CPU).tsx) }},
	{0x9A, "TXS", false, func(c *CPU) []step { return buildImplied((*CPU).txs) }},
	{0xE8, "INX", false, func(c *CPU) []step { return buildImplied((*CPU).inx) }},
	{0xC8, "INY", false, func(c *CPU) []step { return buildImplied((*CPU).iny) }},
	{0xCA, "DEX", false, func(c *CPU) []step { return buildImplied((*CPU).dex) }},
	{0x88, "DEY", false, func(c *CPU) []step { return buildImplied((*CPU).dey) }},
	{0xEA, "NOP", false, func(c *CPU) []step { return buildImplied((*CPU).nop) }},

	// --- ADC ---
	{0x69, "ADC", false, func(c *CPU) []step { return buildImmediateRead(c.adc) }},
	{0x65, "ADC", false, func(c *CPU) []step { return buildZeroPageRead(c.adc) }},
	{0x75, "ADC", false, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, c.adc) }},
	{0x6D, "ADC", false, func(c *CPU) []step { return buildAbsoluteRead(c.adc) }},
	{0x7D, "ADC", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, c.adc) }},
	{0x79, "ADC", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regY, c.adc) }},
	{0x61, "ADC", false, func(c *CPU) []step { return buildIndirectXRead(c.adc) }},
	{0x71, "ADC", false, func(c *CPU) []step { return buildIndirectYRead(c.adc) }},

	// --- SBC (+ EB duplicate) ---
	{0xE9, "SBC", false, func(c *CPU) []step { return buildImmediateRead(c.sbc) }},
	{0xEB, "SBC", true, func(c *CPU) []step { return buildImmediateRead(c.sbc) }},
	{0xE5, "SBC", false, func(c *CPU) []step { return buildZeroPageRead(c.sbc) }},
	{0xF5, "SBC", false, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, c.sbc) }},
	{0xED, "SBC", false, func(c *CPU) []step { return buildAbsoluteRead(c.sbc) }},
	{0xFD, "SBC", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, c.sbc) }},
	{0xF9, "SBC", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regY, c.sbc) }},
	{0xE1, "SBC", false, func(c *CPU) []step { return buildIndirectXRead(c.sbc) }},
	{0xF1, "SBC", false, func(c *CPU) []step { return buildIndirectYRead(c.sbc) }},

	// --- AND ---
	{0x29, "AND", false, func(c *CPU) []step { return buildImmediateRead(c.and) }},
	{0x25, "AND", false, func(c *CPU) []step { return buildZeroPageRead(c.and) }},
	{0x35, "AND", false, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, c.and) }},
	{0x2D, "AND", false, func(c *CPU) []step { return buildAbsoluteRead(c.and) }},
	{0x3D, "AND", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, c.and) }},
	{0x39, "AND", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regY, c.and) }},
	{0x21, "AND", false, func(c *CPU) []step { return buildIndirectXRead(c.and) }},
	{0x31, "AND", false, func(c *CPU) []step { return buildIndirectYRead(c.and) }},

	// --- ORA ---
	{0x09, "ORA", false, func(c *CPU) []step { return buildImmediateRead(c.ora) }},
	{0x05, "ORA", false, func(c *CPU) []step { return buildZeroPageRead(c.ora) }},
	{0x15, "ORA", false, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, c.ora) }},
	{0x0D, "ORA", false, func(c *CPU) []step { return buildAbsoluteRead(c.ora) }},
	{0x1D, "ORA", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, c.ora) }},
	{0x19, "ORA", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regY, c.ora) }},
	{0x01, "ORA", false, func(c *CPU) []step { return buildIndirectXRead(c.ora) }},
	{0x11, "ORA", false, func(c *CPU) []step { return buildIndirectYRead(c.ora) }},

	// --- EOR ---
	{0x49, "EOR", false, func(c *CPU) []step { return buildImmediateRead(c.eor) }},
	{0x45, "EOR", false, func(c *CPU) []step { return buildZeroPageRead(c.eor) }},
	{0x55, "EOR", false, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, c.eor) }},
	{0x4D, "EOR", false, func(c *CPU) []step { return buildAbsoluteRead(c.eor) }},
	{0x5D, "EOR", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, c.eor) }},
	{0x59, "EOR", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regY, c.eor) }},
	{0x41, "EOR", false, func(c *CPU) []step { return buildIndirectXRead(c.eor) }},
	{0x51, "EOR", false, func(c *CPU) []step { return buildIndirectYRead(c.eor) }},

	// --- CMP/CPX/CPY ---
	{0xC9, "CMP", false, func(c *CPU) []step { return buildImmediateRead(c.cmp) }},
	{0xC5, "CMP", false, func(c *CPU) []step { return buildZeroPageRead(c.cmp) }},
	{0xD5, "CMP", false, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, c.cmp) }},
	{0xCD, "CMP", false, func(c *CPU) []step { return buildAbsoluteRead(c.cmp) }},
	{0xDD, "CMP", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, c.cmp) }},
	{0xD9, "CMP", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regY, c.cmp) }},
	{0xC1, "CMP", false, func(c *CPU) []step { return buildIndirectXRead(c.cmp) }},
	{0xD1, "CMP", false, func(c *CPU) []step { return buildIndirectYRead(c.cmp) }},
	{0xE0, "CPX", false, func(c *CPU) []step { return buildImmediateRead(c.cpx) }},
	{0xE4, "CPX", false, func(c *CPU) []step { return buildZeroPageRead(c.cpx) }},
	{0xEC, "CPX", false, func(c *CPU) []step { return buildAbsoluteRead(c.cpx) }},
	{0xC0, "CPY", false, func(c *CPU) []step { return buildImmediateRead(c.cpy) }},
	{0xC4, "CPY", false, func(c *CPU) []step { return buildZeroPageRead(c.cpy) }},
	{0xCC, "CPY", false, func(c *CPU) []step { return buildAbsoluteRead(c.cpy) }},

	// --- BIT ---
	{0x24, "BIT", false, func(c *CPU) []step { return buildZeroPageRead(c.bit) }},
	{0x2C, "BIT", false, func(c *CPU) []step { return buildAbsoluteRead(c.bit) }},

	// --- loads ---
	{0xA9, "LDA", false, func(c *CPU) []step { return buildImmediateRead(c.lda) }},
	{0xA5, "LDA", false, func(c *CPU) []step { return buildZeroPageRead(c.lda) }},
	{0xB5, "LDA", false, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, c.lda) }},
	{0xAD, "LDA", false, func(c *CPU) []step { return buildAbsoluteRead(c.lda) }},
	{0xBD, "LDA", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, c.lda) }},
	{0xB9, "LDA", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regY, c.lda) }},
	{0xA1, "LDA", false, func(c *CPU) []step { return buildIndirectXRead(c.lda) }},
	{0xB1, "LDA", false, func(c *CPU) []step { return buildIndirectYRead(c.lda) }},
	{0xA2, "LDX", false, func(c *CPU) []step { return buildImmediateRead(c.ldx) }},
	{0xA6, "LDX", false, func(c *CPU) []step { return buildZeroPageRead(c.ldx) }},
	{0xB6, "LDX", false, func(c *CPU) []step { return buildZeroPageIndexedRead(regY, c.ldx) }},
	{0xAE, "LDX", false, func(c *CPU) []step { return buildAbsoluteRead(c.ldx) }},
	{0xBE, "LDX", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regY, c.ldx) }},
	{0xA0, "LDY", false, func(c *CPU) []step { return buildImmediateRead(c.ldy) }},
	{0xA4, "LDY", false, func(c *CPU) []step { return buildZeroPageRead(c.ldy) }},
	{0xB4, "LDY", false, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, c.ldy) }},
	{0xAC, "LDY", false, func(c *CPU) []step { return buildAbsoluteRead(c.ldy) }},
	{0xBC, "LDY", false, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, c.ldy) }},

	// --- stores ---
	{0x85, "STA", false, func(c *CPU) []step { return buildZeroPageWrite(c.sta) }},
	{0x95, "STA", false, func(c *CPU) []step { return buildZeroPageIndexedWrite(regX, c.sta) }},
	{0x8D, "STA", false, func(c *CPU) []step { return buildAbsoluteWrite(c.sta) }},
	{0x9D, "STA", false, func(c *CPU) []step { return buildAbsoluteIndexedWrite(regX, c.sta) }},
	{0x99, "STA", false, func(c *CPU) []step { return buildAbsoluteIndexedWrite(regY, c.sta) }},
	{0x81, "STA", false, func(c *CPU) []step { return buildIndirectXWrite(c.sta) }},
	{0x91, "STA", false, func(c *CPU) []step { return buildIndirectYWrite(c.sta) }},
	{0x86, "STX", false, func(c *CPU) []step { return buildZeroPageWrite(c.stx) }},
	{0x96, "STX", false, func(c *CPU) []step { return buildZeroPageIndexedWrite(regY, c.stx) }},
	{0x8E, "STX", false, func(c *CPU) []step { return buildAbsoluteWrite(c.stx) }},
	{0x84, "STY", false, func(c *CPU) []step { return buildZeroPageWrite(c.sty) }},
	{0x94, "STY", false, func(c *CPU) []step { return buildZeroPageIndexedWrite(regX, c.sty) }},
	{0x8C, "STY", false, func(c *CPU) []step { return buildAbsoluteWrite(c.sty) }},

	// --- shifts / rotates / inc-dec (RMW) ---
	{0x0A, "ASL", false, func(c *CPU) []step { return buildAccumulator(c.asl) }},
	{0x06, "ASL", false, func(c *CPU) []step { return buildZeroPageModify(c.asl) }},
	{0x16, "ASL", false, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.asl) }},
	{0x0E, "ASL", false, func(c *CPU) []step { return buildAbsoluteModify(c.asl) }},
	{0x1E, "ASL", false, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.asl) }},
	{0x4A, "LSR", false, func(c *CPU) []step { return buildAccumulator(c.lsr) }},
	{0x46, "LSR", false, func(c *CPU) []step { return buildZeroPageModify(c.lsr) }},
	{0x56, "LSR", false, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.lsr) }},
	{0x4E, "LSR", false, func(c *CPU) []step { return buildAbsoluteModify(c.lsr) }},
	{0x5E, "LSR", false, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.lsr) }},
	{0x2A, "ROL", false, func(c *CPU) []step { return buildAccumulator(c.rol) }},
	{0x26, "ROL", false, func(c *CPU) []step { return buildZeroPageModify(c.rol) }},
	{0x36, "ROL", false, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.rol) }},
	{0x2E, "ROL", false, func(c *CPU) []step { return buildAbsoluteModify(c.rol) }},
	{0x3E, "ROL", false, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.rol) }},
	{0x6A, "ROR", false, func(c *CPU) []step { return buildAccumulator(c.ror) }},
	{0x66, "ROR", false, func(c *CPU) []step { return buildZeroPageModify(c.ror) }},
	{0x76, "ROR", false, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.ror) }},
	{0x6E, "ROR", false, func(c *CPU) []step { return buildAbsoluteModify(c.ror) }},
	{0x7E, "ROR", false, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.ror) }},
	{0xE6, "INC", false, func(c *CPU) []step { return buildZeroPageModify(c.inc) }},
	{0xF6, "INC", false, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.inc) }},
	{0xEE, "INC", false, func(c *CPU) []step { return buildAbsoluteModify(c.inc) }},
	{0xFE, "INC", false, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.inc) }},
	{0xC6, "DEC", false, func(c *CPU) []step { return buildZeroPageModify(c.dec) }},
	{0xD6, "DEC", false, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.dec) }},
	{0xCE, "DEC", false, func(c *CPU) []step { return buildAbsoluteModify(c.dec) }},
	{0xDE, "DEC", false, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.dec) }},

	// --- undocumented NOPs (various addressing modes, all discard the
	// operand they read) ---
	{0x1A, "NOP", true, func(c *CPU) []step { return buildImplied((*CPU).nop) }},
	{0x3A, "NOP", true, func(c *CPU) []step { return buildImplied((*CPU).nop) }},
	{0x5A, "NOP", true, func(c *CPU) []step { return buildImplied((*CPU).nop) }},
	{0x7A, "NOP", true, func(c *CPU) []step { return buildImplied((*CPU).nop) }},
	{0xDA, "NOP", true, func(c *CPU) []step { return buildImplied((*CPU).nop) }},
	{0xFA, "NOP", true, func(c *CPU) []step { return buildImplied((*CPU).nop) }},
	{0x80, "NOP", true, func(c *CPU) []step { return buildImmediateRead(func(uint8) {}) }},
	{0x82, "NOP", true, func(c *CPU) []step { return buildImmediateRead(func(uint8) {}) }},
	{0x89, "NOP", true, func(c *CPU) []step { return buildImmediateRead(func(uint8) {}) }},
	{0xC2, "NOP", true, func(c *CPU) []step { return buildImmediateRead(func(uint8) {}) }},
	{0xE2, "NOP", true, func(c *CPU) []step { return buildImmediateRead(func(uint8) {}) }},
	{0x04, "NOP", true, func(c *CPU) []step { return buildZeroPageRead(func(uint8) {}) }},
	{0x44, "NOP", true, func(c *CPU) []step { return buildZeroPageRead(func(uint8) {}) }},
	{0x64, "NOP", true, func(c *CPU) []step { return buildZeroPageRead(func(uint8) {}) }},
	{0x14, "NOP", true, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, func(uint8) {}) }},
	{0x34, "NOP", true, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, func(uint8) {}) }},
	{0x54, "NOP", true, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, func(uint8) {}) }},
	{0x74, "NOP", true, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, func(uint8) {}) }},
	{0xD4, "NOP", true, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, func(uint8) {}) }},
	{0xF4, "NOP", true, func(c *CPU) []step { return buildZeroPageIndexedRead(regX, func(uint8) {}) }},
	{0x0C, "NOP", true, func(c *CPU) []step { return buildAbsoluteRead(func(uint8) {}) }},
	{0x1C, "NOP", true, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, func(uint8) {}) }},
	{0x3C, "NOP", true, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, func(uint8) {}) }},
	{0x5C, "NOP", true, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, func(uint8) {}) }},
	{0x7C, "NOP", true, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, func(uint8) {}) }},
	{0xDC, "NOP", true, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, func(uint8) {}) }},
	{0xFC, "NOP", true, func(c *CPU) []step { return buildAbsoluteIndexedRead(regX, func(uint8) {}) }},

	// --- SLO ---
	{0x07, "SLO", true, func(c *CPU) []step { return buildZeroPageModify(c.slo) }},
	{0x17, "SLO", true, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.slo) }},
	{0x0F, "SLO", true, func(c *CPU) []step { return buildAbsoluteModify(c.slo) }},
	{0x1F, "SLO", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.slo) }},
	{0x1B, "SLO", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regY, c.slo) }},
	{0x03, "SLO", true, func(c *CPU) []step { return buildIndirectXModify(c.slo) }},
	{0x13, "SLO", true, func(c *CPU) []step { return buildIndirectYModify(c.slo) }},

	// --- RLA ---
	{0x27, "RLA", true, func(c *CPU) []step { return buildZeroPageModify(c.rla) }},
	{0x37, "RLA", true, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.rla) }},
	{0x2F, "RLA", true, func(c *CPU) []step { return buildAbsoluteModify(c.rla) }},
	{0x3F, "RLA", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.rla) }},
	{0x3B, "RLA", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regY, c.rla) }},
	{0x23, "RLA", true, func(c *CPU) []step { return buildIndirectXModify(c.rla) }},
	{0x33, "RLA", true, func(c *CPU) []step { return buildIndirectYModify(c.rla) }},

	// --- SRE ---
	{0x47, "SRE", true, func(c *CPU) []step { return buildZeroPageModify(c.sre) }},
	{0x57, "SRE", true, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.sre) }},
	{0x4F, "SRE", true, func(c *CPU) []step { return buildAbsoluteModify(c.sre) }},
	{0x5F, "SRE", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.sre) }},
	{0x5B, "SRE", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regY, c.sre) }},
	{0x43, "SRE", true, func(c *CPU) []step { return buildIndirectXModify(c.sre) }},
	{0x53, "SRE", true, func(c *CPU) []step { return buildIndirectYModify(c.sre) }},

	// --- RRA ---
	{0x67, "RRA", true, func(c *CPU) []step { return buildZeroPageModify(c.rra) }},
	{0x77, "RRA", true, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.rra) }},
	{0x6F, "RRA", true, func(c *CPU) []step { return buildAbsoluteModify(c.rra) }},
	{0x7F, "RRA", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.rra) }},
	{0x7B, "RRA", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regY, c.rra) }},
	{0x63, "RRA", true, func(c *CPU) []step { return buildIndirectXModify(c.rra) }},
	{0x73, "RRA", true, func(c *CPU) []step { return buildIndirectYModify(c.rra) }},

	// --- SAX / LAX ---
	{0x87, "SAX", true, func(c *CPU) []step { return buildZeroPageWrite(c.sax) }},
	{0x97, "SAX", true, func(c *CPU) []step { return buildZeroPageIndexedWrite(regY, c.sax) }},
	{0x8F, "SAX", true, func(c *CPU) []step { return buildAbsoluteWrite(c.sax) }},
	{0x83, "SAX", true, func(c *CPU) []step { return buildIndirectXWrite(c.sax) }},
	{0xA7, "LAX", true, func(c *CPU) []step { return buildZeroPageRead(c.lax) }},
	{0xB7, "LAX", true, func(c *CPU) []step { return buildZeroPageIndexedRead(regY, c.lax) }},
	{0xAF, "LAX", true, func(c *CPU) []step { return buildAbsoluteRead(c.lax) }},
	{0xBF, "LAX", true, func(c *CPU) []step { return buildAbsoluteIndexedRead(regY, c.lax) }},
	{0xA3, "LAX", true, func(c *CPU) []step { return buildIndirectXRead(c.lax) }},
	{0xB3, "LAX", true, func(c *CPU) []step { return buildIndirectYRead(c.lax) }},

	// --- DCP / ISC ---
	{0xC7, "DCP", true, func(c *CPU) []step { return buildZeroPageModify(c.dcp) }},
	{0xD7, "DCP", true, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.dcp) }},
	{0xCF, "DCP", true, func(c *CPU) []step { return buildAbsoluteModify(c.dcp) }},
	{0xDF, "DCP", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.dcp) }},
	{0xDB, "DCP", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regY, c.dcp) }},
	{0xC3, "DCP", true, func(c *CPU) []step { return buildIndirectXModify(c.dcp) }},
	{0xD3, "DCP", true, func(c *CPU) []step { return buildIndirectYModify(c.dcp) }},
	{0xE7, "ISC", true, func(c *CPU) []step { return buildZeroPageModify(c.isc) }},
	{0xF7, "ISC", true, func(c *CPU) []step { return buildZeroPageIndexedModify(regX, c.isc) }},
	{0xEF, "ISC", true, func(c *CPU) []step { return buildAbsoluteModify(c.isc) }},
	{0xFF, "ISC", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regX, c.isc) }},
	{0xFB, "ISC", true, func(c *CPU) []step { return buildAbsoluteIndexedModify(regY, c.isc) }},
	{0xE3, "ISC", true, func(c *CPU) []step { return buildIndirectXModify(c.isc) }},
	{0xF3, "ISC", true, func(c *CPU) []step { return buildIndirectYModify(c.isc) }},

	// --- immediate-only illegal ALU ops ---
	{0x0B, "ANC", true, func(c *CPU) []step { return buildImmediateRead(c.anc) }},
	{0x2B, "ANC", true, func(c *CPU) []step { return buildImmediateRead(c.anc) }},
	{0x4B, "ALR", true, func(c *CPU) []step { return buildImmediateRead(c.alr) }},
	{0x6B, "ARR", true, func(c *CPU) []step { return buildImmediateRead(c.arr) }},
	{0xCB, "AXS", true, func(c *CPU) []step { return buildImmediateRead(c.axs) }},
	{0x8B, "XAA", true, func(c *CPU) []step { return buildImmediateRead(c.xaa) }},
	{0xAB, "LAX", true, func(c *CPU) []step { return buildImmediateRead(c.lax) }},

	// --- unstable store/load opcodes ---
	{0x9F, "AHX", true, func(c *CPU) []step { return buildAbsoluteIndexedWrite(regY, c.ahx) }},
	{0x93, "AHX", true, func(c *CPU) []step { return buildIndirectYWrite(c.ahx) }},
	{0x9C, "SHY", true, func(c *CPU) []step { return buildAbsoluteIndexedWrite(regX, c.shy) }},
	{0x9E, "SHX", true, func(c *CPU) []step { return buildAbsoluteIndexedWrite(regY, c.shx) }},
	{0x9B, "TAS", true, func(c *CPU) []step { return buildAbsoluteIndexedWrite(regY, c.tas) }},
	{0xBB, "LAS", true, func(c *CPU) []step { return buildAbsoluteIndexedRead(regY, c.las) }},
}
