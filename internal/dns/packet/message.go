package packet

// Header is the 12-byte DNS message header (RFC 1035 §4.1.1).
type Header struct {
	ID uint16

	Response           bool // QR
	Opcode             uint8
	AuthoritativeAnswer bool // AA
	Truncated          bool // TC
	RecursionDesired   bool // RD
	RecursionAvailable bool // RA
	Zero               bool // first Z bit (0x40 of the low flags octet); the other two Z bits are not decoded and are written as zero
	Rcode              uint8

	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// Read populates h by decoding 12 bytes from buffer.
func (h *Header) Read(buffer *Buffer) error {
	var err error
	if h.ID, err = buffer.Readu16(); err != nil {
		return err
	}

	flags, err := buffer.Readu16()
	if err != nil {
		return err
	}
	hi := uint8(flags >> 8)
	lo := uint8(flags)

	h.Response = hi&0x80 != 0
	h.Opcode = (hi >> 3) & 0x0F
	h.AuthoritativeAnswer = hi&0x04 != 0
	h.Truncated = hi&0x02 != 0
	h.RecursionDesired = hi&0x01 != 0

	h.RecursionAvailable = lo&0x80 != 0
	h.Zero = lo&0x40 != 0
	h.Rcode = lo & 0x0F

	if h.QDCount, err = buffer.Readu16(); err != nil {
		return err
	}
	if h.ANCount, err = buffer.Readu16(); err != nil {
		return err
	}
	if h.NSCount, err = buffer.Readu16(); err != nil {
		return err
	}
	if h.ARCount, err = buffer.Readu16(); err != nil {
		return err
	}
	return nil
}

// Write serializes h into buffer.
func (h *Header) Write(buffer *Buffer) error {
	if err := buffer.Writeu16(h.ID); err != nil {
		return err
	}

	var hi, lo uint8
	if h.Response {
		hi |= 0x80
	}
	hi |= (h.Opcode & 0x0F) << 3
	if h.AuthoritativeAnswer {
		hi |= 0x04
	}
	if h.Truncated {
		hi |= 0x02
	}
	if h.RecursionDesired {
		hi |= 0x01
	}
	if h.RecursionAvailable {
		lo |= 0x80
	}
	if h.Zero {
		lo |= 0x40
	}
	lo |= h.Rcode & 0x0F

	if err := buffer.Writeu16(uint16(hi)<<8 | uint16(lo)); err != nil {
		return err
	}
	if err := buffer.Writeu16(h.QDCount); err != nil {
		return err
	}
	if err := buffer.Writeu16(h.ANCount); err != nil {
		return err
	}
	if err := buffer.Writeu16(h.NSCount); err != nil {
		return err
	}
	return buffer.Writeu16(h.ARCount)
}

// Question is a single entry in the question section.
type Question struct {
	Name  string
	Type  RRType
	Class Class
}

// Read populates q by decoding from buffer.
func (q *Question) Read(buffer *Buffer) error {
	name, err := buffer.ReadName()
	if err != nil {
		return err
	}
	q.Name = name

	t, err := buffer.Readu16()
	if err != nil {
		return err
	}
	q.Type = RRType(t)

	c, err := buffer.Readu16()
	if err != nil {
		return err
	}
	q.Class = Class(c)
	return nil
}

// Write serializes q into buffer. Requests never use name compression.
func (q *Question) Write(buffer *Buffer) error {
	if err := buffer.WriteName(q.Name); err != nil {
		return err
	}
	if err := buffer.Writeu16(uint16(q.Type)); err != nil {
		return err
	}
	class := q.Class
	if class == 0 {
		class = ClassIN
	}
	return buffer.Writeu16(uint16(class))
}

// Message is a complete DNS message: a header, the question section,
// and the three resource-record sections. Requests are plain Messages;
// replies are wrapped in transport.Response (aliased as
// resolver.Response), which adds transport metadata (server, timestamp,
// byte count, error).
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// NewMessage returns an empty Message.
func NewMessage() *Message {
	return &Message{}
}

// FromBuffer decodes a complete message from buffer, starting at the
// current cursor position (normally 0).
func (m *Message) FromBuffer(buffer *Buffer) error {
	if err := m.Header.Read(buffer); err != nil {
		return err
	}
	for i := 0; i < int(m.Header.QDCount); i++ {
		var q Question
		if err := q.Read(buffer); err != nil {
			return err
		}
		m.Questions = append(m.Questions, q)
	}
	for i := 0; i < int(m.Header.ANCount); i++ {
		r, err := readRecord(buffer)
		if err != nil {
			return err
		}
		m.Answers = append(m.Answers, *r)
	}
	for i := 0; i < int(m.Header.NSCount); i++ {
		r, err := readRecord(buffer)
		if err != nil {
			return err
		}
		m.Authorities = append(m.Authorities, *r)
	}
	for i := 0; i < int(m.Header.ARCount); i++ {
		r, err := readRecord(buffer)
		if err != nil {
			return err
		}
		m.Additionals = append(m.Additionals, *r)
	}
	return nil
}

// Write serializes m into buffer, recomputing the header's section
// counts from the slice lengths first (SPEC_FULL.md §3 invariants).
func (m *Message) Write(buffer *Buffer) error {
	m.Header.QDCount = uint16(len(m.Questions))
	m.Header.ANCount = uint16(len(m.Answers))
	m.Header.NSCount = uint16(len(m.Authorities))
	m.Header.ARCount = uint16(len(m.Additionals))

	if err := m.Header.Write(buffer); err != nil {
		return err
	}
	for _, q := range m.Questions {
		if err := q.Write(buffer); err != nil {
			return err
		}
	}
	for _, r := range m.Answers {
		if err := r.Write(buffer); err != nil {
			return err
		}
	}
	for _, r := range m.Authorities {
		if err := r.Write(buffer); err != nil {
			return err
		}
	}
	for _, r := range m.Additionals {
		if err := r.Write(buffer); err != nil {
			return err
		}
	}
	return nil
}
