package proto

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

var ErrMalformed = errors.New("malformed message")

// Marshal encodes m in protobuf binary form. Zero-valued scalars are omitted.
func Marshal(m *Message) ([]byte, error) {
	if m == nil {
		return nil, errors.New("marshal nil message")
	}
	return m.appendTo(nil), nil
}

// Unmarshal decodes a frame produced by Marshal or any compatible protobuf
// encoder. Fields it does not know are skipped.
func Unmarshal(b []byte) (*Message, error) {
	m := &Message{}
	if err := m.unmarshal(b); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Message) appendTo(b []byte) []byte {
	b = appendVarint(b, 1, uint64(int64(m.Type)))
	b = appendString(b, 2, m.Code)
	b = appendString(b, 3, m.Error)
	b = appendDouble(b, 4, m.Delta)
	if m.Config != nil {
		b = appendMessage(b, 5, m.Config.appendTo(nil))
	}
	if m.State != nil {
		b = appendMessage(b, 6, m.State.appendTo(nil))
	}
	if m.Event != nil {
		b = appendMessage(b, 7, m.Event.appendTo(nil))
	}
	b = appendString(b, 8, m.Side)
	return b
}

func (m *Message) unmarshal(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			m.Type = MsgType(int32(v))
			return n, nil
		case 2:
			return consumeString(typ, b, &m.Code)
		case 3:
			return consumeString(typ, b, &m.Error)
		case 4:
			v, n := consumeDouble(typ, b)
			m.Delta = v
			return n, nil
		case 5:
			m.Config = &MatchConfig{}
			return consumeMessage(typ, b, m.Config.unmarshal)
		case 6:
			m.State = &GameState{}
			return consumeMessage(typ, b, m.State.unmarshal)
		case 7:
			m.Event = &GameEvent{}
			return consumeMessage(typ, b, m.Event.unmarshal)
		case 8:
			return consumeString(typ, b, &m.Side)
		}
		return 0, nil
	})
}

func (c *MatchConfig) appendTo(b []byte) []byte {
	b = appendBool(b, 1, c.TrainingMode)
	b = appendBool(b, 2, c.HardMode)
	return b
}

func (c *MatchConfig) unmarshal(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			c.TrainingMode = protowire.DecodeBool(v)
			return n, nil
		case 2:
			v, n := consumeVarint(typ, b)
			c.HardMode = protowire.DecodeBool(v)
			return n, nil
		}
		return 0, nil
	})
}

func (bl *Ball) appendTo(b []byte) []byte {
	b = appendDouble(b, 1, bl.X)
	b = appendDouble(b, 2, bl.Y)
	b = appendDouble(b, 3, bl.Dx)
	b = appendDouble(b, 4, bl.Dy)
	b = appendDouble(b, 5, bl.Size)
	return b
}

func (bl *Ball) unmarshal(b []byte) error {
	fields := []*float64{nil, &bl.X, &bl.Y, &bl.Dx, &bl.Dy, &bl.Size}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num < 1 || int(num) >= len(fields) {
			return 0, nil
		}
		v, n := consumeDouble(typ, b)
		if n > 0 {
			*fields[num] = v
		}
		return n, nil
	})
}

func (p *Paddle) appendTo(b []byte) []byte {
	b = appendString(b, 1, p.Side)
	b = appendDouble(b, 2, p.X)
	b = appendDouble(b, 3, p.Y)
	b = appendDouble(b, 4, p.Width)
	b = appendDouble(b, 5, p.Height)
	b = appendString(b, 6, p.Color)
	b = appendVarint(b, 7, uint64(int64(p.Score)))
	b = appendVarint(b, 8, uint64(int64(p.Lives)))
	return b
}

func (p *Paddle) unmarshal(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &p.Side)
		case 2, 3, 4, 5:
			v, n := consumeDouble(typ, b)
			switch num {
			case 2:
				p.X = v
			case 3:
				p.Y = v
			case 4:
				p.Width = v
			case 5:
				p.Height = v
			}
			return n, nil
		case 6:
			return consumeString(typ, b, &p.Color)
		case 7:
			v, n := consumeVarint(typ, b)
			p.Score = int32(v)
			return n, nil
		case 8:
			v, n := consumeVarint(typ, b)
			p.Lives = int32(v)
			return n, nil
		}
		return 0, nil
	})
}

func (p *PowerUp) appendTo(b []byte) []byte {
	b = appendVarint(b, 1, p.Id)
	b = appendString(b, 2, p.Kind)
	b = appendDouble(b, 3, p.X)
	b = appendDouble(b, 4, p.Y)
	return b
}

func (p *PowerUp) unmarshal(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			p.Id = v
			return n, nil
		case 2:
			return consumeString(typ, b, &p.Kind)
		case 3:
			v, n := consumeDouble(typ, b)
			p.X = v
			return n, nil
		case 4:
			v, n := consumeDouble(typ, b)
			p.Y = v
			return n, nil
		}
		return 0, nil
	})
}

func (s *GameState) appendTo(b []byte) []byte {
	b = appendVarint(b, 1, s.Tick)
	if s.Ball != nil {
		b = appendMessage(b, 2, s.Ball.appendTo(nil))
	}
	for _, p := range s.Paddles {
		b = appendMessage(b, 3, p.appendTo(nil))
	}
	for _, p := range s.PowerUps {
		b = appendMessage(b, 4, p.appendTo(nil))
	}
	b = appendVarint(b, 5, uint64(int64(s.MatchesPlayed)))
	return b
}

func (s *GameState) unmarshal(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			s.Tick = v
			return n, nil
		case 2:
			s.Ball = &Ball{}
			return consumeMessage(typ, b, s.Ball.unmarshal)
		case 3:
			p := &Paddle{}
			n, err := consumeMessage(typ, b, p.unmarshal)
			if n > 0 && err == nil {
				s.Paddles = append(s.Paddles, p)
			}
			return n, err
		case 4:
			p := &PowerUp{}
			n, err := consumeMessage(typ, b, p.unmarshal)
			if n > 0 && err == nil {
				s.PowerUps = append(s.PowerUps, p)
			}
			return n, err
		case 5:
			v, n := consumeVarint(typ, b)
			s.MatchesPlayed = int32(v)
			return n, nil
		}
		return 0, nil
	})
}

func (e *GameEvent) appendTo(b []byte) []byte {
	b = appendString(b, 1, e.Kind)
	b = appendString(b, 2, e.Side)
	b = appendBool(b, 3, e.Wall)
	b = appendString(b, 4, e.Color)
	b = appendString(b, 5, e.PowerUp)
	b = appendVarint(b, 6, uint64(int64(e.LeftScore)))
	b = appendVarint(b, 7, uint64(int64(e.RightScore)))
	return b
}

func (e *GameEvent) unmarshal(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &e.Kind)
		case 2:
			return consumeString(typ, b, &e.Side)
		case 3:
			v, n := consumeVarint(typ, b)
			e.Wall = protowire.DecodeBool(v)
			return n, nil
		case 4:
			return consumeString(typ, b, &e.Color)
		case 5:
			return consumeString(typ, b, &e.PowerUp)
		case 6:
			v, n := consumeVarint(typ, b)
			e.LeftScore = int32(v)
			return n, nil
		case 7:
			v, n := consumeVarint(typ, b)
			e.RightScore = int32(v)
			return n, nil
		}
		return 0, nil
	})
}

// ---------------------------------------------------
// wire helpers

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendMessage(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// fieldFunc decodes one field value from the front of b and returns the
// bytes it consumed. Returning 0 leaves the field to be skipped, a negative
// count is a protowire parse error.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func consumeFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return malformed(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return malformed(m)
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return malformed(m)
			}
		}
		b = b[m:]
	}
	return nil
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int) {
	if typ != protowire.VarintType {
		return 0, 0
	}
	return protowire.ConsumeVarint(b)
}

func consumeDouble(typ protowire.Type, b []byte) (float64, int) {
	if typ != protowire.Fixed64Type {
		return 0, 0
	}
	v, n := protowire.ConsumeFixed64(b)
	return math.Float64frombits(v), n
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, nil
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	*dst = string(v)
	return n, nil
}

func consumeMessage(typ protowire.Type, b []byte, decode func([]byte) error) (int, error) {
	if typ != protowire.BytesType {
		return 0, nil
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	if err := decode(v); err != nil {
		return 0, err
	}
	return n, nil
}

func malformed(n int) error {
	return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
}
