package savegame

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/appengine-ltd/skyweather/internal/weather"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	// FormatVersion is written into every new record.
	FormatVersion = 2
	// MinCompatibleFormat is the oldest record format that is still read.
	MinCompatibleFormat = 2
)

var (
	ErrNoRecord = errors.New("no weather record")
	// ErrStaleFormat marks records too old to read. It matches ErrNoRecord.
	ErrStaleFormat = fmt.Errorf("stale weather record: %w", ErrNoRecord)
	ErrCorrupt     = errors.New("corrupt weather record")
)

// Record field numbers.
const (
	fieldFormat        protowire.Number = 1
	fieldCurrentRegion protowire.Number = 2
	fieldTimePassed    protowire.Number = 3
	fieldFastForward   protowire.Number = 4
	fieldUpdateTime    protowire.Number = 5
	fieldFactor        protowire.Number = 6
	fieldCurrent       protowire.Number = 7
	fieldNext          protowire.Number = 8
	fieldQueued        protowire.Number = 9
	fieldRegion        protowire.Number = 10

	regionFieldID      protowire.Number = 1
	regionFieldWeather protowire.Number = 2
	regionFieldChances protowire.Number = 3
)

// Encode serialises a weather state as a versioned record.
func Encode(s weather.State) []byte {
	return encode(s, FormatVersion)
}

func encode(s weather.State, format uint64) []byte {
	var b []byte
	b = appendVarint(b, fieldFormat, format)
	b = appendString(b, fieldCurrentRegion, s.CurrentRegion)
	b = appendDouble(b, fieldTimePassed, s.TimePassed)
	b = appendBool(b, fieldFastForward, s.Transition.FastForward)
	b = appendDouble(b, fieldUpdateTime, s.UpdateTime)
	b = appendDouble(b, fieldFactor, s.Transition.Factor)
	b = appendSint(b, fieldCurrent, int64(s.Transition.Current))
	b = appendSint(b, fieldNext, int64(s.Transition.Next.Int()))
	b = appendSint(b, fieldQueued, int64(s.Transition.Queued.Int()))

	ids := make([]string, 0, len(s.Regions))
	for id := range s.Regions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		b = protowire.AppendTag(b, fieldRegion, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeRegion(id, s.Regions[id]))
	}
	return b
}

func encodeRegion(id string, r weather.RegionState) []byte {
	var b []byte
	b = appendString(b, regionFieldID, id)
	b = appendSint(b, regionFieldWeather, int64(r.Weather.Int()))
	var packed []byte
	for _, c := range r.Chances {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(c)))
	}
	b = protowire.AppendTag(b, regionFieldChances, protowire.BytesType)
	b = protowire.AppendBytes(b, packed)
	return b
}

// Format reads the record format without decoding the rest.
func Format(data []byte) (int, error) {
	format := 0
	err := walk(data, func(num protowire.Number, typ protowire.Type, v []byte, u uint64) error {
		if num == fieldFormat && typ == protowire.VarintType {
			format = int(u)
		}
		return nil
	})
	return format, err
}

// Decode parses a record. Records older than MinCompatibleFormat yield
// ErrStaleFormat.
func Decode(data []byte) (weather.State, error) {
	format, err := Format(data)
	if err != nil {
		return weather.State{}, err
	}
	if format < MinCompatibleFormat {
		return weather.State{}, fmt.Errorf("%w: format %d", ErrStaleFormat, format)
	}

	s := weather.State{Regions: make(map[string]weather.RegionState)}
	err = walk(data, func(num protowire.Number, typ protowire.Type, v []byte, u uint64) error {
		switch num {
		case fieldCurrentRegion:
			s.CurrentRegion = string(v)
		case fieldTimePassed:
			s.TimePassed = math.Float64frombits(u)
		case fieldFastForward:
			s.Transition.FastForward = u != 0
		case fieldUpdateTime:
			s.UpdateTime = math.Float64frombits(u)
		case fieldFactor:
			s.Transition.Factor = math.Float64frombits(u)
		case fieldCurrent:
			s.Transition.Current = weather.ID(protowire.DecodeZigZag(u))
		case fieldNext:
			s.Transition.Next = weather.SlotFromInt(int(protowire.DecodeZigZag(u)))
		case fieldQueued:
			s.Transition.Queued = weather.SlotFromInt(int(protowire.DecodeZigZag(u)))
		case fieldRegion:
			id, r, err := decodeRegion(v)
			if err != nil {
				return err
			}
			s.Regions[id] = r
		}
		return nil
	})
	if err != nil {
		return weather.State{}, err
	}
	return s, nil
}

func decodeRegion(data []byte) (string, weather.RegionState, error) {
	var (
		id string
		r  = weather.RegionState{Weather: weather.None}
	)
	err := walk(data, func(num protowire.Number, typ protowire.Type, v []byte, u uint64) error {
		switch num {
		case regionFieldID:
			id = string(v)
		case regionFieldWeather:
			r.Weather = weather.SlotFromInt(int(protowire.DecodeZigZag(u)))
		case regionFieldChances:
			for len(v) > 0 {
				c, n := protowire.ConsumeVarint(v)
				if n < 0 {
					return fmt.Errorf("%w: chances: %v", ErrCorrupt, protowire.ParseError(n))
				}
				r.Chances = append(r.Chances, int(protowire.DecodeZigZag(c)))
				v = v[n:]
			}
		}
		return nil
	})
	if err == nil && id == "" {
		err = fmt.Errorf("%w: region without id", ErrCorrupt)
	}
	return id, r, err
}

// walk calls fn for every top-level field. Bytes fields arrive in v,
// varint and fixed64 fields in u. Unknown wire types are skipped.
func walk(data []byte, fn func(num protowire.Number, typ protowire.Type, v []byte, u uint64) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(n))
		}
		data = data[n:]

		var (
			v []byte
			u uint64
		)
		switch typ {
		case protowire.VarintType:
			u, n = protowire.ConsumeVarint(data)
		case protowire.Fixed64Type:
			u, n = protowire.ConsumeFixed64(data)
		case protowire.BytesType:
			v, n = protowire.ConsumeBytes(data)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if n < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrCorrupt, num, protowire.ParseError(n))
		}
		data = data[n:]
		if err := fn(num, typ, v, u); err != nil {
			return err
		}
	}
	return nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendSint(b []byte, num protowire.Number, v int64) []byte {
	return appendVarint(b, num, protowire.EncodeZigZag(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}
