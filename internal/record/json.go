package record

import (
	"fmt"

	"github.com/valyala/fastjson"
)

// FromJSON decodes a JSON document into a Record tree. Objects become
// composites with fields in document order, arrays become sequences, and
// primitives become scalars. Integral numbers decode as int64, everything
// else numeric as float64.
func FromJSON(data []byte) (Record, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return fromValue(v)
}

func fromValue(v *fastjson.Value) (Record, error) {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return nil, err
		}
		c := &Composite{Fields: make([]Field, 0, obj.Len())}
		obj.Visit(func(key []byte, child *fastjson.Value) {
			if err != nil {
				return
			}
			var rec Record
			rec, err = fromValue(child)
			if err == nil {
				c.Add(string(key), rec)
			}
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case fastjson.TypeArray:
		items, err := v.Array()
		if err != nil {
			return nil, err
		}
		s := &Sequence{Items: make([]Record, 0, len(items))}
		for _, item := range items {
			rec, err := fromValue(item)
			if err != nil {
				return nil, err
			}
			s.Append(rec)
		}
		return s, nil
	case fastjson.TypeString:
		b, err := v.StringBytes()
		if err != nil {
			return nil, err
		}
		return &Scalar{Value: string(b)}, nil
	case fastjson.TypeNumber:
		if i, err := v.Int64(); err == nil {
			return &Scalar{Value: i}, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return &Scalar{Value: f}, nil
	case fastjson.TypeTrue:
		return &Scalar{Value: true}, nil
	case fastjson.TypeFalse:
		return &Scalar{Value: false}, nil
	case fastjson.TypeNull:
		return &Scalar{Value: nil}, nil
	default:
		return nil, fmt.Errorf("unsupported json value type %s", v.Type())
	}
}
