package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/serexlab/serex/value"
)

var yamlCodec = Codec{
	Name:   "yaml",
	Decode: decodeYAML,
	Encode: encodeYAML,
}

// decodeYAML works on the yaml.Node tree rather than plain Go maps, so
// mapping key order survives the trip.  Only the first document of a
// multi-document stream is read.  Timestamps are kept as their literal
// string form.
func decodeYAML(input []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(input, &doc); err != nil {
		return nil, &DecodeError{Format: "yaml", Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		// An empty document is the null value.
		return value.Null{}, nil
	}
	v, err := yamlValue(doc.Content[0])
	if err != nil {
		return nil, &DecodeError{Format: "yaml", Err: err}
	}
	return v, nil
}

func yamlValue(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		return yamlScalar(n)
	case yaml.SequenceNode:
		arr := make(value.Array, len(n.Content))
		for i, item := range n.Content {
			v, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case yaml.MappingNode:
		m := value.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, v)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported node kind %d", n.Kind)
}

func yamlScalar(n *yaml.Node) (value.Value, error) {
	switch n.Tag {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return value.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return value.Float(f), nil
	default:
		// Strings, timestamps and anything else keep their literal form.
		return value.String(n.Value), nil
	}
}

func encodeYAML(v value.Value) ([]byte, error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, &EncodeError{Format: "yaml", Err: err}
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, &EncodeError{Format: "yaml", Err: err}
	}
	return out, nil
}

func yamlNode(v value.Value) (*yaml.Node, error) {
	switch x := v.(type) {
	case value.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(x))}, nil
	case value.Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(x), 10)}, nil
	case value.Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(float64(x))}, nil
	case value.String:
		node := &yaml.Node{}
		node.SetString(string(x))
		return node, nil
	case value.Array:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range x {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case *value.Map:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range x.Keys() {
			key := &yaml.Node{}
			key.SetString(k)
			item, _ := x.Get(k)
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, key, child)
		}
		return node, nil
	}
	return nil, fmt.Errorf("invalid value type %T", v)
}

// yamlFloat formats f so it still resolves as a float when read back:
// integral values get a trailing ".0" and the non-finite values use the
// YAML spellings.
func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
