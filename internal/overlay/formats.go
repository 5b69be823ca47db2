package overlay

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/magiconair/properties"
	"github.com/pelletier/go-toml/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// DecodeProperties reads Java-style properties. Values are taken literally:
// ${key} references are not expanded.
func DecodeProperties(r io.Reader) ([]Pair, error) {
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadReader(r)
	if err != nil {
		return nil, err
	}

	keys := p.Keys()
	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		v, _ := p.Get(k)
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	return pairs, nil
}

// DecodeHCL reads the top-level attributes of an HCL body in source order.
// Primitive values are converted to strings; lists, maps and objects are
// rendered as JSON. Blocks are rejected.
func DecodeHCL(r io.Reader) ([]Pair, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	file, diags := hclparse.NewParser().ParseHCL(src, "context.hcl")
	if diags.HasErrors() {
		return nil, diags
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		ordered = append(ordered, a)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	pairs := make([]Pair, 0, len(ordered))
	for _, a := range ordered {
		val, diags := a.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		s, err := ctyToString(val)
		if err != nil {
			return nil, fmt.Errorf("attribute '%s': %w", a.Name, err)
		}
		pairs = append(pairs, Pair{Key: a.Name, Value: s})
	}
	return pairs, nil
}

func ctyToString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", nil
	}
	if val.Type().IsPrimitiveType() {
		sv, err := convert.Convert(val, cty.String)
		if err != nil {
			return "", err
		}
		return sv.AsString(), nil
	}
	b, err := ctyjson.SimpleJSONValue{Value: val}.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeTOML reads a TOML document. Nested tables are flattened into dotted
// keys and the pairs are returned in sorted key order.
func DecodeTOML(r io.Reader) ([]Pair, error) {
	var doc map[string]any
	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	flat := make(map[string]string)
	if err := flattenTOML("", doc, flat); err != nil {
		return nil, err
	}
	return sortedPairs(flat), nil
}

func flattenTOML(prefix string, in map[string]any, out map[string]string) error {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if table, ok := v.(map[string]any); ok {
			if err := flattenTOML(key, table, out); err != nil {
				return err
			}
			continue
		}
		s, err := tomlScalar(v)
		if err != nil {
			return fmt.Errorf("key '%s': %w", key, err)
		}
		out[key] = s
	}
	return nil
}

// tomlScalar renders a TOML value as a string. Arrays, including arrays of
// tables, are JSON-encoded like HCL collections.
func tomlScalar(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case time.Time:
		return val.Format(time.RFC3339Nano), nil
	case []any:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(val), nil
	}
}

// DecodeDotenv reads a dotenv file. The pairs are returned in sorted key order.
func DecodeDotenv(r io.Reader) ([]Pair, error) {
	env, err := godotenv.Parse(r)
	if err != nil {
		return nil, err
	}
	return sortedPairs(env), nil
}

func sortedPairs(m map[string]string) []Pair {
	pairs := make([]Pair, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		pairs = append(pairs, Pair{Key: k, Value: m[k]})
	}
	return pairs
}
