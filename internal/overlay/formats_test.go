package overlay

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDecoders(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		id        string
		input     string
		want      []Pair
		expectErr bool
	}{
		{
			name:  "Properties keep file order and literal values",
			id:    "base.properties",
			input: "y = 2\nx=1\n# comment\nquery=a\\=b\nref=${x}\n",
			want: []Pair{
				{Key: "y", Value: "2"},
				{Key: "x", Value: "1"},
				{Key: "query", Value: "a=b"},
				{Key: "ref", Value: "${x}"},
			},
		},
		{
			name:  "Unknown extension falls back to properties",
			id:    "context.conf",
			input: "a:1\n",
			want:  []Pair{{Key: "a", Value: "1"}},
		},
		{
			name:  "HCL attributes in source order",
			id:    "ctx.HCL",
			input: "zeta = \"z\"\nalpha = 42\nflag = true\nlist = [\"a\", \"b\"]\n",
			want: []Pair{
				{Key: "zeta", Value: "z"},
				{Key: "alpha", Value: "42"},
				{Key: "flag", Value: "true"},
				{Key: "list", Value: `["a","b"]`},
			},
		},
		{
			name:      "HCL blocks are rejected",
			id:        "ctx.hcl",
			input:     "block {\n  a = 1\n}\n",
			expectErr: true,
		},
		{
			name:      "HCL syntax error",
			id:        "ctx.hcl",
			input:     "a = \n",
			expectErr: true,
		},
		{
			name:  "TOML flattened and sorted",
			id:    "ctx.toml",
			input: "name = \"job\"\n[db]\nport = 5432\nratio = 0.5\n",
			want: []Pair{
				{Key: "db.port", Value: "5432"},
				{Key: "db.ratio", Value: "0.5"},
				{Key: "name", Value: "job"},
			},
		},
		{
			name:  "TOML arrays and arrays of tables are JSON-encoded",
			id:    "ctx.toml",
			input: "arr = [1, 2]\ntags = [\"a\", \"b\"]\n[[srv]]\nname = \"a\"\n",
			want: []Pair{
				{Key: "arr", Value: "[1,2]"},
				{Key: "srv", Value: `[{"name":"a"}]`},
				{Key: "tags", Value: `["a","b"]`},
			},
		},
		{
			name:      "TOML syntax error",
			id:        "ctx.toml",
			input:     "name = \n",
			expectErr: true,
		},
		{
			name:  "Dotenv sorted",
			id:    "ctx.env",
			input: "B=2\nexport A=\"1\"\n",
			want: []Pair{
				{Key: "A", Value: "1"},
				{Key: "B", Value: "2"},
			},
		},
	}

	decoders := DefaultDecoders()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := decoders.For(tc.id).Decode(strings.NewReader(tc.input))

			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("decoded pairs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
