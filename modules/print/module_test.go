package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/registry"
	"github.com/stretchr/testify/require"
)

func TestPrintContext_WritesSortedEntries(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r := registry.New()
	(&Module{}).Register(r)
	resolved, err := r.Resolve(Name)
	require.NoError(t, err)

	var out bytes.Buffer
	resolved.Context.Set("zeta", "last")
	resolved.Context.Set("alpha", "first")
	resolved.Context.Set(job.KeyOutputStream, &out)
	resolved.Context.Set("count", 3) // not a string, skipped

	// --- Act ---
	err = resolved.Job.RunJob(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	want := "Context:\n" +
		"      alpha = \"first\"\n" +
		"      print.header = \"Context:\"\n" +
		"      zeta = \"last\"\n"
	require.Equal(t, want, out.String())
}

func TestPrintContext_EmptyHeaderIsOmitted(t *testing.T) {
	t.Parallel()

	instance, err := New()
	require.NoError(t, err)
	j := instance.(*Job)

	var out bytes.Buffer
	j.Context.Set(KeyHeader, "")
	j.Context.Set(job.KeyOutputStream, &out)

	require.NoError(t, j.RunJob(context.Background()))
	require.Equal(t, "      print.header = \"\"\n", out.String())
}
