package job

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_MatchesKindAndCause(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cause := io.ErrUnexpectedEOF
	err := fmt.Errorf("outer: %w", &Error{Kind: ContextLoadError, Job: "SampleJob", Source: "base.properties", Msg: "read failed", Err: cause})

	// --- Assert ---
	require.ErrorIs(t, err, ContextLoadError)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.False(t, errors.Is(err, ExecutionError))

	var jobErr *Error
	require.ErrorAs(t, err, &jobErr)
	require.Equal(t, "base.properties", jobErr.Source)
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "Job and cause",
			err:  NewError(ExecutionError, "SampleJob", "entry point failed", errors.New("boom")),
			want: `execution error [job "SampleJob"]: entry point failed: boom`,
		},
		{
			name: "Source only",
			err:  &Error{Kind: ContextLoadError, Source: "x.properties"},
			want: `context load error [source "x.properties"]`,
		},
		{
			name: "Bare kind",
			err:  &Error{Kind: ConfigurationError, Msg: "job name is missing or empty"},
			want: "configuration error: job name is missing or empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.err.Error())
		})
	}
}
