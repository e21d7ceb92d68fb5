package events

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRelevant(t *testing.T) {
	cases := []struct {
		line     string
		expected bool
	}{
		{"Event 'change' on source #5", true},
		{"Event 'new' on SOURCE-output #12", true},
		{"Event 'change' on sink #2", false},
		{"Event 'change' on server #-1", false},
		{"", false},
	}
	for _, c := range cases {
		t.Run(c.line, func(t *testing.T) {
			assert.Equal(t, c.expected, IsRelevant(c.line, DefaultToken))
		})
	}
}

func TestListener_Consume(t *testing.T) {
	var actual []string
	instance := Listener{
		Token: DefaultToken,
		OnEvent: func(line string) {
			actual = append(actual, line)
		},
	}

	err := instance.Consume(strings.NewReader("Event 'change' on source #5\n" +
		"Event 'change' on sink #2\n" +
		"Event 'remove' on source-output #7\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Event 'change' on source #5",
		"Event 'remove' on source-output #7",
	}, actual)
}

func TestListener_Consume_skipsOversizedLines(t *testing.T) {
	var actual []string
	instance := Listener{
		Token: DefaultToken,
		OnEvent: func(line string) {
			actual = append(actual, line)
		},
	}

	err := instance.Consume(strings.NewReader("Event 'change' on source #1\n" +
		strings.Repeat("source ", MaxLineLength/7+100) + "\n" +
		"Event 'change' on source #2\n" +
		"Event 'change' on source #3"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Event 'change' on source #1",
		"Event 'change' on source #2",
		"Event 'change' on source #3",
	}, actual)
}

func TestListener_Run_oversizedLine(t *testing.T) {
	var actual []string
	instance := Listener{
		Binary:    "sh",
		Arguments: []string{"-c", `head -c 70000 /dev/zero | tr '\0' x; echo; echo "Event 'change' on source #1"`},
		Token:     DefaultToken,
		OnEvent: func(line string) {
			actual = append(actual, line)
		},
	}

	err := instance.Run(context.Background())
	assert.ErrorIs(t, err, ErrStreamClosed)
	assert.Equal(t, []string{"Event 'change' on source #1"}, actual)
}

func TestListener_Run_errorOutput(t *testing.T) {
	instance := Listener{
		Binary:    "sh",
		Arguments: []string{"-c", `echo "Connection failure" >&2; echo "Event 'change' on source #1"; exit 1`},
		Token:     DefaultToken,
	}

	err := instance.Run(context.Background())
	assert.ErrorIs(t, err, ErrStreamClosed)
	assert.ErrorContains(t, err, "exit status 1")
}

func TestLineLogger(t *testing.T) {
	var actual []string
	instance := lineLogger{onLine: func(line string) {
		actual = append(actual, line)
	}}

	n, err := instance.Write([]byte("first\nsec"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, []string{"first"}, actual)

	_, err = instance.Write([]byte("ond\r\nthi"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, actual)

	instance.Flush()
	assert.Equal(t, []string{"first", "second", "thi"}, actual)

	instance.Flush()
	assert.Equal(t, []string{"first", "second", "thi"}, actual)
}

func TestLineLogger_oversized(t *testing.T) {
	var actual []string
	instance := lineLogger{onLine: func(line string) {
		actual = append(actual, line)
	}}

	_, err := instance.Write([]byte(strings.Repeat("x", MaxLineLength+1)))
	require.NoError(t, err)
	require.Len(t, actual, 1)
	assert.Len(t, actual[0], MaxLineLength+1)
}

func TestListener_Run_streamCloses(t *testing.T) {
	var actual []string
	instance := Listener{
		Binary:    "sh",
		Arguments: []string{"-c", `printf "Event 'change' on source #1\nEvent 'change' on sink #2\n"`},
		Token:     DefaultToken,
		OnEvent: func(line string) {
			actual = append(actual, line)
		},
	}

	err := instance.Run(context.Background())
	assert.ErrorIs(t, err, ErrStreamClosed)
	assert.Equal(t, []string{"Event 'change' on source #1"}, actual)
}

func TestListener_Run_missingBinary(t *testing.T) {
	instance := Listener{
		Binary: "this-binary-does-not-exist-for-sure",
		Token:  DefaultToken,
	}

	err := instance.Run(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStreamClosed)
}

func TestListener_Start_cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	instance := Listener{
		Binary:    "sh",
		Arguments: []string{"-c", "exec sleep 30"},
		Token:     DefaultToken,
	}

	done := instance.Start(ctx)
	cancel()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("listener did not stop after cancellation")
	}
}
