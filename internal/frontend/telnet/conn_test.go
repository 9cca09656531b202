package telnet

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFilterIAC_NoIAC(t *testing.T) {
	input := []byte("hello world")
	result := FilterIAC(input)
	assert.Equal(t, input, result)
}

func TestFilterIAC_WillCommand(t *testing.T) {
	input := []byte{IAC, WILL, OptEcho, 'h', 'i'}
	result := FilterIAC(input)
	assert.Equal(t, []byte("hi"), result)
}

func TestFilterIAC_WontCommand(t *testing.T) {
	input := []byte{IAC, WONT, OptSuppressGoAhead, 'o', 'k'}
	result := FilterIAC(input)
	assert.Equal(t, []byte("ok"), result)
}

func TestFilterIAC_DoCommand(t *testing.T) {
	input := []byte{'a', IAC, DO, OptLinemode, 'b'}
	result := FilterIAC(input)
	assert.Equal(t, []byte("ab"), result)
}

func TestFilterIAC_DontCommand(t *testing.T) {
	input := []byte{IAC, DONT, OptEcho}
	result := FilterIAC(input)
	assert.Empty(t, result)
}

func TestFilterIAC_SubNegotiation(t *testing.T) {
	input := []byte{IAC, SB, 24, 0, 'x', 't', 'e', 'r', 'm', IAC, SE, 'z'}
	result := FilterIAC(input)
	assert.Equal(t, []byte("z"), result)
}

func TestFilterIAC_EscapedIAC(t *testing.T) {
	input := []byte{'a', IAC, IAC, 'b'}
	result := FilterIAC(input)
	assert.Equal(t, []byte{byte('a'), IAC, byte('b')}, result)
}

func TestFilterIAC_NOP(t *testing.T) {
	input := []byte{'x', IAC, NOP, 'y'}
	result := FilterIAC(input)
	assert.Equal(t, []byte("xy"), result)
}

func TestFilterIAC_MultipleCommands(t *testing.T) {
	input := []byte{
		IAC, WILL, OptSuppressGoAhead,
		IAC, WILL, OptEcho,
		'h', 'e', 'l', 'l', 'o',
	}
	result := FilterIAC(input)
	assert.Equal(t, []byte("hello"), result)
}

// Property: FilterIAC on input without any IAC bytes returns the input unchanged.
func TestPropertyFilterIAC_NoIACBytesPassThrough(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Generate bytes that don't contain IAC (0xFF)
		length := rapid.IntRange(0, 200).Draw(t, "length")
		input := make([]byte, length)
		for i := range input {
			input[i] = byte(rapid.IntRange(0, 254).Draw(t, "byte"))
		}
		result := FilterIAC(input)
		assert.Equal(t, input, result, "input without IAC bytes should pass through unchanged")
	})
}

// Property: every IAC byte in the output is an escaped pair in the input,
// so the output holds at most half as many IAC bytes as the input.
func TestPropertyFilterIAC_OnlyEscapedIACSurvives(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.SliceOfN(rapid.Byte(), 0, 100).Draw(t, "input")
		result := FilterIAC(input)
		assert.LessOrEqual(t, 2*bytes.Count(result, []byte{IAC}), bytes.Count(input, []byte{IAC}))
	})
}

// Property: FilterIAC output length is always <= input length.
func TestPropertyFilterIAC_OutputNeverLongerThanInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(0, 200).Draw(t, "length")
		input := make([]byte, length)
		for i := range input {
			input[i] = byte(rapid.IntRange(0, 255).Draw(t, "byte"))
		}
		result := FilterIAC(input)
		assert.LessOrEqual(t, len(result), len(input),
			"filtered output should never be longer than input")
	})
}

func TestConnRedrawAndRing(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	c := NewConn(server, 0, time.Second)
	defer c.Close()

	got := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(client)
		got <- b
	}()

	assert.NoError(t, c.Redraw("frame 1"))
	assert.NoError(t, c.Ring())
	_ = c.Close()

	assert.Equal(t, "\r"+EraseLine+"frame 1"+Bell, string(<-got))
}

func TestConnReadLineFiltersNegotiation(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	c := NewConn(server, time.Second, time.Second)
	defer c.Close()

	go func() {
		_, _ = client.Write([]byte{IAC, DO, OptSuppressGoAhead})
		_, _ = client.Write([]byte("spin\r\nadd Пицца\n"))
	}()

	line, err := c.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "spin", line)
	line, err = c.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "add Пицца", line)
}

func TestFilterIAC_TruncatedSequenceDropped(t *testing.T) {
	assert.Equal(t, []byte("ab"), FilterIAC([]byte{'a', 'b', IAC, WILL}))
	assert.Equal(t, []byte("ab"), FilterIAC([]byte{'a', 'b', IAC}))
}

func TestFilterIAC_EscapedIACInsideSubNegotiation(t *testing.T) {
	input := []byte{IAC, SB, 24, IAC, IAC, SE, IAC, SE, 'k'}
	assert.Equal(t, []byte("k"), FilterIAC(input))
}

func TestConnReadLineAppliesBackspace(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	c := NewConn(server, time.Second, time.Second)
	defer c.Close()

	go func() {
		_, _ = client.Write([]byte("spim\bn\r\n"))
		_, _ = client.Write([]byte("add Суп\x7f\x7fыр\r\n"))
		_, _ = client.Write([]byte("\x7fok\r\n"))
	}()

	for _, want := range []string{"spin", "add Сыр", "ok"} {
		line, err := c.ReadLine()
		assert.NoError(t, err)
		assert.Equal(t, want, line)
	}
}

func TestConnReadLineCapsLength(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	c := NewConn(server, time.Second, time.Second)
	defer c.Close()

	go func() {
		_, _ = client.Write(append(bytes.Repeat([]byte("x"), MaxLineBytes+50), '\n'))
		_, _ = client.Write([]byte("next\n"))
	}()

	line, err := c.ReadLine()
	assert.NoError(t, err)
	assert.Len(t, line, MaxLineBytes)
	line, err = c.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "next", line)
}

func TestConnWriteLineAndPrompt(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	c := NewConn(server, 0, time.Second)

	got := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(client)
		got <- b
	}()

	assert.NoError(t, c.Negotiate())
	assert.NoError(t, c.WriteLine("Wheel"))
	assert.NoError(t, c.WritePrompt("> "))
	_ = c.Close()

	assert.Equal(t, string([]byte{IAC, WILL, OptSuppressGoAhead})+"Wheel\r\n> ", string(<-got))
}
