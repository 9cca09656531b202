package telnet

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"sync"
	"time"
	"unicode/utf8"
)

// Telnet command and option bytes (RFC 854, RFC 857, RFC 858, RFC 1184).
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	GA   byte = 249
	NOP  byte = 241
	SE   byte = 240

	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptLinemode        byte = 34
)

// MaxLineBytes caps one input line. Bytes past the cap are discarded until
// the line ends.
const MaxLineBytes = 512

const (
	backspace = 0x08
	del       = 0x7f
)

// Conn is one Telnet client. Reads are line oriented with IAC sequences
// filtered out and backspace applied. Writes are serialized so an animation
// goroutine and the command loop can share the connection.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps a raw TCP connection with Telnet protocol handling.
//
// Precondition: raw must be a valid, open network connection.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate offers to suppress go-ahead so prompts and redrawn frames are
// not followed by GA bytes.
func (c *Conn) Negotiate() error {
	return c.send([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads one line of input without its terminator. IAC sequences
// and control characters other than tab are dropped; backspace and DEL
// erase the previous rune.
//
// Postcondition: Returns the next line, or the partial line and the read
// error (io.EOF included).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}

		switch {
		case b == IAC:
			if _, err := skipCommand(c.reader.ReadByte); err != nil {
				return line.String(), err
			}
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			if next, err := c.reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			return line.String(), nil
		case b == backspace || b == del:
			if line.Len() > 0 {
				_, size := utf8.DecodeLastRune(line.Bytes())
				line.Truncate(line.Len() - size)
			}
		case b < 32 && b != '\t':
			// dropped
		case line.Len() >= MaxLineBytes:
			// over the cap; keep reading to the terminator
		default:
			line.WriteByte(b)
		}
	}
}

// skipCommand consumes the remainder of an IAC sequence whose leading IAC
// has already been read. It reports whether the sequence was an escaped
// 0xFF data byte.
func skipCommand(next func() (byte, error)) (escaped bool, err error) {
	cmd, err := next()
	if err != nil {
		return false, err
	}
	switch cmd {
	case IAC:
		return true, nil
	case WILL, WONT, DO, DONT:
		_, err = next()
		return false, err
	case SB:
		for {
			b, err := next()
			if err != nil {
				return false, err
			}
			if b != IAC {
				continue
			}
			if b, err = next(); err != nil {
				return false, err
			}
			if b == SE {
				return false, nil
			}
		}
	}
	return false, nil
}

func (c *Conn) send(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(p)
	return err
}

// WriteLine sends text followed by \r\n.
//
// Precondition: text should not contain trailing newline characters.
func (c *Conn) WriteLine(text string) error {
	return c.send([]byte(text + "\r\n"))
}

// Write sends raw bytes to the client.
func (c *Conn) Write(data []byte) error {
	return c.send(data)
}

// WritePrompt sends a prompt string without a trailing newline.
func (c *Conn) WritePrompt(prompt string) error {
	return c.send([]byte(prompt))
}

// Redraw replaces the current terminal line with text. Animation frames use
// it; the cursor stays on the line.
//
// Postcondition: "\r", EraseLine and text are written in one call.
func (c *Conn) Redraw(text string) error {
	return c.send([]byte("\r" + EraseLine + text))
}

// Ring sends the terminal bell.
func (c *Conn) Ring() error {
	return c.send([]byte(Bell))
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// FilterIAC removes Telnet IAC sequences from input. Escaped 0xFF bytes are
// kept as data; a sequence cut off by the end of input is dropped.
func FilterIAC(input []byte) []byte {
	result := make([]byte, 0, len(input))
	r := bytes.NewReader(input)
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			return result
		}
		if b != IAC {
			result = append(result, b)
			continue
		}
		escaped, err := skipCommand(r.ReadByte)
		if err != nil {
			return result
		}
		if escaped {
			result = append(result, IAC)
		}
	}
}
