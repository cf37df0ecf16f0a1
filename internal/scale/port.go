package scale

import (
	"bytes"
	"strings"
	"time"

	"go.bug.st/serial"
)

// Port is the byte-oriented, line-delimited device the reader polls.
type Port interface {
	// ReadLine returns the next newline-terminated line from the device.
	// ok is false when no complete line arrived within the read timeout,
	// which is how an idle device looks between transmissions. A non-nil
	// error is a hard I/O failure and the handle must be reopened.
	ReadLine() (line string, ok bool, err error)
	Close() error
}

// Opener opens a named serial endpoint. Swapped for a fake in tests.
type Opener func(name string, baud int, readTimeout time.Duration) (Port, error)

// OpenSerial opens a real serial port.
func OpenSerial(name string, baud int, readTimeout time.Duration) (Port, error) {
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, err
	}
	return &serialPort{p: p}, nil
}

type serialPort struct {
	p serial.Port
	// carry holds a partial line between ReadLine calls.
	carry []byte
}

func (s *serialPort) ReadLine() (string, bool, error) {
	chunk := make([]byte, 128)
	for {
		if i := bytes.IndexByte(s.carry, '\n'); i >= 0 {
			line := strings.TrimRight(string(s.carry[:i]), "\r")
			s.carry = append([]byte(nil), s.carry[i+1:]...)
			return line, true, nil
		}
		n, err := s.p.Read(chunk)
		if err != nil {
			return "", false, err
		}
		if n == 0 {
			// Read timeout expired with no pending bytes.
			return "", false, nil
		}
		s.carry = append(s.carry, chunk[:n]...)
	}
}

func (s *serialPort) Close() error {
	return s.p.Close()
}
