// Package conn owns the plumbing of the compiler child process: its stdio
// pipes, its stderr tail buffer (used to recognize an expected
// broken-pipe exit during shutdown), and the wait-with-timeout dance
// needed because dart-sass-embedded does not always exit promptly on EOF.
package conn

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os/exec"
	"regexp"
	"time"
)

// ByteReadWriteCloser is what the wire codec needs from a child
// connection: a reader that can also hand back one byte at a time (for
// varint decoding) plus a writer, both closable together.
type ByteReadWriteCloser interface {
	Read(p []byte) (int, error)
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
	Close() error
}

// New wires cmd to fresh stdin/stdout pipes and an internal bounded
// stderr tail buffer, without starting the process (see Start).
func New(cmd *exec.Cmd) (_ *Conn, err error) {
	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			in.Close()
		}
	}()

	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	stdErr := &tailBuffer{limit: 4096}
	cmd.Stderr = stdErr

	c := &Conn{
		r:            bufio.NewReader(out),
		readerCloser: out,
		w:            in,
		stdErr:       stdErr,
		cmd:          cmd,
	}
	return c, nil
}

// Conn is a started child process's stdio, adapted to the byte-oriented
// reader the wire codec needs.
type Conn struct {
	r            *bufio.Reader
	readerCloser io.Closer
	w            io.WriteCloser
	stdErr       *tailBuffer
	cmd          *exec.Cmd
}

func (c *Conn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c *Conn) ReadByte() (byte, error)     { return c.r.ReadByte() }
func (c *Conn) Write(p []byte) (int, error) { return c.w.Write(p) }

// Start starts the underlying command.
func (c *Conn) Start() error {
	if err := c.cmd.Start(); err != nil {
		c.Close()
		return err
	}
	return nil
}

// Close closes both pipes and waits for the process to exit, tolerating
// the broken-pipe exit dart-sass-embedded produces on a clean EOF
// shutdown.
func (c *Conn) Close() error {
	writeErr := c.w.Close()
	readErr := c.readerCloser.Close()
	cmdErr := c.waitWithTimeout()

	if writeErr != nil {
		return writeErr
	}
	if readErr != nil {
		return readErr
	}
	return cmdErr
}

// Kill forces termination of the child, for use when the driver has
// decided the child is stuck (timeout-triggered reinit) rather than
// merely finished.
func (c *Conn) Kill() error {
	if c.cmd.Process == nil {
		return nil
	}
	return c.cmd.Process.Kill()
}

var brokenPipeRe = regexp.MustCompile("Broken pipe|pipe is being closed")

func (c *Conn) waitWithTimeout() error {
	result := make(chan error, 1)
	go func() { result <- c.cmd.Wait() }()
	select {
	case err := <-result:
		if _, ok := err.(*exec.ExitError); ok {
			if brokenPipeRe.MatchString(c.stdErr.String()) {
				return nil
			}
		}
		return err
	case <-time.After(2 * time.Second):
		return errors.New("conn: timed out waiting for compiler process to exit")
	}
}

// tailBuffer discards everything it holds whenever a write would take it
// past `limit` bytes and then keeps that write, so it holds roughly the
// most recent stderr output: enough to recognize the broken-pipe message
// dart-sass-embedded prints to stderr without holding an unbounded amount
// of child chatter in memory.
type tailBuffer struct {
	limit int
	bytes.Buffer
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	if len(p)+b.Buffer.Len() > b.limit {
		b.Buffer.Reset()
	}
	return b.Buffer.Write(p)
}
