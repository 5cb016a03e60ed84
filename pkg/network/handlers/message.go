package handlers

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
)

// Message represents a protocol message that includes both size and content.
// The size is encoded as a little-endian uint32 followed by the content bytes.
type Message struct {
	// Size is the length of the content in bytes
	Size uint32
	// Content contains the actual message data
	Content []byte
}

// WriteMessageWithContext writes a message to an io.Writer with context
// cancellation support. The message format is a 4-byte little-endian size
// followed by the content itself.
func WriteMessageWithContext(ctx context.Context, w io.Writer, content []byte) error {
	done := make(chan error, 1)
	go func() {
		size := uint32(len(content))

		if err := binary.Write(w, binary.LittleEndian, size); err != nil {
			done <- fmt.Errorf("failed to write message size: %w", err)
			return
		}

		if _, err := w.Write(content); err != nil {
			done <- fmt.Errorf("failed to write message content: %w", err)
			return
		}

		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReadMessageWithContext reads a message from an io.Reader with context
// cancellation support. The expected format matches WriteMessageWithContext.
func ReadMessageWithContext(ctx context.Context, r io.Reader) (*Message, error) {
	type result struct {
		msg *Message
		err error
	}
	done := make(chan result, 1)

	go func() {
		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			done <- result{nil, fmt.Errorf("failed to read message size: %w", err)}
			return
		}

		content := make([]byte, size)
		if _, err := io.ReadFull(r, content); err != nil {
			done <- result{nil, fmt.Errorf("failed to read message content: %w", err)}
			return
		}

		done <- result{&Message{Size: size, Content: content}, nil}
	}()

	select {
	case res := <-done:
		return res.msg, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
