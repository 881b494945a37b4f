// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package relay

import (
	"bytes"
	"io"
	"net/http"
)

const readChunkSize = 4096

var newline = []byte{'\n'}

// relayLines copies src to w one line at a time: available bytes are read,
// split on line boundaries, and every complete non-empty line is written with
// a single trailing newline and flushed immediately. A trailing partial line
// is retained across reads and emitted once the source ends. Blank lines are
// dropped; a trailing carriage return is stripped.
//
// Returns the number of lines written. A nil error means the source reached
// EOF; any other error is either a source read failure or a sink write
// failure, and relaying stops at the first one. Writes are not buffered, so a
// slow sink backpressures further reads from the source.
func relayLines(w io.Writer, flusher http.Flusher, src io.Reader) (int, error) {
	buf := make([]byte, readChunkSize)
	var pending []byte
	lines := 0

	emit := func(line []byte) error {
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 {
			return nil
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
		if _, err := w.Write(newline); err != nil {
			return err
		}
		flusher.Flush()
		lines++
		return nil
	}

	for {
		n, err := src.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			for {
				i := bytes.IndexByte(pending, '\n')
				if i < 0 {
					break
				}
				line := pending[:i]
				if werr := emit(line); werr != nil {
					return lines, werr
				}
				pending = pending[i+1:]
			}
		}
		if err != nil {
			if err == io.EOF {
				// A final line without a terminating newline still counts.
				if werr := emit(pending); werr != nil {
					return lines, werr
				}
				return lines, nil
			}
			// Interrupted mid-line: the retained fragment is dropped rather
			// than forwarded as a truncated frame.
			return lines, err
		}
	}
}
