package server

import (
	"encoding/json"
	"fmt"
	"io"
)

// writeSSE encodes one JSON payload as a Server-Sent Events frame:
//
//	event: message
//	data: {"type":"delta","content":"..."}
//
// followed by a blank line ending the frame.
func writeSSE(w io.Writer, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding SSE payload: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
	return err
}
