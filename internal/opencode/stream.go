package opencode

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"
)

// terminalSentinel marks the end of a backend event stream.
const terminalSentinel = "[DONE]"

// readStream turns an SSE response body into a lazy sequence of chunks.
//
// The body is closed when the sequence finishes, whether it ends naturally,
// on error, or because the consumer stopped early. Context expiry surfaces
// through the read error so consumers see the deadline, not a silent EOF.
func readStream(ctx context.Context, body io.ReadCloser) iter.Seq2[*StreamChunk, error] {
	return func(yield func(*StreamChunk, error) bool) {
		defer body.Close()

		scanner := bufio.NewScanner(body)
		var dataLine string
		for scanner.Scan() {
			line := scanner.Text()
			if rest, ok := strings.CutPrefix(line, "data:"); ok {
				dataLine = strings.TrimSpace(rest)
				continue
			}
			if line != "" || dataLine == "" {
				continue
			}

			// Blank line closes one SSE event block.
			if dataLine == terminalSentinel {
				return
			}

			var chunk StreamChunk
			if err := json.Unmarshal([]byte(dataLine), &chunk); err != nil {
				yield(nil, fmt.Errorf("decode stream chunk: %w", err))
				return
			}
			dataLine = ""

			if !yield(&chunk, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			// Prefer the context error so deadline expiry is reported as
			// such rather than as a transport read failure.
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(nil, ctxErr)
				return
			}
			yield(nil, fmt.Errorf("read stream: %w", err))
		}
	}
}
