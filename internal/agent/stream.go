package agent

import "encoding/json"

// MessageBoundary is the fragment emitted at the end of a content block,
// message, or conversation. Rendering it as a bare newline separates
// distinct agent turns with blank lines, and because it is whitespace it
// is a no-op for any JSON later extracted from the accumulated transcript.
const MessageBoundary = "\n"

// streamEvent is the subset of claude's stream-json events the engine
// cares about. Unknown fields are ignored by the decoder.
type streamEvent struct {
	Type    string `json:"type"`
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

// ParseStreamLine decodes one line of claude's stream-json output and
// returns the displayable fragment, if any:
//
//   - content_block_stop, message_stop, and result events yield
//     MessageBoundary;
//   - assistant events yield the first text block plus a trailing newline
//     (a complete turn);
//   - content_block_delta events with a text_delta yield the raw text;
//   - everything else, including malformed JSON, yields nothing.
//
// Tolerating unrecognized lines keeps a single garbled event from failing
// an otherwise healthy run.
func ParseStreamLine(line string) (string, bool) {
	var event streamEvent
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return "", false
	}

	switch event.Type {
	case "content_block_stop", "message_stop", "result":
		return MessageBoundary, true

	case "assistant":
		for _, block := range event.Message.Content {
			if block.Type == "text" {
				if block.Text == "" {
					return "", false
				}
				return block.Text + "\n", true
			}
		}

	case "content_block_delta":
		if event.Delta.Type == "text_delta" && event.Delta.Text != "" {
			return event.Delta.Text, true
		}
	}

	return "", false
}
