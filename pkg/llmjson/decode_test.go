package llmjson

import (
	"errors"
	"testing"
)

type payload struct {
	Text      string   `json:"text"`
	Questions []string `json:"questions"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantText string
		wantErr  bool
	}{
		{
			name:     "strict object",
			response: `{"text": "clean", "questions": ["a?"]}`,
			wantText: "clean",
		},
		{
			name:     "json fence",
			response: "```json\n{\"text\": \"fenced\"}\n```",
			wantText: "fenced",
		},
		{
			name:     "bare fence",
			response: "```\n{\"text\": \"bare\"}\n```",
			wantText: "bare",
		},
		{
			name:     "prose around object",
			response: "Sure, here is the result:\n{\"text\": \"embedded\"}\nHope that helps!",
			wantText: "embedded",
		},
		{
			name:     "leading and trailing whitespace",
			response: "   \n{\"text\": \"padded\"}\n  ",
			wantText: "padded",
		},
		{
			name:     "no json at all",
			response: "I could not produce a result.",
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: "   ",
			wantErr:  true,
		},
		{
			name:     "broken braces",
			response: "some text { not json at all }",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := Decode(tt.response, &got)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode(%q) expected error, got %+v", tt.response, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) unexpected error: %v", tt.response, err)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}

func TestDecodeNoObjectIsErrNoJSON(t *testing.T) {
	var got payload
	err := Decode("plain prose without braces", &got)
	if !errors.Is(err, ErrNoJSON) {
		t.Errorf("err = %v, want ErrNoJSON", err)
	}
}
