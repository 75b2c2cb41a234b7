package action

import "testing"

func TestStripFence(t *testing.T) {
	const obj = `{"action":"task_complete","content":"success","reasoning":"done"}`

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", obj, obj},
		{"surrounding whitespace", "\n  " + obj + "  \n", obj},
		{"json fence", "```json\n" + obj + "\n```", obj},
		{"bare fence", "```\n" + obj + "\n```", obj},
		{"uppercase tag", "```JSON\n" + obj + "\n```", obj},
		{"fence on one line", "```json" + obj + "```", obj},
		{"only leading fence", "```json\n" + obj, obj},
		{"only trailing fence", obj + "\n```", obj},
		{"not json", "hello", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFence(tt.input); got != tt.want {
				t.Errorf("StripFence() = %q, want %q", got, tt.want)
			}
		})
	}
}
