package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescriptor(t *testing.T) {
	testCases := []struct {
		name      string
		reply     string
		wantErr   bool
		wantNotes string
	}{
		{name: "plain object", reply: `{"outfit":"a","place":"b","items":["c"],"notes":"d"}`, wantNotes: "d"},
		{name: "json fence", reply: "```json\n{\"outfit\":\"a\",\"notes\":\"fenced\"}\n```", wantNotes: "fenced"},
		{name: "bare fence", reply: "```\n{\"notes\":\"bare\"}\n```", wantNotes: "bare"},
		{name: "extra fields ignored", reply: `{"notes":"kept","vibe":"ignored"}`, wantNotes: "kept"},
		{name: "prose", reply: "sure! here's a vibe", wantErr: true},
		{name: "empty", reply: "   ", wantErr: true},
		{name: "empty object", reply: `{}`, wantErr: true},
		{name: "null", reply: `null`, wantErr: true},
		{name: "array", reply: `[{"notes":"x"}]`, wantErr: true},
		{name: "wrong item type", reply: `{"items":"latte"}`, wantErr: true},
		{name: "trailing text", reply: `{"notes":"x"} hope this helps`, wantErr: true},
		{name: "trailing brace", reply: `{"notes":"x"}}`, wantErr: true},
		{name: "trailing bracket", reply: `{"notes":"x"} ]`, wantErr: true},
		{name: "second object", reply: `{"notes":"x"}{"notes":"y"}`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDescriptor(tc.reply)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedReply)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantNotes, got.Notes)
		})
	}
}

func TestBuildPromptEmbedsInputOnce(t *testing.T) {
	prompt := BuildPrompt("goats on a {{INPUT}} roof")

	assert.Contains(t, prompt, `"goats on a {{INPUT}} roof"`)
	assert.Contains(t, prompt, `"outfit"`)
	assert.Contains(t, prompt, "Now generate a new one based on:")
}
