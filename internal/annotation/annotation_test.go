package annotation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRemarks(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		hashes []string
	}{
		{name: "Array", input: `[{"hash":"b","content":"x"},{"hash":"a","content":"y"}]`, hashes: []string{"b", "a"}},
		{name: "ObjectMapSortedByHash", input: `{"def":"later","abc":"now"}`, hashes: []string{"abc", "def"}},
		{name: "BlankHashesDropped", input: `[{"hash":" ","content":"x"},null,{"hash":"a","content":"y"}]`, hashes: []string{"a"}},
		{name: "Null", input: `null`, hashes: []string{}},
		{name: "Empty", input: ``, hashes: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remarks, err := DecodeRemarks(json.RawMessage(tt.input), fixedNow)
			require.NoError(t, err)

			got := make([]string, 0, len(remarks))
			for _, r := range remarks {
				got = append(got, r.Hash)
			}
			assert.Equal(t, tt.hashes, got)
		})
	}
}

func TestDecodeRemarks_ObjectMapStamped(t *testing.T) {
	remarks, err := DecodeRemarks(json.RawMessage(`{"abc":"note"}`), fixedNow)
	require.NoError(t, err)
	require.Len(t, remarks, 1)
	assert.Equal(t, "note", remarks[0].Content)
	assert.Equal(t, fixedNow, remarks[0].Timestamp)
}

func TestDecodeRemarks_Invalid(t *testing.T) {
	_, err := DecodeRemarks(json.RawMessage(`"just a string"`), fixedNow)
	assert.Error(t, err)

	_, err = DecodeRemarks(json.RawMessage(`{"abc": 5}`), fixedNow)
	assert.Error(t, err)
}

func TestDecodeIgnored(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "Wrapped", input: `{"ignoredCommits":[{"hash":"a","reason":"Other"}]}`, want: 1},
		{name: "Bare", input: `[{"hash":"a"},{"hash":"b"}]`, want: 2},
		{name: "WrappedNull", input: `{"ignoredCommits":null}`, want: 0},
		{name: "MissingKey", input: `{}`, want: 0},
		{name: "BlankHash", input: `[{"hash":""}]`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := DecodeIgnored([]byte(tt.input))
			require.NoError(t, err)
			assert.Len(t, list, tt.want)
		})
	}
}

func TestIgnoreSet(t *testing.T) {
	set := NewIgnoreSet([]IgnoredCommit{{Hash: "a", Reason: "Other"}, {Hash: "a", Reason: "Not needed"}})
	assert.True(t, set.Has("a"))
	assert.False(t, set.Has("b"))
	assert.Equal(t, "Not needed", set["a"].Reason)
}

func TestIgnoreReasons(t *testing.T) {
	assert.Len(t, IgnoreReasons, 5)
	assert.Equal(t, "Other", IgnoreReasons[len(IgnoreReasons)-1])
}
