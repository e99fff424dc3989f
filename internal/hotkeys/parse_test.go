package hotkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.design/x/hotkey"
)

func TestParseComboValid(t *testing.T) {
	modifiers, key, err := ParseCombo("<ctrl>+<alt>+s")
	require.NoError(t, err)
	assert.Len(t, modifiers, 2)
	assert.Equal(t, hotkey.KeyS, key)
}

func TestParseComboIsCaseAndSpaceInsensitive(t *testing.T) {
	modifiers, key, err := ParseCombo(" <Ctrl> + <Shift> + P ")
	require.NoError(t, err)
	assert.Len(t, modifiers, 2)
	assert.Equal(t, hotkey.KeyP, key)
}

func TestParseComboBareKey(t *testing.T) {
	modifiers, key, err := ParseCombo("<f>")
	require.NoError(t, err)
	assert.Empty(t, modifiers)
	assert.Equal(t, hotkey.KeyF, key)
}

func TestParseComboNamedKeys(t *testing.T) {
	_, key, err := ParseCombo("<ctrl>+<space>")
	require.NoError(t, err)
	assert.Equal(t, hotkey.KeySpace, key)
}

func TestParseComboErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"trailing plus":  "<ctrl>+",
		"modifiers only": "<ctrl>+<alt>",
		"two keys":       "s+p",
		"unknown token":  "<bogus>+s",
		"unknown key":    "<ctrl>+<nosuchkey>",
	}
	for name, combo := range cases {
		combo := combo
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseCombo(combo)
			assert.Error(t, err)
		})
	}
}
