package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("TYPING_RATE", "")

	cfg := Load()
	require.Equal(t, "http://localhost:4001", cfg.APIURL)
	require.Equal(t, "ws://localhost:4001", cfg.WSURL)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 2.0, cfg.TypingRate)
	require.Equal(t, 1, cfg.TypingBurst)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_URL", "https://chat.example.com/graphql")
	t.Setenv("WS_URL", "wss://chat.example.com/graphql")
	t.Setenv("TYPING_RATE", "0.5")
	t.Setenv("TYPING_BURST", "3")

	cfg := Load()
	require.Equal(t, "https://chat.example.com/graphql", cfg.APIURL)
	require.Equal(t, "wss://chat.example.com/graphql", cfg.WSURL)
	require.Equal(t, 0.5, cfg.TypingRate)
	require.Equal(t, 3, cfg.TypingBurst)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("TYPING_RATE", "not-a-number")
	t.Setenv("TYPING_BURST", "-4")

	cfg := Load()
	require.Equal(t, 2.0, cfg.TypingRate)
	require.Equal(t, 1, cfg.TypingBurst)
}
