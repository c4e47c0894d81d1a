package spotify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"
)

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Spotify URI format",
			input:    "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Spotify URL format",
			input:    "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Localized URL with query params",
			input:    "https://open.spotify.com/intl-ja/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Trailing slash and whitespace",
			input:    "  https://open.spotify.com/playlist/abc123/  ",
			expected: "abc123",
		},
		{
			name:     "Plain playlist ID",
			input:    "37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractPlaylistID(tt.input))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"rate limit error with 429", errors.New("Error 429: rate limit exceeded"), true},
		{"server error 500", errors.New("Error 500: internal server error"), true},
		{"server error 503", errors.New("503 Service Unavailable"), true},
		{"client error 400", errors.New("400 Bad Request"), false},
		{"not found error", errors.New("404 not found"), false},
		{"generic error", errors.New("something went wrong"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRetryable(tt.err))
		})
	}
}

func TestClient_Retry(t *testing.T) {
	c := &Client{maxRetries: 3, retryDelay: time.Millisecond}

	t.Run("succeeds after transient errors", func(t *testing.T) {
		calls := 0
		err := c.retry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("503 Service Unavailable")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		err := c.retry(context.Background(), func() error {
			calls++
			return errors.New("404 not found")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := c.retry(context.Background(), func() error {
			calls++
			return errors.New("429 rate limit")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max retries exceeded")
		assert.Equal(t, 3, calls)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := &Client{maxRetries: 3, retryDelay: time.Hour}
		err := slow.retry(ctx, func() error { return errors.New("500") })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestToItem(t *testing.T) {
	ft := &spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			ID:   "4uLU6hMCjMI75M1A2tKUQC",
			Name: "Never Gonna Give You Up",
			Artists: []spotify.SimpleArtist{
				{Name: "Rick Astley"},
				{Name: "Guest"},
			},
		},
	}

	item := toItem(ft)

	assert.Equal(t, "Never Gonna Give You Up", item.Title)
	assert.Equal(t, "Rick Astley, Guest", item.Artist)
	assert.Equal(t, "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", item.URL)
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{ClientID: "id"})
	assert.Error(t, err)

	c, err := New(context.Background(), Config{ClientID: "id", ClientSecret: "s", RefreshToken: "r"})
	require.NoError(t, err)
	assert.Equal(t, "JP", c.market)
}
