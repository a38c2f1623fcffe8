package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChangedTickersBody(t *testing.T) {
	body := changedTickersBody([]string{"GRF", "SAB"})
	require.Contains(t, body, "  - GRF\n")
	require.Contains(t, body, "  - SAB\n")
}

func TestDisabledConfigIsNoop(t *testing.T) {
	{
		n := NewNotifier(SmtpConfig{})
		require.NoError(t, n.ChangedTickers(context.Background(), []string{"GRF"}))
	}
	{ // a server without recipients still sends nothing
		n := NewNotifier(SmtpConfig{Server: "smtp.example.com", Port: 587})
		require.NoError(t, n.ChangedTickers(context.Background(), []string{"GRF"}))
	}
	{ // nothing changed, nothing sent even when fully configured
		n := NewNotifier(SmtpConfig{
			Server:     "smtp.example.com",
			Port:       587,
			Recipients: []string{"ops@example.com"},
		})
		require.NoError(t, n.ChangedTickers(context.Background(), nil))
	}
}
