package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokulua/kilo-data-service/internal/briefing"
	"github.com/mokulua/kilo-data-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	generated := time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC)
	b := briefing.DailyBriefing{
		ID:          "brief-123",
		Island:      domain.Maui,
		GeneratedAt: generated,
	}

	msg, err := serializeToMessage(b)
	require.NoError(t, err)

	// Keyed by island so one island's briefings stay ordered.
	assert.Equal(t, []byte("maui"), msg.Key)

	var decoded briefing.DailyBriefing
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "brief-123", decoded.ID)
	assert.Equal(t, domain.Maui, decoded.Island)
	assert.True(t, generated.Equal(decoded.GeneratedAt))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "brief-123", headers["briefing_id"])
	assert.Equal(t, "2026-03-14T16:00:00Z", headers["generated_at"])
}

func TestSerializeToMessage_SameIslandSameKey(t *testing.T) {
	a, err := serializeToMessage(briefing.DailyBriefing{ID: "1", Island: domain.Oahu})
	require.NoError(t, err)
	b, err := serializeToMessage(briefing.DailyBriefing{ID: "2", Island: domain.Oahu})
	require.NoError(t, err)
	assert.Equal(t, a.Key, b.Key)
}
