package config

import (
	assistantService "EllaBooking/internal/api/assistant/service"
	"os"
	"strconv"
	"time"
)

func NewAssistantConfig() *assistantService.AssistantConfig {
	cfg := assistantService.DefaultConfig()

	if ms, ok := envInt("ASSISTANT_TYPING_DELAY_MS"); ok && ms >= 0 {
		cfg.TypingDelay = time.Duration(ms) * time.Millisecond
	}
	if hours, ok := envInt("ASSISTANT_SESSION_TTL_HOURS"); ok && hours > 0 {
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	if n, ok := envInt("ASSISTANT_SUBSCRIBER_BUFFER"); ok && n > 0 {
		cfg.SubscriberBuffer = n
	}
	if s, ok := envInt("ASSISTANT_HANDOFF_TIMEOUT_SECONDS"); ok && s > 0 {
		cfg.HandoffTimeout = time.Duration(s) * time.Second
	}

	return cfg
}

func envInt(key string) (int, bool) {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0, false
	}
	return v, true
}
