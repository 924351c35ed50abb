package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("CHECKOUT_TIMEOUT", "")

	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 10*time.Second, cfg.Kiosk.CheckoutTimeout)
	assert.Equal(t, 4, cfg.Notifier.Workers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("AUTO_MIGRATE", "TRUE")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("CHECKOUT_TIMEOUT", "3s")
	t.Setenv("KIOSK_API_URL", "http://api.local:8081/")

	cfg := Load()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, int64(-100123), cfg.Telegram.ChatID)
	assert.Equal(t, 3*time.Second, cfg.Kiosk.CheckoutTimeout)
	assert.Equal(t, "http://api.local:8081", cfg.Kiosk.APIURL)
}

func TestGetduration_RejectsNonPositive(t *testing.T) {
	t.Setenv("X_TIMEOUT", "-1s")
	assert.Equal(t, time.Second, getduration("X_TIMEOUT", time.Second))
}
