//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/jihoon0306/onyak-ai-rail/internal/adapter/kafka"
	"github.com/jihoon0306/onyak-ai-rail/internal/adapter/nominatim"
	"github.com/jihoon0306/onyak-ai-rail/internal/adapter/sdsc"
	"github.com/jihoon0306/onyak-ai-rail/internal/config"
	"github.com/jihoon0306/onyak-ai-rail/internal/domain"
	"github.com/jihoon0306/onyak-ai-rail/internal/observability"
	"github.com/jihoon0306/onyak-ai-rail/internal/pipeline"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testTopic = "test-lookups"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
}

// TestLookupPublishesToKafka runs a live lookup against stub upstreams and
// reads the resulting event back from Kafka.
func TestLookupPublishesToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	geocoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"display_name":"강남역","lat":"37.4979","lon":"127.0276"}]`)
	}))
	t.Cleanup(geocoder.Close)
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"header":{"resultCode":"00"},"body":{"items":[{"bizesNm":"온누리약국","indsMclsNm":"의약·의료"},{"bizesNm":"OO커피","indsMclsNm":"커피점/카페"}]}}`)
	}))
	t.Cleanup(registry.Close)

	cfg := config.Default()
	cfg.KafkaBrokers = []string{broker}
	cfg.KafkaTopic = testTopic

	metrics := observability.NewMetricsForTesting()
	writer := kafka.NewWriter(cfg, metrics, discardLogger())
	p := pipeline.New(
		nominatim.NewClient(geocoder.URL, cfg.GeocoderUserAgent, 5*time.Second, metrics, discardLogger()),
		sdsc.NewClient(registry.URL, "integration-key", 5*time.Second, metrics, discardLogger()),
		writer,
		clockwork.NewRealClock(),
		discardLogger(),
		metrics,
	)

	resp := p.Lookup(ctx, pipeline.Request{Query: "Gangnam Station"})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, pipeline.StageResponding, resp.Stage)
	require.NoError(t, writer.Close(), "flush pending events")

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  []string{broker},
		Topic:    testTopic,
		GroupID:  fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read lookup event")

	var event domain.LookupEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, string(msg.Key), event.ID)
	assert.Equal(t, "Gangnam Station", event.Query)
	assert.Equal(t, 500, event.Radius)
	assert.Equal(t, 2, event.Total)
	assert.Equal(t, 1, event.Pharm)
	assert.False(t, event.Fallback)
	assert.NotContains(t, string(msg.Value), "integration-key")
}
