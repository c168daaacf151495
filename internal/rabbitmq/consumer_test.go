//go:build integration

package rabbitmq

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
)

const amqpPort nat.Port = "5672/tcp"

func setupRabbitMQContainer(ctx context.Context, t *testing.T) (testcontainers.Container, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3-management",
		ExposedPorts: []string{string(amqpPort), "15672/tcp"},
		Env: map[string]string{
			"RABBITMQ_DEFAULT_USER":  "guest",
			"RABBITMQ_DEFAULT_PASS":  "guest",
			"RABBITMQ_DEFAULT_VHOST": "/",
		},
		WaitingFor: wait.ForListeningPort(amqpPort).
			WithStartupTimeout(2 * time.Minute),
	}

	rmqContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	cleanup := func() {
		if err := rmqContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate rabbitmq container: %v", err)
		}
	}
	return rmqContainer, cleanup
}

func amqpURI(ctx context.Context, t *testing.T) (string, func()) {
	if uri := os.Getenv("TEST_RABBITMQ_URL"); uri != "" {
		return uri, func() {}
	}
	c, cleanup := setupRabbitMQContainer(ctx, t)
	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, amqpPort)
	require.NoError(t, err)
	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()), cleanup
}

func TestSetupChannel_PublishAndConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	uri, cleanup := amqpURI(ctx, t)
	defer cleanup()

	conn, err := Connect(ctx, uri, 5, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer ch.Close()

	var (
		mu       sync.Mutex
		received []string
		wg       sync.WaitGroup
	)
	wg.Add(2)
	handler := func(_ context.Context, body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, string(body))
		wg.Done()
		return nil
	}
	require.NoError(t, ConsumerMessage(ctx, sl.NewDiscard(), ch, QueueTrialExpired, handler))

	pub := NewPublisher(ch)
	require.NoError(t, pub.Publish(ctx, models.NotificationTrialExpired, "first"))
	require.NoError(t, pub.Publish(ctx, models.NotificationTrialExpired, "second"))
	// другой ключ уходит в другую очередь
	require.NoError(t, pub.Publish(ctx, models.NotificationMembershipDue, "other"))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for messages to be processed")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{`"first"`, `"second"`}, received)
}

func TestConsumerMessage_HandlerErrorTriggersNack(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	uri, cleanup := amqpURI(ctx, t)
	defer cleanup()

	conn, err := Connect(ctx, uri, 5, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	queueName := "nack-test"
	_, err = ch.QueueDeclare(queueName, false, false, false, false, nil)
	require.NoError(t, err)

	consumerCtx, stop := context.WithCancel(ctx)
	attempts := make(chan struct{}, 10)
	handler := func(context.Context, []byte) error {
		attempts <- struct{}{}
		return fmt.Errorf("fail")
	}
	require.NoError(t, ConsumerMessage(consumerCtx, sl.NewDiscard(), ch, queueName, handler))

	require.NoError(t, ch.Publish("", queueName, false, false, amqp.Publishing{
		ContentType: "text/plain",
		Body:        []byte("bad"),
	}))

	for range 2 {
		select {
		case <-attempts:
		case <-time.After(10 * time.Second):
			t.Fatal("message was not redelivered after nack")
		}
	}
	stop()
}
