package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	saramamocks "github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudguard/config"
	"fraudguard/internal/models"
)

var testKafkaConfig = config.KafkaConfig{
	TransactionTopic: "fraudguard-transactions",
	FraudAlertTopic:  "fraudguard-fraud-alerts",
	AuditTopic:       "fraudguard-audit-log",
}

func TestProducerConfigIsIdempotent(t *testing.T) {
	c := producerConfig("fraudguard-api")

	assert.True(t, c.Producer.Idempotent)
	assert.Equal(t, sarama.WaitForAll, c.Producer.RequiredAcks)
	assert.Equal(t, 3, c.Producer.Retry.Max)
	assert.Equal(t, 1, c.Net.MaxOpenRequests)
	assert.Equal(t, "fraudguard-api", c.ClientID)
	require.NoError(t, c.Validate())
}

func TestPublishTransaction(t *testing.T) {
	mp := saramamocks.NewSyncProducer(t, producerConfig(""))
	p := newProducer(mp, testKafkaConfig)

	mp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "fraudguard-transactions" {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "42" {
			return errors.New("wrong key " + string(key))
		}
		return nil
	})

	event := NewEvent(models.EventTransactionCreated, "42", models.TransactionEventData{TransactionID: 42})
	require.NoError(t, p.PublishTransaction(context.Background(), event))
	require.NoError(t, p.Close())
}

func TestPublishFraudAlert_Envelope(t *testing.T) {
	mp := saramamocks.NewSyncProducer(t, producerConfig(""))
	p := newProducer(mp, testKafkaConfig)

	mp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var envelope map[string]interface{}
		if err := json.Unmarshal(val, &envelope); err != nil {
			return err
		}
		if envelope["event_type"] != models.EventFraudDetected {
			return errors.New("unexpected event type")
		}
		if _, ok := envelope["event_id"]; !ok {
			return errors.New("missing event_id")
		}
		return nil
	})

	event := NewEvent(models.EventFraudDetected, "7", models.FraudAlertEventData{AlertID: 1, TransactionID: 7, RiskScore: 0.75})
	require.NoError(t, p.PublishFraudAlert(context.Background(), event))
	require.NoError(t, p.Close())
}

func TestPublishAudit_Error(t *testing.T) {
	mp := saramamocks.NewSyncProducer(t, producerConfig(""))
	p := newProducer(mp, testKafkaConfig)

	mp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := p.PublishAudit(context.Background(), NewEvent(models.EventUserDeleted, "", models.AuditEventData{Entity: "user", EntityID: 3}))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestPublish_CancelledContext(t *testing.T) {
	mp := saramamocks.NewSyncProducer(t, producerConfig(""))
	p := newProducer(mp, testKafkaConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishTransaction(ctx, NewEvent(models.EventTransactionCreated, "1", nil)), context.Canceled)
	require.NoError(t, p.Close())
}

func TestNewPublisher_Disabled(t *testing.T) {
	p, err := NewPublisher(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.PublishTransaction(context.Background(), NewEvent("x", "", nil)))
	assert.NoError(t, p.Close())
}

func TestConsumerHandler_DecodesEvents(t *testing.T) {
	var got []*models.BusEvent
	h := &consumerGroupHandler{handler: func(e *models.BusEvent) error {
		got = append(got, e)
		return nil
	}}

	raw, err := json.Marshal(NewEvent(models.EventFraudDetected, "", map[string]interface{}{"alert_id": 5}))
	require.NoError(t, err)

	h.handle(&sarama.ConsumerMessage{Topic: "fraudguard-fraud-alerts", Key: []byte("9"), Value: raw})
	h.handle(&sarama.ConsumerMessage{Topic: "fraudguard-fraud-alerts", Value: []byte("not json")})

	require.Len(t, got, 1)
	assert.Equal(t, models.EventFraudDetected, got[0].EventType)
	assert.Equal(t, "9", got[0].Key)
}
