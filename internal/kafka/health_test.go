package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	broker := sarama.NewMockBroker(t, 1)
	defer broker.Close()
	broker.SetHandlerByMap(map[string]sarama.MockResponse{
		"MetadataRequest": sarama.NewMockMetadataResponse(t).
			SetBroker(broker.Addr(), broker.BrokerID()),
	})

	assert.NoError(t, Ping([]string{broker.Addr()}, "fraudguard-test"))
}

func TestPing_Unreachable(t *testing.T) {
	assert.Error(t, Ping([]string{"127.0.0.1:1"}, "fraudguard-test"))
}
