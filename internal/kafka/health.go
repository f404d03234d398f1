package kafka

import (
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// Ping fetches cluster metadata from brokers and reports whether any broker answered.
func Ping(brokers []string, clientID string) error {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Net.DialTimeout = 2 * time.Second
	cfg.Net.ReadTimeout = 2 * time.Second
	cfg.Metadata.Retry.Max = 0

	client, err := sarama.NewClient(brokers, cfg)
	if err != nil {
		return fmt.Errorf("kafka unreachable: %w", err)
	}
	defer client.Close()

	if len(client.Brokers()) == 0 {
		return errors.New("kafka returned no brokers")
	}
	return nil
}
