package redis

import (
	"context"
	"fmt"
)

// DeletePrefix scans for prefix* and deletes the matches in batches.
func (c *Client) DeletePrefix(ctx context.Context, prefix string) error {
	var batch []string
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to delete %s*: %w", prefix, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan %s*: %w", prefix, err)
	}
	if len(batch) > 0 {
		if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete %s*: %w", prefix, err)
		}
	}
	return nil
}
