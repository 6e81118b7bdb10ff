package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront-orders/internal/domain"
)

const orderNumberPrefix = "ORD-"

// nextOrderNumber derives the next sequential order number from the most
// recently persisted order: parse the numeric suffix, increment, format as
// ORD- plus six zero-padded digits. Starts at ORD-000001 when no order
// exists.
//
// Read-then-format is racy across concurrent submissions; the schema's
// unique constraint on order_number plus the retry in Submit turns a lost
// race into a regenerate-and-retry instead of a duplicate number.
func (s *Service) nextOrderNumber(ctx context.Context) (string, error) {
	last, err := s.orders.LastOrderNumber(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return formatOrderNumber(1), nil
		}
		return "", fmt.Errorf("read last order number: %w", err)
	}
	n, err := parseOrderNumber(last)
	if err != nil {
		return "", err
	}
	return formatOrderNumber(n + 1), nil
}

func parseOrderNumber(number string) (int64, error) {
	suffix, ok := strings.CutPrefix(number, orderNumberPrefix)
	if !ok {
		return 0, fmt.Errorf("malformed order number %q", number)
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("malformed order number %q", number)
	}
	return n, nil
}

func formatOrderNumber(n int64) string {
	return fmt.Sprintf("%s%06d", orderNumberPrefix, n)
}
