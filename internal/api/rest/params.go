package rest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fraudguard/internal/models"
)

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}

func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}

// queryTime accepts RFC 3339 or a bare date. A bare end date covers the whole day.
func queryTime(c *gin.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func paging(c *gin.Context) (int, int, error) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return 0, 0, err
	}
	size, err := queryInt(c, "page_size", 0)
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

// transactionFilter reads the list query parameters shared by every transaction list.
func transactionFilter(c *gin.Context) (models.TransactionFilter, error) {
	var (
		f   models.TransactionFilter
		err error
	)
	if f.Page, f.PageSize, err = paging(c); err != nil {
		return f, err
	}
	if f.IsFraud, err = queryBool(c, "is_fraud"); err != nil {
		return f, err
	}
	if f.MinAmount, err = queryDecimal(c, "min_amount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = queryDecimal(c, "max_amount"); err != nil {
		return f, err
	}
	if f.StartDate, err = queryTime(c, "start_date", false); err != nil {
		return f, err
	}
	if f.EndDate, err = queryTime(c, "end_date", true); err != nil {
		return f, err
	}
	if raw := c.Query("account_id"); raw != "" {
		if f.AccountID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return f, fmt.Errorf("invalid account_id: %q", raw)
		}
	}
	if raw := c.Query("user_id"); raw != "" {
		if f.UserID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return f, fmt.Errorf("invalid user_id: %q", raw)
		}
	}
	f.Country = strings.ToUpper(strings.TrimSpace(c.Query("country")))
	f.Type = strings.TrimSpace(c.Query("type"))
	return f, nil
}
