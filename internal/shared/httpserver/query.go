package httpserver

import (
	"strconv"
	"strings"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/pagination"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func invalidQuery(name, rule string) error {
	return apperror.ErrValidation.WithMessage(name + " must be " + rule)
}

// QueryPage reads limit and offset. Absent values take the defaults, out of
// range values are rejected.
func QueryPage(c *fiber.Ctx) (pagination.Params, error) {
	p := pagination.Params{Limit: pagination.DefaultLimit}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > pagination.MaxLimit {
			return p, invalidQuery("limit", "an integer between 1 and "+strconv.Itoa(pagination.MaxLimit))
		}
		p.Limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, invalidQuery("offset", "a non-negative integer")
		}
		p.Offset = n
	}
	return p, nil
}

func QueryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalidQuery(name, "a valid UUID")
	}
	return &id, nil
}

func QueryDecimal(c *fiber.Ctx, name string) (*decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, invalidQuery(name, "a number")
	}
	return &d, nil
}

// QueryTime accepts RFC 3339 timestamps.
func QueryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, invalidQuery(name, "an RFC 3339 date")
	}
	return &t, nil
}

func QueryBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidQuery(name, "a boolean")
	}
	return &b, nil
}

// QueryList collects a repeated parameter, accepting both name=a&name=b and
// name[]=a as well as comma separated values.
func QueryList(c *fiber.Ctx, name string) []string {
	var out []string
	args := c.Context().QueryArgs()
	for _, key := range []string{name, name + "[]"} {
		for _, v := range args.PeekMulti(key) {
			for _, part := range strings.Split(string(v), ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}
