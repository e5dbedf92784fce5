package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/ledger"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-ledger/pkg/money"
	"github.com/sangkips/pos-ledger/pkg/pagination"
	"github.com/shopspring/decimal"
)

// paramID parses a UUID path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	return pagination.FromQuery(c.Query("page"), c.Query("per_page"))
}

// cents converts a client amount to minor units, recording a field error
// when it is negative or too large.
func cents(verr *ledger.ValidationError, field string, d decimal.Decimal) int64 {
	v, err := money.FromDecimal(d)
	switch {
	case err == nil:
		return v
	case errors.Is(err, money.ErrNegative):
		verr.Add(field, "must not be negative")
	default:
		verr.Add(field, err.Error())
	}
	return 0
}
