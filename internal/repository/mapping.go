package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nikolayk812/cartprice/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const foreignKeyViolation = "23503"

func toMoney(amount decimal.Decimal, isoCode string) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(isoCode)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", isoCode, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}

// notFound maps missing rows and dangling references to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrNotFound)
	}

	return err
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}

func toInt32Ptr(i *int) *int32 {
	if i == nil {
		return nil
	}
	v := int32(*i)
	return &v
}

func fromInt32Ptr(i *int32) *int {
	if i == nil {
		return nil
	}
	v := int(*i)
	return &v
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
