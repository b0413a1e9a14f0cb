package csvio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mverdeja/footfall/internal/common"
	"github.com/mverdeja/footfall/internal/model"
)

// droppedSampleLimit bounds how many row failures are kept for
// reporting; the rest are only counted.
const droppedSampleLimit = 5

// nativeDateLayouts are tried in order before the slash/dash fallback.
// Ambiguous all-numeric slash forms are deliberately absent: those go
// through the DD/MM-then-MM/DD fallback so precedence stays defined.
var nativeDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a transaction date with a two-tier strategy: native
// layouts first, then a three-part split on "/" or "-" trying
// DD/MM/YYYY before MM/DD/YYYY, accepting the first interpretation that
// is a real calendar date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range nativeDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) == 3 {
		a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
		b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
		y, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
		if errA == nil && errB == nil && errY == nil {
			// DD/MM/YYYY first, then MM/DD/YYYY.
			if t, ok := calendarDate(y, b, a); ok {
				return t, nil
			}
			if t, ok := calendarDate(y, a, b); ok {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %q", raw)
}

// calendarDate builds a date and reports whether the components named a
// real calendar day (time.Date silently normalizes overflow).
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ParseAmount strips currency formatting (everything but digits, "." and
// "-") and converts the remainder to a number.
func ParseAmount(raw string) (float64, error) {
	var cleaned strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			cleaned.WriteRune(r)
		}
	}
	if cleaned.Len() == 0 {
		return 0, fmt.Errorf("no numeric content in %q", raw)
	}
	amount, err := strconv.ParseFloat(cleaned.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("non-finite amount %q", raw)
	}
	return amount, nil
}

// ParseResult is the outcome of parsing one CSV file.
type ParseResult struct {
	Transactions   []model.Transaction
	DroppedSamples []string
	Rows           int
	Dropped        int
}

// Parse reads a whole CSV feed: the first line is the header, every
// following non-blank line a candidate transaction. A bad header fails
// the parse with *common.SchemaError; bad rows are dropped, logged and
// counted but never abort the load.
func Parse(ctx context.Context, r io.Reader) (*ParseResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, &common.SchemaError{Missing: []string{"email", "merchant", "date", "amount"}}
	}

	schema, err := ResolveSchema(TokenizeLine(scanner.Text()))
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	line := 1

	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		result.Rows++

		tx, rowErr := normalizeRow(schema, TokenizeLine(text), line)
		if rowErr != nil {
			result.Dropped++
			if len(result.DroppedSamples) < droppedSampleLimit {
				result.DroppedSamples = append(result.DroppedSamples, rowErr.Error())
			}
			slog.Warn("Dropping invalid row", "line", line, "reason", rowErr.Reason)
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	slog.Info("Parsed CSV feed",
		"rows", result.Rows,
		"transactions", len(result.Transactions),
		"dropped", result.Dropped)
	if len(result.Transactions) > 0 {
		first := result.Transactions[0]
		slog.Debug("Sample transaction",
			"merchant", model.MaskMerchant(first.Merchant),
			"email", model.MaskEmail(first.Email),
			"date", first.Date.Format("2006-01-02"),
			"amount", first.Amount)
	}

	return result, nil
}

func normalizeRow(schema Schema, fields []string, line int) (model.Transaction, *common.RowError) {
	if len(fields) <= schema.maxIndex() {
		return model.Transaction{}, &common.RowError{Line: line, Reason: "too few fields"}
	}

	email := fields[schema.Email]
	merchant := fields[schema.Merchant]
	if email == "" {
		return model.Transaction{}, &common.RowError{Line: line, Reason: "missing email"}
	}
	if merchant == "" {
		return model.Transaction{}, &common.RowError{Line: line, Reason: "missing merchant"}
	}

	date, err := ParseDate(fields[schema.Date])
	if err != nil {
		return model.Transaction{}, &common.RowError{Line: line, Reason: "invalid date", Err: err}
	}

	amount, err := ParseAmount(fields[schema.Amount])
	if err != nil {
		return model.Transaction{}, &common.RowError{Line: line, Reason: "invalid amount", Err: err}
	}

	return model.Transaction{
		ID:       uuid.NewString(),
		Email:    email,
		Merchant: merchant,
		Date:     date,
		Amount:   amount,
	}, nil
}
