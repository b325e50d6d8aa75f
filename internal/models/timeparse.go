package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Форматы, которые присылает веб-клиент: RFC3339 и datetime-local без зоны
var localTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseLocalTime разбирает момент времени; значения без зоны трактуются как местное время,
// значения с зоной переводятся в местное
func ParseLocalTime(value string) (time.Time, error) {
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.In(time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", ErrValidation, value)
}

// ParseDay разбирает календарный день и возвращает местную полночь этого дня.
// Момент с зоной (например toISOString() местной полуночи) относится к местному дню, в который он попадает.
func ParseDay(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, value, time.Local); err == nil {
		return t, nil
	}
	t, err := ParseLocalTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, value)
	}
	return StartOfDay(t.In(time.Local)), nil
}

// StartOfDay возвращает полночь того же дня в зоне t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Date - календарная дата без времени, сериализуется как "2006-01-02"
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: StartOfDay(t)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("fechaLimite must be a string: %w", err)
	}
	t, err := ParseDay(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
