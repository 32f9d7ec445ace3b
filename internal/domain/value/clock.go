package value

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// ClockTime — время суток без даты, с точностью до минуты.
// Нулевое значение означает "не задано".
type ClockTime struct {
	minutes int // минуты с полуночи + 1, 0 == не задано
}

func ParseClockTime(s string) (ClockTime, error) {
	if s == "" {
		return ClockTime{}, nil
	}

	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("time.Parse: %w", err)
	}

	return ClockTime{minutes: t.Hour()*60 + t.Minute() + 1}, nil
}

func (c ClockTime) IsZero() bool {
	return c.minutes == 0
}

func (c ClockTime) Minutes() int {
	return c.minutes - 1
}

func (c ClockTime) String() string {
	if c.IsZero() {
		return ""
	}

	m := c.Minutes()

	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// TimeWindow — интервал времени в пределах одних суток или через полночь.
type TimeWindow struct {
	Start ClockTime
	End   ClockTime
}

// IsSet — окно задано, только если заданы обе границы.
func (w TimeWindow) IsSet() bool {
	return !w.Start.IsZero() && !w.End.IsZero()
}

// normalized возвращает границы в минутах, перенося конец на +24ч,
// если окно проходит через полночь.
func (w TimeWindow) normalized() (start, end int) {
	start = w.Start.Minutes()
	end = w.End.Minutes()

	if end < start {
		end += minutesPerDay
	}

	return start, end
}

// DurationMinutes — длительность окна; 0, если окно не задано.
func (w TimeWindow) DurationMinutes() int {
	if !w.IsSet() {
		return 0
	}

	start, end := w.normalized()

	return end - start
}

// Contains проверяет, что окно inner целиком лежит внутри w
// (обе границы нормализованы по правилу +24ч).
func (w TimeWindow) Contains(inner TimeWindow) bool {
	outerStart, outerEnd := w.normalized()
	innerStart, innerEnd := inner.normalized()

	return innerStart >= outerStart && innerEnd <= outerEnd
}
