package scheduler

import (
	"sort"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/models"
)

type interval struct {
	start time.Time
	end   time.Time
}

// availability - занятые интервалы каждого техника за день, отсортированные по началу
type availability map[string][]interval

// buildAvailability собирает занятость техников из событий календаря, пересекающихся с [dayStart, dayEnd)
func buildAvailability(technicians []*models.Technician, events []models.CalendarEvent, dayStart, dayEnd time.Time) availability {
	busy := make(availability, len(technicians))
	for _, t := range technicians {
		busy[t.ID] = nil
	}
	for _, ev := range events {
		slots, ok := busy[ev.TechnicianID]
		if !ok || !ev.Overlaps(dayStart, dayEnd) {
			continue
		}
		busy[ev.TechnicianID] = append(slots, interval{start: ev.From, end: ev.To})
	}
	for id := range busy {
		sortIntervals(busy[id])
	}
	return busy
}

// earliestStart ищет самый ранний старт не раньше from, при котором [start, start+d) не пересекает занятость
func (a availability) earliestStart(technicianID string, from time.Time, d time.Duration) time.Time {
	start := from
	for _, slot := range a[technicianID] {
		if !start.Add(d).After(slot.start) {
			break
		}
		if slot.end.After(start) {
			start = slot.end
		}
	}
	return start
}

// book добавляет интервал, чтобы следующие инциденты этого прогона его видели
func (a availability) book(technicianID string, start, end time.Time) {
	a[technicianID] = append(a[technicianID], interval{start: start, end: end})
	sortIntervals(a[technicianID])
}

func sortIntervals(slots []interval) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].start.Equal(slots[j].start) {
			return slots[i].end.Before(slots[j].end)
		}
		return slots[i].start.Before(slots[j].start)
	})
}
