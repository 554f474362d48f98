package adapter

import "github.com/nhle/monthcal/internal/model"

// Events normalizes an event listing, skipping malformed records.
func Events(raw any) model.Page[model.Event] {
	return normalizePage(raw, Event)
}

// Tasks normalizes a task listing, skipping malformed records.
func Tasks(raw any) model.Page[model.Task] {
	return normalizePage(raw, Task)
}

// Calendars normalizes a calendar listing, skipping malformed records.
func Calendars(raw any) model.Page[model.Calendar] {
	return normalizePage(raw, Calendar)
}

// extractContent accepts a bare array, or an object carrying the records
// under one of pageContentKeys. Anything else is an empty listing.
func extractContent(raw any) []any {
	if items, ok := raw.([]any); ok {
		return items
	}
	rec, ok := asRecord(raw)
	if !ok {
		return nil
	}
	for _, k := range pageContentKeys {
		if items, ok := rec[k].([]any); ok {
			return items
		}
	}
	return nil
}

func normalizePage[T any](raw any, normalize func(any) (T, error)) model.Page[T] {
	items := extractContent(raw)

	page := model.Page[T]{Content: make([]T, 0, len(items))}
	for _, item := range items {
		v, err := normalize(item)
		if err != nil {
			page.Skipped++
			continue
		}
		page.Content = append(page.Content, v)
	}

	if rec, ok := asRecord(raw); ok {
		page.TotalElements = rec.number(pageTotalElements)
		page.TotalPages = rec.number(pageTotalPages)
		page.Number = rec.number(pageNumber)
		page.Size = rec.number(pageSize)
	}
	return page
}
