package repository

import "github.com/SoundInkube/soundinkube-sub000/internal/calendar"

// ListOptions selects one page of a list, newest first. Page starts at 1.
type ListOptions struct {
	Page     int
	PageSize int
}

func (o ListOptions) limitOffset() (int, int) {
	page, size := calendar.NormalizePage(o.Page, o.PageSize)
	return size, calendar.Offset(page, size)
}
