package worker

import (
	"context"

	"buff_autoaccept/internal/domain/entity"
)

type nopJournal struct{}

func (nopJournal) Record(context.Context, entity.JournalEntry) error {
	return nil
}
