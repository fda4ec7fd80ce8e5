package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"buff_autoaccept/internal/domain"
	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/pkg/errcodes"
)

const maxJournalLimit = 500

type OfferJournal struct {
	db *sqlx.DB
}

// NewOfferJournal создаёт журнал решений поверх Postgres.
func NewOfferJournal(db *sqlx.DB) *OfferJournal {
	return &OfferJournal{db: db}
}

// Record добавляет запись о решении по офферу.
func (r *OfferJournal) Record(ctx context.Context, entry entity.JournalEntry) error {
	query := `
		INSERT INTO offer_journal (offer_id, game, goods_id, outcome, state, sale_price, low_price, reason, created_at)
		VALUES (:offer_id, :game, :goods_id, :outcome, :state, :sale_price, :low_price, :reason, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromDomain(entry)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert journal entry")
	}

	return nil
}

// Recent возвращает последние записи, новые первыми.
func (r *OfferJournal) Recent(ctx context.Context, limit int) ([]entity.JournalEntry, error) {
	if limit <= 0 || limit > maxJournalLimit {
		limit = maxJournalLimit
	}

	query := `
		SELECT id, offer_id, game, goods_id, outcome, state, sale_price, low_price, reason, created_at
		FROM offer_journal
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	var schemas []journalSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list journal")
	}

	entries := make([]entity.JournalEntry, 0, len(schemas))
	for i := range schemas {
		entries = append(entries, schemas[i].toDomain())
	}

	return entries, nil
}

// ByOffer возвращает историю решений по одному офферу.
func (r *OfferJournal) ByOffer(ctx context.Context, offerID string) ([]entity.JournalEntry, error) {
	query := `
		SELECT id, offer_id, game, goods_id, outcome, state, sale_price, low_price, reason, created_at
		FROM offer_journal
		WHERE offer_id = $1
		ORDER BY created_at, id`

	var schemas []journalSchema
	if err := r.db.SelectContext(ctx, &schemas, query, offerID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get journal by offer")
	}

	if len(schemas) == 0 {
		return nil, domain.NewError(errcodes.OfferNotFound, "offer not found in journal")
	}

	entries := make([]entity.JournalEntry, 0, len(schemas))
	for i := range schemas {
		entries = append(entries, schemas[i].toDomain())
	}

	return entries, nil
}

// NopJournal используется, когда Postgres не настроен.
type NopJournal struct{}

func (NopJournal) Record(context.Context, entity.JournalEntry) error {
	return nil
}

func (NopJournal) Recent(context.Context, int) ([]entity.JournalEntry, error) {
	return nil, domain.NewError(errcodes.JournalUnavailable, "offer journal is disabled")
}

func (NopJournal) ByOffer(context.Context, string) ([]entity.JournalEntry, error) {
	return nil, domain.NewError(errcodes.JournalUnavailable, "offer journal is disabled")
}
