package handler

import (
	"context"

	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/internal/worker"
)

type OfferAcceptor interface {
	Status() worker.Status
	IgnoredOffers() []worker.IgnoredOffer
}

type OfferJournal interface {
	Recent(ctx context.Context, limit int) ([]entity.JournalEntry, error)
	ByOffer(ctx context.Context, offerID string) ([]entity.JournalEntry, error)
}

type Handler struct {
	acceptor OfferAcceptor
	journal  OfferJournal
}

func New(acceptor OfferAcceptor, journal OfferJournal) *Handler {
	return &Handler{
		acceptor: acceptor,
		journal:  journal,
	}
}
