package server

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"

	"buff_autoaccept/internal/domain"
	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/internal/worker"
	"buff_autoaccept/pkg/errcodes"
	"buff_autoaccept/pkg/httpx/reply"
	"buff_autoaccept/pkg/lox"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

var offerIDPattern = regexp.MustCompile(`^\d{1,20}$`) //nolint:gochecknoglobals

type offerAcceptor interface {
	Status() worker.Status
	IgnoredOffers() []worker.IgnoredOffer
}

type offerJournal interface {
	Recent(ctx context.Context, limit int) ([]entity.JournalEntry, error)
	ByOffer(ctx context.Context, offerID string) ([]entity.JournalEntry, error)
}

type StatusServer struct {
	acceptor offerAcceptor
	journal  offerJournal
}

func NewStatusServer(acceptor offerAcceptor, journal offerJournal) StatusServer {
	return StatusServer{
		acceptor: acceptor,
		journal:  journal,
	}
}

func (s StatusServer) getV1Status(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTStatus(s.acceptor.Status()))

	return nil
}

func (s StatusServer) getV1IgnoredOffers(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, lox.Map(s.acceptor.IgnoredOffers(), newRESTIgnoredOffer))

	return nil
}

func (s StatusServer) getV1Journal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit := defaultJournalLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxJournalLimit {
			return domain.NewError(errcodes.ValidationError, fmt.Sprintf("limit must be between 1 and %d", maxJournalLimit))
		}

		limit = n
	}

	entries, err := s.journal.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("journal.Recent: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(entries, newRESTJournalEntry))

	return nil
}

func (s StatusServer) getV1JournalOffer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	offerID := chi.URLParam(r, "offerID")
	if !offerIDPattern.MatchString(offerID) {
		return domain.NewError(errcodes.InvalidOfferID, "offer id must be numeric")
	}

	entries, err := s.journal.ByOffer(ctx, offerID)
	if err != nil {
		return fmt.Errorf("journal.ByOffer: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(entries, newRESTJournalEntry))

	return nil
}
