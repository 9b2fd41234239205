package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"pmdash/internal/chart"
	"pmdash/internal/repository"
	"pmdash/internal/tabular"
)

type UploadResult struct {
	Card     string       `json:"card"`
	Filename string       `json:"filename"`
	Rows     int          `json:"rows"`
	Figure   chart.Figure `json:"figure"`
	Message  string       `json:"message,omitempty"`
}

// EventResult is what a pattern-matched click resolves to: an open or closed
// preview modal, or a download location for the card image.
type EventResult struct {
	Trigger  string `json:"trigger"`
	Modal    bool   `json:"modal"`
	Body     string `json:"body"`
	Download string `json:"download,omitempty"`
}

// CardService drives the fourteen upload cards of the diagrams page.
type CardService interface {
	Cards() []chart.Template
	Upload(ctx context.Context, session, card, contents, filename string) (*UploadResult, error)
	Figure(ctx context.Context, session, card string) (chart.Figure, error)
	Preview(ctx context.Context, session, card string) (string, error)
	Image(ctx context.Context, session, card string, width, height int) ([]byte, error)
	ChartPage(ctx context.Context, session, card string) ([]byte, error)
	Clear(ctx context.Context, session, card string) error
	Dispatch(ctx context.Context, session, propID string) (*EventResult, error)
}

type cardService struct {
	uploads repository.UploadRepository
}

func NewCardService(uploads repository.UploadRepository) CardService {
	return &cardService{uploads: uploads}
}

func (s *cardService) Cards() []chart.Template {
	return chart.Templates()
}

// Upload parses the file and keeps it in the session slot even when the
// card's columns are missing, so the data preview still works. Parse
// failures empty the slot.
func (s *cardService) Upload(ctx context.Context, session, card, contents, filename string) (*UploadResult, error) {
	tpl, err := chart.Lookup(card)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{Card: card, Filename: filename, Figure: chart.Empty()}

	table, err := tabular.ParseUpload(contents, filename)
	if err != nil {
		log.Warn().Err(err).Str("card", card).Str("filename", filename).Msg("cannot parse upload")
		if err := s.uploads.Delete(ctx, session, card); err != nil {
			return nil, fmt.Errorf("clear slot: %w", err)
		}
		result.Message = err.Error()
		return result, nil
	}

	if err := s.uploads.Put(ctx, session, card, table); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	result.Rows = table.Len()
	fig, err := chart.Compose(tpl, table)
	if err != nil {
		log.Warn().Err(err).Str("card", card).Str("filename", filename).Msg("cannot build chart")
		result.Message = err.Error()
		return result, nil
	}
	result.Figure = fig
	return result, nil
}

func (s *cardService) load(ctx context.Context, session, card string) (chart.Template, *tabular.Table, error) {
	tpl, err := chart.Lookup(card)
	if err != nil {
		return tpl, nil, err
	}
	table, err := s.uploads.Get(ctx, session, card)
	if err != nil {
		return tpl, nil, fmt.Errorf("load upload: %w", err)
	}
	return tpl, table, nil
}

func (s *cardService) Figure(ctx context.Context, session, card string) (chart.Figure, error) {
	tpl, table, err := s.load(ctx, session, card)
	if err != nil {
		return chart.Empty(), err
	}
	return chart.Build(tpl, table), nil
}

// Preview renders the uploaded table without all-blank rows and columns.
// An empty slot returns chart.ErrNoData.
func (s *cardService) Preview(ctx context.Context, session, card string) (string, error) {
	_, table, err := s.load(ctx, session, card)
	if err != nil {
		return "", err
	}
	if table == nil {
		return "", chart.ErrNoData
	}
	return table.DropEmpty().HTML()
}

func (s *cardService) Image(ctx context.Context, session, card string, width, height int) ([]byte, error) {
	fig, err := s.Figure(ctx, session, card)
	if err != nil {
		return nil, err
	}
	return chart.RenderPNG(fig, width, height)
}

func (s *cardService) ChartPage(ctx context.Context, session, card string) ([]byte, error) {
	fig, err := s.Figure(ctx, session, card)
	if err != nil {
		return nil, err
	}
	return chart.RenderHTML(fig)
}

func (s *cardService) Clear(ctx context.Context, session, card string) error {
	if _, err := chart.Lookup(card); err != nil {
		return err
	}
	return s.uploads.Delete(ctx, session, card)
}

// Dispatch routes a click by its component id. A preview of an empty slot
// leaves the modal closed.
func (s *cardService) Dispatch(ctx context.Context, session, propID string) (*EventResult, error) {
	id, err := chart.ParseTrigger(propID)
	if err != nil {
		return nil, err
	}

	res := &EventResult{Trigger: id.String()}
	switch id.Kind {
	case chart.KindPreview:
		body, err := s.Preview(ctx, session, id.GraphID)
		if errors.Is(err, chart.ErrNoData) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res.Modal, res.Body = true, body
	case chart.KindDownload:
		fig, err := s.Figure(ctx, session, id.GraphID)
		if err != nil {
			return nil, err
		}
		if !fig.IsEmpty() {
			res.Download = "/api/v1/cards/" + id.GraphID + "/image"
		}
	}
	return res, nil
}
