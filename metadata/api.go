package metadata

// This file provides the queries the deck builder runs for each anthem.

import (
	"context"
	"errors"
	"fmt"

	"harpadeck/model"

	"gorm.io/gorm"
)

// GetTitle returns the title of the anthem.
func (s *Store) GetTitle(ctx context.Context, id uint) (string, error) {
	var anthem model.Anthem
	err := s.db.WithContext(ctx).
		Where("idanthem = ?", id).
		Take(&anthem).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("GetTitle: anthem %d: %w", id, ErrAnthemNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("GetTitle: select anthem %d failed: %w", id, err)
	}

	return anthem.Title, nil
}

// GetVerses returns the body stanzas of the anthem in verse order, and its
// chorus ("" if there is none). Numbering markers and trailing newlines are
// stripped from every text.
//
// Should more than one verse be flagged as chorus, the last one wins.
func (s *Store) GetVerses(ctx context.Context, id uint) (stanzas []string, chorus string, err error) {
	var verses []model.Verse
	err = s.db.WithContext(ctx).
		Where("idanthem = ?", id).
		Order("verseorder ASC").
		Find(&verses).Error
	if err != nil {
		return nil, "", fmt.Errorf("GetVerses: select verses of %d failed: %w", id, err)
	}

	for _, v := range verses {
		text := model.StripNumbering(v.Text)
		if v.IsChorus {
			chorus = text
		} else {
			stanzas = append(stanzas, text)
		}
	}

	return stanzas, chorus, nil
}

// GetSong loads the title and verses of an anthem.
func (s *Store) GetSong(ctx context.Context, id uint) (*model.Song, error) {
	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	stanzas, chorus, err := s.GetVerses(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).
		WithField("ID", id).
		WithField("stanzas", len(stanzas)).
		WithField("chorus", chorus != "").
		Debug("GetSong: loaded")

	return &model.Song{
		ID:      id,
		Title:   title,
		Stanzas: stanzas,
		Chorus:  chorus,
	}, nil
}

// ListAnthems returns every anthem ordered by id.
func (s *Store) ListAnthems(ctx context.Context) ([]model.Anthem, error) {
	anthems := make([]model.Anthem, 0)
	err := s.db.WithContext(ctx).
		Order("idanthem ASC").
		Find(&anthems).Error
	if err != nil {
		return nil, fmt.Errorf("ListAnthems: select anthems failed: %w", err)
	}
	return anthems, nil
}
