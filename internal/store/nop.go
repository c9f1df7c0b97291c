package store

import (
	"context"

	"github.com/amishk599/skillsift/internal/model"
)

// NopStore keeps nothing. Used when no persistent tier is configured, so
// every memory miss goes to the embedding oracle.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Load(context.Context, string) (model.Embedding, bool, error) { return nil, false, nil }
func (s *NopStore) Save(context.Context, string, model.Embedding) error        { return nil }
func (s *NopStore) Close() error                                               { return nil }
