// Package testutil provides in-memory fakes for package tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/dfelipe-rojas/guias-tracker/internal/common"
	"github.com/dfelipe-rojas/guias-tracker/internal/entity"
)

// MemShipmentRepository is an in-memory ShipmentRepository for tests.
type MemShipmentRepository struct {
	mu        sync.Mutex
	shipments map[string]*entity.Shipment
}

func NewMemShipmentRepository() *MemShipmentRepository {
	return &MemShipmentRepository{shipments: make(map[string]*entity.Shipment)}
}

func (m *MemShipmentRepository) SaveBatch(_ context.Context, shipments []*entity.Shipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range shipments {
		clone := *s
		m.shipments[s.ID] = &clone
	}
	return nil
}

func (m *MemShipmentRepository) ListAll(_ context.Context) ([]*entity.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Shipment, 0, len(m.shipments))
	for _, s := range m.shipments {
		clone := *s
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemShipmentRepository) Get(_ context.Context, id string) (*entity.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shipments[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *MemShipmentRepository) UpdatePhone(_ context.Context, id, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shipments[id]
	if !ok {
		return common.ErrNotFound
	}
	s.Phone = phone
	return nil
}

func (m *MemShipmentRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shipments[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.shipments, id)
	return nil
}
