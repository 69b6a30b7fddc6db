package memory

import (
	"sort"
	"time"

	"github.com/averoza/stockroom/internal/movement"
	"github.com/averoza/stockroom/internal/requisition"
)

type RequisitionRepository struct {
	store *Store
}

func NewRequisitionRepository(store *Store) requisition.Repository {
	return &RequisitionRepository{store: store}
}

func (r *RequisitionRepository) Create(req *requisition.Requisition) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRequisitionID++
	req.ID = s.nextRequisitionID
	now := time.Now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
		req.UpdatedAt = now
	}
	s.requisitions[req.ID] = *req
	return nil
}

func (r *RequisitionRepository) GetByID(id int64) (*requisition.Requisition, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requisitions[id]
	if !ok {
		return nil, requisition.ErrRequisitionNotFound
	}
	return &req, nil
}

func (r *RequisitionRepository) ListAll() ([]*requisition.Detail, error) {
	return r.list(nil)
}

func (r *RequisitionRepository) ListForEmployee(employeeID int64) ([]*requisition.Detail, error) {
	return r.list(&employeeID)
}

func (r *RequisitionRepository) list(employeeID *int64) ([]*requisition.Detail, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*requisition.Detail
	for _, req := range s.requisitions {
		if employeeID != nil && req.EmployeeID != *employeeID {
			continue
		}
		out = append(out, s.detailFor(req))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// detailFor joins the summaries the listing carries. Callers hold the lock.
func (s *Store) detailFor(req requisition.Requisition) *requisition.Detail {
	d := &requisition.Detail{Requisition: req}
	if m, ok := s.materials[req.MaterialID]; ok {
		d.Material = requisition.MaterialSummary{
			ID:   m.ID,
			Name: m.Name,
			Code: m.Code,
			Unit: m.Unit,
		}
	}
	if u, ok := s.users[req.CreatedByID]; ok {
		d.CreatedBy = requisition.UserSummary{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		}
	}
	return d
}

// Sign flips PENDING to SIGNED, appends the outbound movement and decrements
// stock under a single lock acquisition, mirroring the relational
// transaction.
func (r *RequisitionRepository) Sign(id int64, meta requisition.SignMeta) (*requisition.Requisition, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requisitions[id]
	if !ok {
		return nil, requisition.ErrRequisitionNotFound
	}
	switch req.Status {
	case requisition.StatusSigned:
		return nil, requisition.ErrAlreadySigned
	case requisition.StatusCancelled:
		return nil, requisition.ErrAlreadyCancelled
	}

	signedAt := meta.SignedAt
	req.Status = requisition.StatusSigned
	req.SignedAt = &signedAt
	req.SignedByDevice = meta.Device
	req.SignedByIP = meta.IP
	req.UpdatedAt = signedAt
	s.requisitions[id] = req

	note := requisition.SignMovementNote(&req)
	s.nextMovementID++
	s.movements = append(s.movements, movement.StockMovement{
		ID:            s.nextMovementID,
		MaterialID:    req.MaterialID,
		Type:          movement.TypeOutbound,
		Quantity:      req.Quantity,
		Note:          &note,
		UserID:        req.EmployeeID,
		RequisitionID: &req.ID,
		CreatedAt:     signedAt,
	})
	s.applyStockDelta(req.MaterialID, -req.Quantity)

	signed := req
	return &signed, nil
}

func (r *RequisitionRepository) Cancel(id int64) (*requisition.Requisition, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requisitions[id]
	if !ok {
		return nil, requisition.ErrRequisitionNotFound
	}
	switch req.Status {
	case requisition.StatusSigned:
		return nil, requisition.ErrAlreadySigned
	case requisition.StatusCancelled:
		return nil, requisition.ErrAlreadyCancelled
	}

	req.Status = requisition.StatusCancelled
	req.UpdatedAt = time.Now()
	s.requisitions[id] = req

	cancelled := req
	return &cancelled, nil
}

func (r *RequisitionRepository) CountCreatedBetween(from, to *time.Time) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, req := range s.requisitions {
		if inRange(req.CreatedAt, from, to) {
			count++
		}
	}
	return count, nil
}
