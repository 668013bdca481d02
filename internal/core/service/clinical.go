package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

const requisitionFetchLimit = 4

// ClinicalAPI is the slice of the clinic API used for records and requisitions.
type ClinicalAPI interface {
	ports.RecordAPI
	ports.RequisitionAPI
}

// ClinicalService scopes medical records and requisitions to the session
// user and, when enabled, falls back to sample data.
type ClinicalService struct {
	api      ClinicalAPI
	fallback *Fallback
	log      zerolog.Logger
}

func NewClinicalService(api ClinicalAPI, fallback *Fallback, log zerolog.Logger) *ClinicalService {
	return &ClinicalService{api: api, fallback: fallback, log: log}
}

func recordScope(user *domain.User) (domain.MedicalRecordFilter, error) {
	role, _ := user.PrimaryRole()
	switch role {
	case domain.RoleAdmin:
		return domain.MedicalRecordFilter{}, nil
	case domain.RolePatient:
		if id := user.ProfileID(); id != "" {
			return domain.MedicalRecordFilter{PatientID: id}, nil
		}
	case domain.RoleDoctor:
		if id := user.ProfileID(); id != "" {
			return domain.MedicalRecordFilter{DoctorID: id}, nil
		}
	default:
		return domain.MedicalRecordFilter{}, domain.ErrForbidden
	}
	return domain.MedicalRecordFilter{}, domain.ErrNoProfile
}

// Records lists the user's medical records.
func (s *ClinicalService) Records(ctx context.Context, user *domain.User) ([]domain.MedicalRecord, bool, error) {
	f, err := recordScope(user)
	if err != nil {
		return nil, false, err
	}
	list, err := s.api.ListRecords(ctx, f)
	if err != nil {
		if sample, ok := s.fallback.Records(ctx, err); ok {
			return sample, true, nil
		}
		return nil, false, fmt.Errorf("list records: %w", err)
	}
	return list, false, nil
}

// PatientRequisitions lists the requisitions ordered on the user's records.
func (s *ClinicalService) PatientRequisitions(ctx context.Context, user *domain.User) ([]domain.Requisition, bool, error) {
	list, err := s.patientRequisitions(ctx, user)
	if err != nil {
		if sample, ok := s.fallback.Requisitions(ctx, viewRequisitions, err); ok {
			return sample, true, nil
		}
		return nil, false, err
	}
	return list, false, nil
}

func (s *ClinicalService) patientRequisitions(ctx context.Context, user *domain.User) ([]domain.Requisition, error) {
	f, err := recordScope(user)
	if err != nil {
		return nil, err
	}
	records, err := s.api.ListRecords(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	var (
		mu  sync.Mutex
		out = make([]domain.Requisition, 0)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(requisitionFetchLimit)
	for _, rec := range records {
		g.Go(func() error {
			reqs, err := s.api.ListRequisitions(gctx, domain.RequisitionFilter{MedicalRecordID: rec.ID})
			if err != nil {
				return fmt.Errorf("requisitions of record %s: %w", rec.ID, err)
			}
			mu.Lock()
			out = append(out, reqs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// CompletedRequisitions lists results filed on the doctor's records.
func (s *ClinicalService) CompletedRequisitions(ctx context.Context, user *domain.User) ([]domain.Requisition, bool, error) {
	list, err := s.completedRequisitions(ctx, user)
	if err != nil {
		if sample, ok := s.fallback.Requisitions(ctx, viewRequisitionResults, err); ok {
			return sample, true, nil
		}
		return nil, false, err
	}
	return list, false, nil
}

func (s *ClinicalService) completedRequisitions(ctx context.Context, user *domain.User) ([]domain.Requisition, error) {
	f, err := recordScope(user)
	if err != nil {
		return nil, err
	}

	var (
		records []domain.MedicalRecord
		reqs    []domain.Requisition
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.api.ListRecords(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		reqs, err = s.api.ListRequisitions(gctx, domain.RequisitionFilter{Status: domain.RequisitionCompleted})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("requisition results: %w", err)
	}

	own := make(map[string]struct{}, len(records))
	for _, r := range records {
		own[r.ID] = struct{}{}
	}
	out := make([]domain.Requisition, 0, len(reqs))
	for _, r := range reqs {
		if _, ok := own[r.MedicalRecordID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
