package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

type AnalyticsService struct {
	api ports.AnalyticsAPI
	loc *time.Location
	log zerolog.Logger
	now func() time.Time
}

func NewAnalyticsService(api ports.AnalyticsAPI, loc *time.Location, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{api: api, loc: loc, log: log, now: time.Now}
}

// CurrentPeriod is the current month in the clinic time zone.
func (s *AnalyticsService) CurrentPeriod() domain.Period {
	t := s.now().In(s.loc)
	return domain.Period{Month: int(t.Month()), Year: t.Year()}
}

// Report pulls every analytics section in parallel. Sections complete in no
// particular order; a failed section stays empty and is named in Unavailable.
func (s *AnalyticsService) Report(ctx context.Context, p domain.Period) *domain.AnalyticsReport {
	r := &domain.AnalyticsReport{
		Period:                 p,
		TopDoctors:             []domain.TopDoctor{},
		SpecialtyStats:         []domain.SpecialtyStat{},
		AgeDistribution:        []domain.AgeBucket{},
		DoctorCountBySpecialty: []domain.SpecialtyCount{},
		RoleDistribution:       []domain.RoleCount{},
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	section := func(name string, fetch func() error) {
		g.Go(func() error {
			if err := fetch(); err != nil {
				mu.Lock()
				r.Unavailable = append(r.Unavailable, name)
				mu.Unlock()
				s.log.Warn().Err(err).Str("section", name).Msg("analytics section unavailable")
			}
			return nil
		})
	}

	section("topDoctors", func() error {
		v, err := s.api.TopDoctors(ctx, p)
		if err == nil {
			r.TopDoctors = nonNil(v)
		}
		return err
	})
	section("specialtyStats", func() error {
		v, err := s.api.SpecialtyStats(ctx, p)
		if err == nil {
			r.SpecialtyStats = nonNil(v)
		}
		return err
	})
	section("ageDistribution", func() error {
		v, err := s.api.AgeDistribution(ctx)
		if err == nil {
			r.AgeDistribution = nonNil(v)
		}
		return err
	})
	section("doctorCountBySpecialty", func() error {
		v, err := s.api.DoctorCountBySpecialty(ctx)
		if err == nil {
			r.DoctorCountBySpecialty = nonNil(v)
		}
		return err
	})
	section("roleDistribution", func() error {
		v, err := s.api.RoleDistribution(ctx)
		if err == nil {
			r.RoleDistribution = nonNil(v)
		}
		return err
	})

	_ = g.Wait()
	sort.Strings(r.Unavailable)
	return r
}
