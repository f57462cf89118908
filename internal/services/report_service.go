package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/you/aarogyam/domain"
)

const recentReportLimit = 5

// ReportServiceImpl implements domain.ReportService
type ReportServiceImpl struct {
	repo       domain.ReportRepository
	identities domain.IdentityRegistry
	signer     domain.AttachmentSigner
	now        func() time.Time
}

// NewReportService creates a report service. signer may be nil, in which
// case attachment keys are returned as stored.
func NewReportService(repo domain.ReportRepository, identities domain.IdentityRegistry, signer domain.AttachmentSigner) domain.ReportService {
	return &ReportServiceImpl{
		repo:       repo,
		identities: identities,
		signer:     signer,
		now:        time.Now,
	}
}

func (s *ReportServiceImpl) Create(ctx context.Context, userID uint, in domain.ReportInput) (*domain.MedicalReport, error) {
	if !domain.ValidReportCategory(in.Category) {
		return nil, domain.Invalid("Invalid report type %q", in.Category)
	}
	if len(in.Results) > 0 && !json.Valid(in.Results) {
		return nil, domain.Invalid("Results must be valid JSON")
	}

	date := s.now().UTC().Truncate(24 * time.Hour)
	if strings.TrimSpace(in.Date) != "" {
		d, err := parseDate(in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}

	r := &domain.MedicalReport{
		UserID:      userID,
		Category:    in.Category,
		Date:        date,
		Results:     in.Results,
		Attachments: in.Attachments,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return s.signed(ctx, r)
}

// CreateFor creates a report on behalf of an existing identity
func (s *ReportServiceImpl) CreateFor(ctx context.Context, userID uint, in domain.ReportInput) (*domain.MedicalReport, error) {
	if _, err := s.identities.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, err
	}
	return s.Create(ctx, userID, in)
}

func (s *ReportServiceImpl) ListMine(ctx context.Context, userID uint) ([]*domain.MedicalReport, error) {
	reports, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.signedAll(ctx, reports)
}

func (s *ReportServiceImpl) GetMine(ctx context.Context, userID, id uint) (*domain.MedicalReport, error) {
	r, err := s.findMine(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.signed(ctx, r)
}

func (s *ReportServiceImpl) UpdateMine(ctx context.Context, userID, id uint, patch domain.ReportPatch) (*domain.MedicalReport, error) {
	r, err := s.findMine(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, r, patch)
}

func (s *ReportServiceImpl) DeleteMine(ctx context.Context, userID, id uint) error {
	if _, err := s.findMine(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Stats summarizes an identity's reports by category and by month
func (s *ReportServiceImpl) Stats(ctx context.Context, userID uint) (*domain.ReportStats, error) {
	reports, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &domain.ReportStats{
		TotalReports: len(reports),
		ByType:       map[string]int{},
		ByMonth:      map[string]int{},
	}
	for _, r := range reports {
		stats.ByType[r.Category]++
		stats.ByMonth[r.Date.Format("Jan 2006")]++
	}

	sorted := make([]*domain.MedicalReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })
	if len(sorted) > recentReportLimit {
		sorted = sorted[:recentReportLimit]
	}
	if stats.RecentReports, err = s.signedAll(ctx, sorted); err != nil {
		return nil, err
	}
	return stats, nil
}

// Abnormalities lists out-of-range results for a report. No reference ranges
// are configured yet, so the list is always empty.
func (s *ReportServiceImpl) Abnormalities(ctx context.Context, userID, id uint) ([]map[string]any, error) {
	if _, err := s.findMine(ctx, userID, id); err != nil {
		return nil, err
	}
	return []map[string]any{}, nil
}

func (s *ReportServiceImpl) ListAll(ctx context.Context) ([]*domain.MedicalReport, error) {
	reports, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.signedAll(ctx, reports)
}

func (s *ReportServiceImpl) Get(ctx context.Context, id uint) (*domain.MedicalReport, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.signed(ctx, r)
}

func (s *ReportServiceImpl) Update(ctx context.Context, id uint, patch domain.ReportPatch) (*domain.MedicalReport, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, r, patch)
}

func (s *ReportServiceImpl) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *ReportServiceImpl) findMine(ctx context.Context, userID, id uint) (*domain.MedicalReport, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, domain.NotFound("report not found")
	}
	return r, nil
}

func (s *ReportServiceImpl) apply(ctx context.Context, r *domain.MedicalReport, patch domain.ReportPatch) (*domain.MedicalReport, error) {
	if patch.Category != nil {
		if !domain.ValidReportCategory(*patch.Category) {
			return nil, domain.Invalid("Invalid report type %q", *patch.Category)
		}
		r.Category = *patch.Category
	}
	if patch.Date != nil {
		d, err := parseDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		r.Date = d
	}
	if len(patch.Results) > 0 {
		if !json.Valid(patch.Results) {
			return nil, domain.Invalid("Results must be valid JSON")
		}
		r.Results = patch.Results
	}
	if patch.Attachments != nil {
		r.Attachments = *patch.Attachments
	}
	if patch.Notes != nil {
		r.Notes = strings.TrimSpace(*patch.Notes)
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	return s.signed(ctx, r)
}

// signed returns a copy whose attachments are client-usable URLs
func (s *ReportServiceImpl) signed(ctx context.Context, r *domain.MedicalReport) (*domain.MedicalReport, error) {
	if s.signer == nil || len(r.Attachments) == 0 {
		return r, nil
	}
	out := *r
	out.Attachments = make([]string, len(r.Attachments))
	for i, key := range r.Attachments {
		url, err := s.signer.Sign(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to sign attachment: %w", err)
		}
		out.Attachments[i] = url
	}
	return &out, nil
}

func (s *ReportServiceImpl) signedAll(ctx context.Context, reports []*domain.MedicalReport) ([]*domain.MedicalReport, error) {
	out := make([]*domain.MedicalReport, 0, len(reports))
	for _, r := range reports {
		sr, err := s.signed(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, nil
}
