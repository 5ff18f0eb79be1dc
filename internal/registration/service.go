package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dafiprotocol/gateway/internal/domain"
	"github.com/dafiprotocol/gateway/internal/identity"
	"github.com/dafiprotocol/gateway/internal/ledger"
	"github.com/dafiprotocol/gateway/internal/submission"
)

// KYCService is the slice of the remote KYC service used by registration.
type KYCService interface {
	AddDocument(ctx context.Context, signer ledger.Signer, doc ledger.Document) (string, error)
	VerifyKYC(ctx context.Context, signer ledger.Signer, principal string) error
	GetStatus(ctx context.Context, principal string) (domain.KYCStatus, error)
}

// Service registers participants: it persists the profile and kicks off KYC
// verification. A nil KYC client degrades registration to profile storage
// only; it never blocks it.
type Service struct {
	repo Repository
	kyc  KYCService
}

// NewService creates a registration service.
func NewService(repo Repository, kyc KYCService) *Service {
	if repo == nil {
		panic("registration.NewService: repo is nil")
	}
	return &Service{repo: repo, kyc: kyc}
}

// Register stores the profile for the session principal and requests KYC
// verification. Implements the submission.Registrar contract.
func (s *Service) Register(ctx context.Context, session *identity.Session, input submission.RegistrationInput) (domain.Result, error) {
	profile := domain.Profile{
		Principal:       session.Principal(),
		Role:            input.Role,
		Name:            input.Name,
		Email:           input.Email,
		WalletAddress:   input.WalletAddress,
		Experience:      input.Experience,
		Specialization:  input.Specialization,
		InvestmentGoals: input.InvestmentGoals,
		RiskProfile:     input.RiskProfile,
		KYCStatus:       domain.KYCStatusPending,
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return domain.Result{}, fmt.Errorf("registering %s: %w", profile.Principal, err)
	}

	if s.kyc != nil {
		if err := s.kyc.VerifyKYC(ctx, session, profile.Principal); err != nil {
			var de *ledger.DomainError
			if errors.As(err, &de) {
				return domain.Rejected(de.Message), nil
			}
			// Verification is retried by the KYC worker; registration stands.
			slog.Warn("kyc verification request failed", "principal", profile.Principal, "error", err)
		}
	}

	return domain.Accepted(profile.Principal), nil
}

// SubmitDocument forwards a verification document to the KYC service.
func (s *Service) SubmitDocument(ctx context.Context, session *identity.Session, kind string, content []byte) (domain.Result, error) {
	if s.kyc == nil {
		return domain.Result{}, errors.New("kyc service not configured")
	}

	id, err := s.kyc.AddDocument(ctx, session, ledger.Document{
		Principal: session.Principal(),
		Kind:      kind,
		Content:   content,
	})
	if err != nil {
		var de *ledger.DomainError
		if errors.As(err, &de) {
			return domain.Rejected(de.Message), nil
		}
		return domain.Result{}, err
	}
	return domain.Accepted(id), nil
}

// GetProfile fetches the stored profile for a principal.
func (s *Service) GetProfile(ctx context.Context, principal string) (domain.Profile, error) {
	return s.repo.GetByPrincipal(ctx, principal)
}

// RefreshPendingKYC re-checks verification status for every pending profile
// and records transitions. Called periodically by the KYC worker.
func (s *Service) RefreshPendingKYC(ctx context.Context) error {
	if s.kyc == nil {
		return nil
	}

	pending, err := s.repo.ListByKYCStatus(ctx, domain.KYCStatusPending)
	if err != nil {
		return fmt.Errorf("listing pending profiles: %w", err)
	}

	for _, p := range pending {
		status, err := s.kyc.GetStatus(ctx, p.Principal)
		if err != nil {
			slog.Warn("kyc status check failed", "principal", p.Principal, "error", err)
			continue
		}
		if status == domain.KYCStatusPending || status == "" {
			continue
		}
		if err := s.repo.UpdateKYCStatus(ctx, p.Principal, status); err != nil {
			return fmt.Errorf("recording kyc status for %s: %w", p.Principal, err)
		}
		slog.Info("kyc status updated", "principal", p.Principal, "status", status)
	}
	return nil
}
