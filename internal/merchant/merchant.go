package merchant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrNotFound = errors.New("merchant profile not found")

// Profile is the business identity that issues invoices and receives
// payments. Exactly one active profile exists.
type Profile struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	GSTIN       string
	PAN         string
	UPIHandle   string
	BankName    string
	BankAccount string
	IFSCCode    string
	LogoURL     string
	WebsiteURL  string
	UpdatedAt   time.Time
}

//go:generate mockgen -source=merchant.go -destination=repository_mock.go -package=merchant
type Repository interface {
	GetProfile(ctx context.Context) (*Profile, error)
	UpsertProfile(ctx context.Context, p *Profile) error
	SeedProfile(ctx context.Context, p *Profile) error
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type UpdateParams struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	Phone       string `validate:"required"`
	Address     string `validate:"required"`
	GSTIN       string
	PAN         string
	UPIHandle   string `validate:"required"`
	BankName    string
	BankAccount string
	IFSCCode    string
	LogoURL     string `validate:"omitempty,url"`
	WebsiteURL  string `validate:"omitempty,url"`
}

// Current returns the active profile.
func (s *Service) Current(ctx context.Context) (*Profile, error) {
	return s.repo.GetProfile(ctx)
}

// Update replaces the active profile.
func (s *Service) Update(ctx context.Context, params UpdateParams) (*Profile, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validating profile: %w", err)
	}

	p := &Profile{
		Name:        params.Name,
		Email:       params.Email,
		Phone:       params.Phone,
		Address:     params.Address,
		GSTIN:       params.GSTIN,
		PAN:         params.PAN,
		UPIHandle:   params.UPIHandle,
		BankName:    params.BankName,
		BankAccount: params.BankAccount,
		IFSCCode:    params.IFSCCode,
		LogoURL:     params.LogoURL,
		WebsiteURL:  params.WebsiteURL,
	}

	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	return p, nil
}

// Seed inserts the default profile if none exists yet. Called once at startup.
func (s *Service) Seed(ctx context.Context, p *Profile) error {
	return s.repo.SeedProfile(ctx, p)
}
