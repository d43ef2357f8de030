package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindcare-bot/internal/domain"
	"mindcare-bot/internal/repository"
)

var (
	ErrResourceServiceNotConfigured = errors.New("resource service not configured")
	ErrResourceInvalidInput         = errors.New("resource invalid input")
)

// ResourceDirectory agrupa los recursos para mostrarlos.
type ResourceDirectory struct {
	Emergency []domain.SupportResource `json:"emergency"`
	General   []domain.SupportResource `json:"general"`
}

// SeedReport resume una carga de recursos.
type SeedReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ResourceService expone el directorio de recursos de apoyo.
type ResourceService struct {
	repo   repository.ResourceRepository
	logger *zap.Logger
}

func NewResourceService(repo repository.ResourceRepository, logger *zap.Logger) *ResourceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService{repo: repo, logger: logger}
}

func (s *ResourceService) Directory(ctx context.Context) (ResourceDirectory, error) {
	if s == nil || s.repo == nil {
		return ResourceDirectory{}, ErrResourceServiceNotConfigured
	}
	all, err := s.repo.List(ctx, repository.ResourceFilter{})
	if err != nil {
		return ResourceDirectory{}, fmt.Errorf("list resources: %w", err)
	}
	dir := ResourceDirectory{
		Emergency: []domain.SupportResource{},
		General:   []domain.SupportResource{},
	}
	for _, r := range all {
		if r.IsEmergency {
			dir.Emergency = append(dir.Emergency, r)
		} else {
			dir.General = append(dir.General, r)
		}
	}
	return dir, nil
}

// Emergency devuelve los recursos de emergencia que acompañan una respuesta de crisis.
func (s *ResourceService) Emergency(ctx context.Context) ([]domain.SupportResource, error) {
	if s == nil || s.repo == nil {
		return nil, ErrResourceServiceNotConfigured
	}
	yes := true
	res, err := s.repo.List(ctx, repository.ResourceFilter{Emergency: &yes})
	if err != nil {
		return nil, fmt.Errorf("list emergency resources: %w", err)
	}
	return res, nil
}

// Seed carga los recursos indicados de forma idempotente por titulo.
func (s *ResourceService) Seed(ctx context.Context, resources []domain.SupportResource) (SeedReport, error) {
	if s == nil || s.repo == nil {
		return SeedReport{}, ErrResourceServiceNotConfigured
	}
	var report SeedReport
	for _, r := range resources {
		r.Title = strings.TrimSpace(r.Title)
		if r.Title == "" || strings.TrimSpace(r.Category) == "" {
			return report, fmt.Errorf("%w: title and category are required", ErrResourceInvalidInput)
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
		created, err := s.repo.UpsertByTitle(ctx, r)
		if err != nil {
			return report, fmt.Errorf("upsert resource %q: %w", r.Title, err)
		}
		if created {
			report.Created++
			s.logger.Info("resource created", zap.String("title", r.Title))
		} else {
			report.Updated++
		}
	}
	return report, nil
}

// DefaultResources es el directorio inicial de lineas de ayuda.
func DefaultResources() []domain.SupportResource {
	return []domain.SupportResource{
		{
			Title:       "National Suicide Prevention Lifeline",
			Description: "24/7 crisis support for people in suicidal crisis or emotional distress.",
			PhoneNumber: "988",
			URL:         "https://suicidepreventionlifeline.org",
			Category:    "crisis",
			IsEmergency: true,
		},
		{
			Title:       "Crisis Text Line",
			Description: "Free, confidential support via text message, available 24/7.",
			PhoneNumber: "741741",
			URL:         "https://www.crisistextline.org",
			Category:    "crisis",
			IsEmergency: true,
		},
		{
			Title:       "SAMHSA National Helpline",
			Description: "Treatment referral and information service for mental health and substance abuse.",
			PhoneNumber: "1-800-662-4357",
			URL:         "https://www.samhsa.gov/find-help/national-helpline",
			Category:    "treatment",
		},
		{
			Title:       "NAMI HelpLine",
			Description: "Information, resource referrals and support for people with mental health conditions.",
			PhoneNumber: "1-800-950-6264",
			URL:         "https://www.nami.org/help",
			Category:    "support",
		},
		{
			Title:       "Teen Line",
			Description: "Confidential hotline for teenagers, staffed by trained teen volunteers.",
			PhoneNumber: "1-800-852-8336",
			URL:         "https://teenlineonline.org",
			Category:    "youth",
		},
		{
			Title:       "Veterans Crisis Line",
			Description: "24/7 crisis support specifically for veterans and their families.",
			PhoneNumber: "1-800-273-8255",
			URL:         "https://www.veteranscrisisline.net",
			Category:    "veterans",
			IsEmergency: true,
		},
		{
			Title:       "LGBT National Hotline",
			Description: "Confidential support for the LGBT community.",
			PhoneNumber: "1-888-843-4564",
			URL:         "https://www.lgbthotline.org",
			Category:    "lgbt",
		},
		{
			Title:       "National Domestic Violence Hotline",
			Description: "24/7 support for domestic violence survivors.",
			PhoneNumber: "1-800-799-7233",
			URL:         "https://www.thehotline.org",
			Category:    "domestic_violence",
			IsEmergency: true,
		},
	}
}
