package seller

import (
	"context"

	"github.com/hustle/backend/internal/domain/interest"
	"github.com/hustle/backend/internal/domain/listing"
	"github.com/hustle/backend/internal/domain/seller"
)

// Service handles seller profile and reporting operations
type Service struct {
	sellerRepo   seller.Repository
	listingRepo  listing.Repository
	interestRepo interest.Repository
}

// NewService creates a new seller Service
func NewService(sellerRepo seller.Repository, listingRepo listing.Repository, interestRepo interest.Repository) *Service {
	return &Service{
		sellerRepo:   sellerRepo,
		listingRepo:  listingRepo,
		interestRepo: interestRepo,
	}
}

// GetByChannelID returns the seller bound to a channel identifier
func (s *Service) GetByChannelID(ctx context.Context, channelID string) (*SellerResponse, error) {
	account, err := s.sellerRepo.FindByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return toSellerResponse(account), nil
}

// GetBySlug returns the seller owning a catalog slug
func (s *Service) GetBySlug(ctx context.Context, slug string) (*SellerResponse, error) {
	account, err := s.sellerRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return toSellerResponse(account), nil
}

// UpdateProfile updates the seller's display name and activation flag
func (s *Service) UpdateProfile(ctx context.Context, channelID string, req UpdateSellerRequest) (*SellerResponse, error) {
	account, err := s.sellerRepo.FindByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if err := account.UpdateProfile(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			account.Activate()
		} else {
			account.Deactivate()
		}
	}

	if err := s.sellerRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	return toSellerResponse(account), nil
}

// Stats returns listing and interest counts for a seller
func (s *Service) Stats(ctx context.Context, channelID string) (*SellerStatsResponse, error) {
	account, err := s.sellerRepo.FindByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	stats := &SellerStatsResponse{SellerID: account.ID}
	for _, status := range []listing.Status{listing.StatusDraft, listing.StatusActive, listing.StatusRemoved} {
		count, err := s.listingRepo.CountBySellerAndStatus(ctx, account.ID, status)
		if err != nil {
			return nil, err
		}
		switch status {
		case listing.StatusDraft:
			stats.DraftListings = count
		case listing.StatusActive:
			stats.ActiveListings = count
		case listing.StatusRemoved:
			stats.RemovedListings = count
		}
	}

	interests, err := s.interestRepo.CountBySeller(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	stats.InterestSignals = interests

	return stats, nil
}
