package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/dmitrijs2005/stylish/internal/server/config"
	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/dmitrijs2005/stylish/internal/server/notify"
	"github.com/dmitrijs2005/stylish/internal/server/repositories/repomanager"
)

const (
	totalsTolerance = 0.005
	notifyTimeout   = 5 * time.Second
)

// LineItemInput is one requested product. Quantity and price are pointers
// so a missing field is distinguishable from zero.
type LineItemInput struct {
	ProductID    string
	ProductName  string
	Quantity     *float64
	PricePerItem *float64
}

type RecordPurchaseInput struct {
	Products        []LineItemInput
	TotalAmount     *float64
	ShippingAddress *string
}

// LineItemError reports which line item was rejected and why.
type LineItemError struct {
	Index  int
	Reason string
}

func (e *LineItemError) Error() string {
	return fmt.Sprintf("line item %d: %s", e.Index, e.Reason)
}

func (e *LineItemError) Unwrap() error {
	return common.ErrInvalidLineItem
}

type PurchaseService struct {
	repomanager  repomanager.RepositoryManager
	notifier     notify.Notifier
	storeTimeout time.Duration
	strictTotals bool
	sender       string
	log          logging.Logger
}

func NewPurchaseService(m repomanager.RepositoryManager, notifier notify.Notifier, cfg *config.Config, log logging.Logger) *PurchaseService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &PurchaseService{
		repomanager:  m,
		notifier:     notifier,
		storeTimeout: cfg.StoreTimeout,
		strictTotals: cfg.StrictTotals,
		sender:       cfg.SenderEmail,
		log:          log.With("component", "purchase_service"),
	}
}

// Record validates and persists a purchase owned by identity, then emits a
// purchase event. Only the persist step can fail the call once validation
// passes.
func (s *PurchaseService) Record(ctx context.Context, identity models.Identity, in RecordPurchaseInput) (*models.Purchase, error) {
	if identity.ID == "" {
		return nil, common.ErrInvalidToken
	}

	items, total, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	address, err := s.resolveAddress(ctx, identity, in.ShippingAddress)
	if err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		UserID:          identity.ID,
		Products:        items,
		TotalAmount:     total,
		ShippingAddress: address,
		Status:          models.PurchaseStatusPending,
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	saved, err := s.repomanager.Purchases().Create(storeCtx, purchase)
	if err != nil {
		s.log.Error(ctx, "purchase not recorded", "user_id", identity.ID, "error", err)
		return nil, storeError(err)
	}

	s.log.Info(ctx, "purchase recorded", "purchase_id", saved.ID, "user_id", identity.ID, "items", len(saved.Products))
	s.notify(ctx, saved, identity)
	return saved, nil
}

// History lists the identity's purchases newest first. The slice is never nil.
func (s *PurchaseService) History(ctx context.Context, identity models.Identity) ([]models.Purchase, error) {
	if identity.ID == "" {
		return nil, common.ErrInvalidToken
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	list, err := s.repomanager.Purchases().ListByUser(storeCtx, identity.ID)
	if err != nil {
		return nil, storeError(err)
	}
	if list == nil {
		list = []models.Purchase{}
	}
	return list, nil
}

func (s *PurchaseService) validate(in RecordPurchaseInput) ([]models.LineItem, float64, error) {
	if len(in.Products) == 0 {
		return nil, 0, common.ErrEmptyCart
	}

	if in.TotalAmount == nil || !finite(*in.TotalAmount) || *in.TotalAmount <= 0 {
		return nil, 0, common.ErrInvalidAmount
	}
	total := *in.TotalAmount

	items := make([]models.LineItem, 0, len(in.Products))
	var sum float64
	for i, p := range in.Products {
		item, err := validateLineItem(i, p)
		if err != nil {
			return nil, 0, err
		}
		sum += float64(item.Quantity) * item.PricePerItem
		items = append(items, item)
	}

	if s.strictTotals && math.Abs(sum-total) > totalsTolerance {
		return nil, 0, fmt.Errorf("%w: items sum to %.2f, total is %.2f", common.ErrAmountMismatch, sum, total)
	}

	return items, total, nil
}

func validateLineItem(i int, p LineItemInput) (models.LineItem, error) {
	id := strings.TrimSpace(p.ProductID)
	name := strings.TrimSpace(p.ProductName)

	switch {
	case id == "":
		return models.LineItem{}, &LineItemError{Index: i, Reason: "productId is required"}
	case name == "":
		return models.LineItem{}, &LineItemError{Index: i, Reason: "productName is required"}
	case p.Quantity == nil:
		return models.LineItem{}, &LineItemError{Index: i, Reason: "quantity is required"}
	case !finite(*p.Quantity) || *p.Quantity != math.Trunc(*p.Quantity) || *p.Quantity < 1 || *p.Quantity > math.MaxInt32:
		return models.LineItem{}, &LineItemError{Index: i, Reason: "quantity must be a whole number of at least 1"}
	case p.PricePerItem == nil:
		return models.LineItem{}, &LineItemError{Index: i, Reason: "pricePerItem is required"}
	case !finite(*p.PricePerItem) || *p.PricePerItem < 0:
		return models.LineItem{}, &LineItemError{Index: i, Reason: "pricePerItem must be a non-negative number"}
	}

	return models.LineItem{
		ProductID:    id,
		ProductName:  name,
		Quantity:     int(*p.Quantity),
		PricePerItem: *p.PricePerItem,
	}, nil
}

// resolveAddress prefers the request address, then the profile address.
// No address at all is accepted.
func (s *PurchaseService) resolveAddress(ctx context.Context, identity models.Identity, requested *string) (*string, error) {
	if a := trimmedOrNil(requested); a != nil {
		return a, nil
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repomanager.Users().GetByID(storeCtx, identity.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, storeError(err)
	}
	return trimmedOrNil(user.Address), nil
}

func (s *PurchaseService) notify(ctx context.Context, p *models.Purchase, identity models.Identity) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.PurchaseRecorded(ctx, notify.NewPurchaseEvent(p, identity, s.sender)); err != nil {
		s.log.Warn(ctx, "purchase notification failed", "purchase_id", p.ID, "error", err)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
