package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/LukasDorner/StreamGate/app/models"
	"github.com/LukasDorner/StreamGate/internal/pkg/money"
)

// ErrUnlinkedCustomer means the processor customer id has no CustomerIdentity
// row. Checkout creation writes that link before payment, so its absence is an
// operational problem; the provider gets a retryable failure.
var ErrUnlinkedCustomer = errors.New("payments: no platform user linked to processor customer")

// PurchaseNotification is the fire-and-forget intent handed to the external
// notification collaborator after a successful commit.
type PurchaseNotification struct {
	UserID       uint
	UserEmail    string
	ContentID    uint
	ContentTitle string
	TotalCents   int64
	Currency     string
}

// Notifier delivers purchase-completed intents. Implementations own their
// failures; nothing here observes or retries them.
type Notifier interface {
	PurchaseCompleted(n PurchaseNotification)
}

// AlertFunc raises an operational alert for platform misconfiguration. The
// default implementation logs; production wires a throttled pager hook.
type AlertFunc func(msg string, err error)

// Service is the purchase ledger: it turns verified webhook events into
// exactly-once purchase rows, revenue splits and access grants, all inside one
// transaction per event.
type Service struct {
	repo     Repository
	notifier Notifier
	alert    AlertFunc
}

// NewService creates a ledger service from an injected repository.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		alert: func(msg string, err error) {
			log.Errorf("OPS ALERT: %s: %v", msg, err)
		},
	}
}

// NewServiceFromDB creates a ledger service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, notifier Notifier) *Service {
	return NewService(NewRepository(db), notifier)
}

// SetAlertFunc replaces the operational alert hook.
func (s *Service) SetAlertFunc(fn AlertFunc) {
	if fn != nil {
		s.alert = fn
	}
}

// PurchaseOutcome reports what processing a verified event did.
type PurchaseOutcome struct {
	Purchase *models.PurchaseRecord
	Grant    *models.ContentAccessGrant
	// Duplicate is true when the event id was already applied or the customer
	// already owns the content; both are acknowledged as success without side
	// effects.
	Duplicate bool
	// Ignored is true for event types this core deliberately does not handle.
	Ignored bool
}

// ProcessEvent applies one verified event. Purchase events run the full
// claim → resolve → record → grant → applied sequence in a single transaction;
// everything else is claimed and immediately marked applied so redeliveries of
// no-op events also dedupe.
func (s *Service) ProcessEvent(ctx context.Context, ev *VerifiedEvent) (*PurchaseOutcome, error) {
	if !ev.IsPurchaseEvent() {
		return s.applyNoOp(ctx, ev)
	}

	payload, err := ParsePurchasePayload(ev.Payload)
	if err != nil {
		// Malformed payloads cannot succeed on retry; record the failure so
		// the event log still has one row per event id.
		if markErr := s.repo.MarkEventFailed(ctx, ev.EventID, ev.EventType, string(ev.RawBody), err.Error()); markErr != nil {
			log.Errorf("failed to record malformed event %s: %v", ev.EventID, markErr)
		}
		return nil, err
	}

	outcome := &PurchaseOutcome{}
	var notification *PurchaseNotification

	txErr := s.repo.Transaction(ctx, func(tx Repository) error {
		claim, err := tx.ClaimEvent(ev.EventID, ev.EventType, string(ev.RawBody))
		if err != nil {
			return err
		}

		content, err := tx.GetContentByUUID(payload.Metadata.ContentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("content %s referenced by event %s not found: %w",
					payload.Metadata.ContentID, ev.EventID, err)
			}
			return err
		}
		if payload.Metadata.OrganizationID == "" && content.OrganizationID != nil {
			log.Warnf("event %s carries no organizationId but content %s belongs to org %d; content wins",
				ev.EventID, content.UUID, *content.OrganizationID)
		}

		identity, err := tx.GetCustomerIdentity(payload.Metadata.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: customer %q", ErrUnlinkedCustomer, payload.Metadata.CustomerID)
			}
			return err
		}

		total, err := money.FromInt64(payload.AmountTotal)
		if err != nil {
			return fmt.Errorf("%w: amount_total %d", ErrMalformedPayload, payload.AmountTotal)
		}

		split, err := ResolveSplit(tx, content.OrganizationID, total)
		if err != nil {
			return err
		}

		activeKey := "1"
		rec := &models.PurchaseRecord{
			CustomerID:           payload.Metadata.CustomerID,
			ContentID:            content.ID,
			UserID:               &identity.UserID,
			OrganizationID:       content.OrganizationID,
			TotalCents:           total.Int64(),
			Currency:             payload.Currency,
			SplitConfigurationID: split.ConfigurationID,
			PlatformFeeCents:     split.Platform.Int64(),
			OrgFeeCents:          split.Organization.Int64(),
			CreatorPayoutCents:   split.Creator.Int64(),
			Status:               models.PurchaseStatusCompleted,
			ActiveKey:            &activeKey,
			ProviderPaymentRef:   payload.PaymentRef,
		}
		if err := tx.CreatePurchase(rec); err != nil {
			return err
		}

		grant := &models.ContentAccessGrant{
			UserID:     identity.UserID,
			ContentID:  content.ID,
			AccessType: models.AccessTypePurchased,
			ExpiresAt:  nil,
		}
		if err := tx.UpsertAccessGrant(grant); err != nil {
			return err
		}

		if err := tx.MarkEventApplied(claim.ID); err != nil {
			return err
		}

		outcome.Purchase = rec
		outcome.Grant = grant
		notification = &PurchaseNotification{
			UserID:       identity.UserID,
			UserEmail:    identity.Email,
			ContentID:    content.ID,
			ContentTitle: content.Title,
			TotalCents:   total.Int64(),
			Currency:     payload.Currency,
		}
		return nil
	})

	switch {
	case txErr == nil:
		if s.notifier != nil && notification != nil {
			// Emission is outside the transaction; its failure never unwinds
			// the purchase.
			go s.notifier.PurchaseCompleted(*notification)
		}
		return outcome, nil

	case errors.Is(txErr, ErrDuplicateEvent):
		return &PurchaseOutcome{Duplicate: true}, nil

	case errors.Is(txErr, ErrPurchaseConflict):
		// Customer already owns the content via a distinct event id; the
		// rollback left no partial state and the provider gets a success.
		log.Infof("event %s: purchase conflict for customer %s, acknowledging as duplicate",
			ev.EventID, payload.Metadata.CustomerID)
		return &PurchaseOutcome{Duplicate: true}, nil

	case IsConfigurationError(txErr) || errors.Is(txErr, ErrUnlinkedCustomer):
		s.alert("purchase processing blocked by platform configuration", txErr)
		if markErr := s.repo.MarkEventFailed(ctx, ev.EventID, ev.EventType, string(ev.RawBody), txErr.Error()); markErr != nil {
			log.Errorf("failed to record failure for event %s: %v", ev.EventID, markErr)
		}
		return nil, txErr

	default:
		return nil, txErr
	}
}

// applyNoOp claims the event and immediately marks it applied. Refund events
// are recognized but deliberately unhandled here; the refund workflow lives in
// a separate service.
func (s *Service) applyNoOp(ctx context.Context, ev *VerifiedEvent) (*PurchaseOutcome, error) {
	if ev.EventType == EventChargeRefunded {
		log.Infof("event %s: refund received for recording only, refund workflow is external", ev.EventID)
	} else {
		log.Infof("event %s: unhandled event type %q, applying as no-op", ev.EventID, ev.EventType)
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		claim, err := tx.ClaimEvent(ev.EventID, ev.EventType, string(ev.RawBody))
		if err != nil {
			return err
		}
		return tx.MarkEventApplied(claim.ID)
	})
	if errors.Is(err, ErrDuplicateEvent) {
		return &PurchaseOutcome{Duplicate: true, Ignored: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &PurchaseOutcome{Ignored: true}, nil
}

// ListPurchases returns a page of a customer's ledger history, newest first.
func (s *Service) ListPurchases(ctx context.Context, providerCustomerID string, offset, limit int) ([]models.PurchaseRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListPurchasesByCustomer(ctx, providerCustomerID, offset, limit)
}
