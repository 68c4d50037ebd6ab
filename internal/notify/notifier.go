// Package notify turns verified orders into owner and buyer emails.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paynotify/internal/model"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

var (
	ErrOwnerNotConfigured  = errors.New("owner email is not configured")
	ErrMailerNotConfigured = errors.New("mailer is not configured")
)

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	OwnerEmail            string
	From                  string
	SiteName              string
	SendBuyerConfirmation bool
}

// Notification kinds and dispatch results reported to an Observer.
const (
	KindOwner = "owner"
	KindBuyer = "buyer"

	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

type Observer interface {
	ObserveNotification(kind, result string)
}

type Notifier struct {
	cfg      Config
	mailer   Mailer
	logger   logr.Logger
	observer Observer
	now      func() time.Time
	newID    func() string
}

type Option func(*Notifier)

func WithObserver(o Observer) Option {
	return func(n *Notifier) { n.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

func WithIDGenerator(f func() string) Option {
	return func(n *Notifier) { n.newID = f }
}

func New(cfg Config, mailer Mailer, logger logr.Logger, opts ...Option) *Notifier {
	cfg.OwnerEmail = strings.TrimSpace(cfg.OwnerEmail)
	cfg.From = strings.TrimSpace(cfg.From)
	n := &Notifier{
		cfg:    cfg,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify sends the owner notification and, when enabled, the buyer
// confirmation. Only the owner send can fail the call.
func (n *Notifier) Notify(ctx context.Context, order model.OrderNotification) error {
	if n.cfg.OwnerEmail == "" {
		n.observe(KindOwner, ResultFailed)
		return ErrOwnerNotConfigured
	}
	if n.mailer == nil {
		n.observe(KindOwner, ResultFailed)
		return ErrMailerNotConfigured
	}

	id := n.newID()
	owner, err := n.ownerMessage(id, order)
	if err != nil {
		n.observe(KindOwner, ResultFailed)
		return fmt.Errorf("compose owner notification: %w", err)
	}
	if err := n.mailer.Send(ctx, owner); err != nil {
		n.observe(KindOwner, ResultFailed)
		return fmt.Errorf("send owner notification: %w", err)
	}
	n.observe(KindOwner, ResultSent)
	n.logger.Info("owner notified",
		"notification_id", id,
		"provider", order.Provider,
		"event", order.EventName,
		"website_type", order.WebsiteType,
		"amount", order.Amount.String(),
		"currency", order.Currency,
	)

	n.confirmBuyer(ctx, id, order)
	return nil
}

func (n *Notifier) confirmBuyer(ctx context.Context, id string, order model.OrderNotification) {
	if !n.cfg.SendBuyerConfirmation {
		return
	}
	if !order.BuyerEmailValid() {
		n.observe(KindBuyer, ResultSkipped)
		if order.BuyerEmail != "" {
			n.logger.Info("buyer confirmation skipped: email does not look valid", "notification_id", id)
		}
		return
	}
	msg, err := n.buyerMessage(order)
	if err == nil {
		err = n.mailer.Send(ctx, msg)
	}
	if err != nil {
		n.observe(KindBuyer, ResultFailed)
		n.logger.Error(err, "buyer confirmation failed", "notification_id", id, "provider", order.Provider)
		return
	}
	n.observe(KindBuyer, ResultSent)
}

func (n *Notifier) ownerMessage(id string, order model.OrderNotification) (Message, error) {
	envelope, err := order.ToCloudEvent(id, n.now().UTC())
	if err != nil {
		return Message{}, err
	}
	var body bytes.Buffer
	err = ownerTemplate.Execute(&body, ownerView{
		SiteName:     n.cfg.SiteName,
		Order:        order,
		Amount:       order.Amount.String(),
		BuyerEmail:   nonEmpty(order.BuyerEmail, "(none)"),
		EnvelopeID:   envelope.ID(),
		EnvelopeType: envelope.Type(),
		ReceivedAt:   envelope.Time().Format(time.RFC3339),
		Raw:          order.PrettyRaw(),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    n.from(),
		To:      n.cfg.OwnerEmail,
		Subject: OwnerSubject(order),
		HTML:    body.String(),
	}, nil
}

func (n *Notifier) buyerMessage(order model.OrderNotification) (Message, error) {
	var body bytes.Buffer
	err := buyerTemplate.Execute(&body, buyerView{
		SiteName: nonEmpty(n.cfg.SiteName, "our site"),
		Order:    order,
		Amount:   order.Amount.String(),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    n.from(),
		To:      order.BuyerEmail,
		Subject: BuyerSubject(n.cfg.SiteName),
		HTML:    body.String(),
	}, nil
}

func (n *Notifier) from() string {
	return nonEmpty(n.cfg.From, n.cfg.OwnerEmail)
}

func (n *Notifier) observe(kind, result string) {
	if n.observer != nil {
		n.observer.ObserveNotification(kind, result)
	}
}

func OwnerSubject(order model.OrderNotification) string {
	return fmt.Sprintf("New %s order: %s (%s %s)", order.Provider, order.WebsiteType, order.Amount.String(), order.Currency)
}

func BuyerSubject(siteName string) string {
	if strings.TrimSpace(siteName) == "" {
		return "Thanks for your order"
	}
	return "Thanks for your order at " + strings.TrimSpace(siteName)
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
