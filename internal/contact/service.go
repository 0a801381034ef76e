package contact

import (
	"context"

	"github.com/redmonkez12/storefront-api/internal/email"
	"github.com/redmonkez12/storefront-api/internal/logging"
)

type Notifier interface {
	SendOrder(ctx context.Context, order email.Order) error
	SendContact(ctx context.Context, contact email.Contact) error
}

type Service struct {
	notifier Notifier
	logger   *logging.Logger
}

func NewService(notifier Notifier, logger *logging.Logger) *Service {
	return &Service{notifier: notifier, logger: logger}
}

// SendOrder groups the order items by title and mails the order summary.
func (s *Service) SendOrder(ctx context.Context, req OrderRequest) error {
	order := email.Order{
		Name:    req.Name,
		Surname: req.Surname,
		Phone:   req.Phone,
		Lines:   GroupItems(req.Items),
		Total:   *req.Total,
	}

	if err := s.notifier.SendOrder(ctx, order); err != nil {
		return err
	}

	s.logger.Info("order forwarded", "lines", len(order.Lines), "total", order.Total)
	return nil
}

func (s *Service) SendContact(ctx context.Context, req Request) error {
	err := s.notifier.SendContact(ctx, email.Contact{
		Name:      req.Name,
		Email:     req.Email,
		Localidad: req.Localidad,
		Phone:     req.Phone,
		Empresa:   req.Empresa,
		Actividad: req.Actividad,
		Cotizar:   req.Cotizar,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}

	s.logger.Info("contact request forwarded", "empresa", req.Empresa)
	return nil
}

// GroupItems collapses repeated titles into one line each, keeping the order
// of first appearance. The unit price and description come from the first
// occurrence.
func GroupItems(items []OrderItem) []email.OrderLine {
	index := make(map[string]int, len(items))
	lines := make([]email.OrderLine, 0, len(items))
	prices := make([]float64, 0, len(items))

	for _, item := range items {
		if i, ok := index[item.Title]; ok {
			lines[i].Quantity++
			lines[i].Subtotal = prices[i] * float64(lines[i].Quantity)
			continue
		}
		index[item.Title] = len(lines)
		prices = append(prices, item.Price)
		lines = append(lines, email.OrderLine{
			Title:       item.Title,
			Description: item.Description,
			Quantity:    1,
			Subtotal:    item.Price,
		})
	}
	return lines
}
