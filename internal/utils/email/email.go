package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/hearthledger/budget-service/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendObligationReminder sends an upcoming-bill reminder email
func (s *Sender) SendObligationReminder(to, name, obligationName string, dueDate time.Time, amount decimal.Decimal) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Upcoming payment: %s", obligationName)

	// Format email body
	body := fmt.Sprintf(
		"Dear %s,\n\n", name,
	)
	body += fmt.Sprintf(
		"This is a reminder that %s (%s) is due on %s.\n"+
			"Please ensure sufficient funds are available in your account.\n",
		obligationName, amount.StringFixed(2), dueDate.Format("2006-01-02"),
	)
	body += "\nBest regards,\nBudget Service"
	e.Text = []byte(body)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	err := e.Send(addr, auth)
	if err != nil {
		s.logger.Errorf("Failed to send reminder to %s: %v", to, err)
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// SendOverdraftWarning sends a projected-overdraft notification email
func (s *Sender) SendOverdraftWarning(to, name string, lowestPoint decimal.Decimal, lowestDate time.Time, limitRisk bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if limitRisk {
		e.Subject = "Overdraft Limit Risk Warning"
	} else {
		e.Subject = "Projected Overdraft Warning"
	}

	// Format email body
	body := fmt.Sprintf(
		"Dear %s,\n\n", name,
	)
	if limitRisk {
		body += fmt.Sprintf(
			"Your projected balance falls to %s around %s, beyond your arranged overdraft limit.\n"+
				"Payments may bounce unless money is moved before then.\n",
			lowestPoint.StringFixed(2), lowestDate.Format("2006-01-02"),
		)
	} else {
		body += fmt.Sprintf(
			"Your projected balance falls to %s around %s.\n"+
				"Consider moving an upcoming bill or topping up your account.\n",
			lowestPoint.StringFixed(2), lowestDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nBudget Service"
	e.Text = []byte(body)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	err := e.Send(addr, auth)
	if err != nil {
		s.logger.Errorf("Failed to send overdraft warning to %s: %v", to, err)
		return fmt.Errorf("failed to send overdraft warning: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
