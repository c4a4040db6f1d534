package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/bharatwheels/partner-backend/internal/config"
)

// SMSSender delivers one-time codes and notifications to a mobile number.
type SMSSender interface {
	SendSMS(to, body string) error
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender builds a Twilio-backed sender from config.
func NewTwilioSender(cfg *config.Config) (*TwilioSender, error) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioSMSFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &TwilioSender{client: client, from: cfg.TwilioSMSFrom}, nil
}

// SendSMS sends a plain text message.
func (t *TwilioSender) SendSMS(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		logrus.WithError(err).WithField("to", to).Error("failed to send SMS")
		return err
	}

	logrus.WithField("sid", *resp.Sid).Debug("SMS sent")
	return nil
}

// LogSender writes messages to the log instead of a gateway. Used in
// development and whenever Twilio is not configured.
type LogSender struct{}

// SendSMS logs the message.
func (LogSender) SendSMS(to, body string) error {
	logrus.WithFields(logrus.Fields{
		"to":   to,
		"body": body,
	}).Info("SMS (log-only delivery)")
	return nil
}

// NewSMSSender picks Twilio when configured, otherwise log-only delivery.
func NewSMSSender(cfg *config.Config) SMSSender {
	sender, err := NewTwilioSender(cfg)
	if err != nil {
		logrus.Warn("Twilio not configured - OTP delivery is log-only")
		return LogSender{}
	}
	return sender
}
