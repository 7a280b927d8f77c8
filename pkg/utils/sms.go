package utils

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// SMSOutbound sends messages through the Africa's Talking messaging API. It
// satisfies the dispatcher's OutboundSender capability.
type SMSOutbound struct {
	username string
	apiKey   string
}

func NewSMSOutbound() *SMSOutbound {
	return &SMSOutbound{
		username: os.Getenv("AT_USERNAME"),
		apiKey:   os.Getenv("AT_API_KEY"),
	}
}

// Send delivers one message to one recipient.
func (s *SMSOutbound) Send(phone, message string) error {
	return s.sendSMS(message, []string{phone})
}

func (s *SMSOutbound) sendSMS(message string, recipients []string) error {
	if s.username == "" {
		return fmt.Errorf("africa's talking username not set")
	}
	if s.apiKey == "" {
		return fmt.Errorf("africa's talking API key not set")
	}

	baseURL := "https://api.africastalking.com/version1/messaging"
	log.Printf("Sending SMS to recipients: %v", recipients)

	// Prepare the form data
	data := url.Values{}
	data.Set("username", s.username)
	data.Set("to", strings.Join(recipients, ","))
	data.Set("message", message)

	req, err := http.NewRequest("POST", baseURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apiKey", s.apiKey)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send SMS: status code %d", resp.StatusCode)
	}

	log.Printf("Successfully sent SMS to recipients")
	return nil
}
