package config

import (
	"os"
	"strconv"
	"strings"
)

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && v > 0 {
		return v
	}
	return def
}

// Issuer is the process-wide identity printed on invoice documents and
// outbound mail. Every field has a fallback so an unconfigured instance still
// produces complete documents.
type Issuer struct {
	Name    string
	Address string
	Phone   string
	GSTIN   string
	PAN     string
}

func LoadIssuer() Issuer {
	return Issuer{
		Name:    env("COMPANY_NAME", "Vishubh BizBilling"),
		Address: env("COMPANY_ADDRESS", "40 Feet road, Pune, Maharashtra 411001"),
		Phone:   env("COMPANY_PHONE", "+91 9890691272"),
		GSTIN:   env("COMPANY_GSTIN", "08AALCR2857A1ZD"),
		PAN:     env("COMPANY_PAN", "AVHPC9999A"),
	}
}

// SMTP holds outbound mail settings. User/Password empty means mail dispatch
// is not configured; senders must fail fast instead of dialing.
type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
}

func LoadSMTP() SMTP {
	// Gmail app passwords are often pasted with spaces; strip them.
	password := strings.ReplaceAll(os.Getenv("EMAIL_PASSWORD"), " ", "")
	return SMTP{
		Host:     env("EMAIL_HOST", "smtp.gmail.com"),
		Port:     envInt("EMAIL_PORT", 587),
		User:     strings.TrimSpace(os.Getenv("EMAIL_USER")),
		Password: password,
	}
}

// WhatsApp holds Cloud API credentials for text-message dispatch.
type WhatsApp struct {
	PhoneNumberID string
	AccessToken   string
}

func LoadWhatsApp() WhatsApp {
	return WhatsApp{
		PhoneNumberID: strings.TrimSpace(os.Getenv("WHATSAPP_PHONE_NUMBER_ID")),
		AccessToken:   strings.TrimSpace(os.Getenv("WHATSAPP_ACCESS_TOKEN")),
	}
}
