package application

import (
	"os"

	"gopkg.in/yaml.v3"

	payment "bluemoon-portal/internal/payment/domain"
)

type payeeFile struct {
	Payee payment.Payee `yaml:"payee"`
}

// LoadPayeeConfig loads payee constants from PAYEE_CONFIG (yaml) and env overrides.
func LoadPayeeConfig() (payment.Payee, error) {
	payee := payment.DefaultPayee()

	if path := os.Getenv("PAYEE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return payee, err
		}
		parsed, err := ParsePayeeConfig(data)
		if err != nil {
			return payee, err
		}
		payee = parsed
	}

	if value := os.Getenv("PAYEE_ACCOUNT_NAME"); value != "" {
		payee.AccountName = value
	}
	if value := os.Getenv("PAYEE_ACCOUNT_NUMBER"); value != "" {
		payee.AccountNumber = value
	}
	return payee, nil
}

// ParsePayeeConfig decodes a payee yaml document; blank fields keep the defaults.
func ParsePayeeConfig(data []byte) (payment.Payee, error) {
	payee := payment.DefaultPayee()
	var file payeeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return payee, err
	}
	if file.Payee.AccountName != "" {
		payee.AccountName = file.Payee.AccountName
	}
	if file.Payee.AccountNumber != "" {
		payee.AccountNumber = file.Payee.AccountNumber
	}
	return payee, nil
}
