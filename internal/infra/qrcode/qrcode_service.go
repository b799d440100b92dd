package qrcode

import (
	"strings"

	"bistro/config"
	"bistro/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	defaultPickupPrefix = "bistro://pickup/"
	orderNumberLength   = 8
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	prefix               string
}

// NewQRCodeService creates the pickup ticket generator from the qrcode configuration
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	qrCfg := cfg.QRCode
	if qrCfg == nil {
		qrCfg = &config.QRCodeConfig{}
	}

	prefix := qrCfg.BaseURL
	if prefix == "" {
		prefix = defaultPickupPrefix
	}

	return &qrcodeService{
		size:                 qrCfg.Size,
		errorCorrectionLevel: parseRecoveryLevel(qrCfg.ErrorCorrectionLevel),
		prefix:               prefix,
	}
}

func parseRecoveryLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToLower(level) {
	case "l", "low":
		return qrcode.Low
	case "q", "high":
		return qrcode.High
	case "h", "highest":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// GeneratePickupTicket renders prefix+orderNumber as a PNG QR code
func (s *qrcodeService) GeneratePickupTicket(orderNumber string) ([]byte, error) {
	if !isOrderNumber(orderNumber) {
		return nil, errors.Errorf("invalid order number: %q", orderNumber)
	}

	qrCode, err := qrcode.New(s.prefix+orderNumber, s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParsePickupTicket returns the order number carried by a scanned pickup ticket
func (s *qrcodeService) ParsePickupTicket(qrData string) (string, error) {
	number, ok := strings.CutPrefix(strings.TrimSpace(qrData), s.prefix)
	if !ok {
		return "", errors.Errorf("not a pickup ticket: %q", qrData)
	}

	if !isOrderNumber(number) {
		return "", errors.Errorf("invalid order number: %q", number)
	}

	return number, nil
}

// isOrderNumber accepts the first eight hex digits of an order id.
func isOrderNumber(s string) bool {
	if len(s) != orderNumberLength {
		return false
	}

	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}

	return true
}
